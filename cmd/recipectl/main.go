package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"foodgenius/internal/platform/logging"
	"foodgenius/internal/recipe"
	"foodgenius/internal/refdata"
	"foodgenius/internal/search"
	"foodgenius/internal/transform"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "recipectl",
		Usage: "Search and transform the recipe catalog offline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to the recipe catalog JSON file",
				Value:   "data/recipes.json",
				EnvVars: []string{"FOODGENIUS_CATALOG_PATH"},
			},
			&cli.StringFlag{
				Name:    "synonyms",
				Usage:   "Path to the synonym table (empty for the built-in table)",
				Value:   "data/synonyms.json",
				EnvVars: []string{"FOODGENIUS_REFDATA_SYNONYMS_PATH"},
			},
			&cli.StringFlag{
				Name:    "substitutions",
				Usage:   "Path to the substitution table",
				Value:   "data/substitutions.json",
				EnvVars: []string{"FOODGENIUS_REFDATA_SUBSTITUTIONS_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Rank catalog recipes against an ingredient query",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Ingredient query"},
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "AND or OR", Value: string(search.ModeAnd)},
					&cli.IntFlag{Name: "min-k", Usage: "Minimum hits in OR mode", Value: 1},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 30},
				},
			},
			{
				Name:   "veganize",
				Usage:  "Print the veganized version of a recipe",
				Action: veganizeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Recipe id", Required: true},
				},
			},
			{
				Name:   "scale",
				Usage:  "Print a recipe scaled between serving counts",
				Action: scaleCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Recipe id", Required: true},
					&cli.Float64Flag{Name: "from", Usage: "Original servings", Required: true},
					&cli.Float64Flag{Name: "to", Usage: "Target servings", Required: true},
				},
			},
			{
				Name:   "import",
				Usage:  "Load the catalog file into PostgreSQL",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Usage:    "PostgreSQL connection string",
						EnvVars:  []string{"DATABASE_URL", "FOODGENIUS_CATALOG_DATABASE_URL"},
						Required: true,
					},
				},
			},
		},
	}
}

func newLogger(c *cli.Context) *zap.Logger {
	logger, err := logging.New(false, c.String("log-level"))
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadCatalog(c *cli.Context) (*recipe.FileStore, error) {
	return recipe.NewFileStore(c.String("catalog"))
}

func loadRefData(c *cli.Context, logger *zap.Logger) *refdata.Store {
	return refdata.Load(c.String("synonyms"), c.String("substitutions"), logger)
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func findRecipe(c *cli.Context, store *recipe.FileStore) (*recipe.Recipe, error) {
	id := c.String("id")
	r, err := store.GetRecipeByID(c.Context, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("recipe %q not found", id)
	}
	return r, nil
}

func searchCommand(c *cli.Context) error {
	logger := newLogger(c)
	defer logger.Sync() //nolint:errcheck

	query := c.String("query")
	if query == "" {
		query = c.Args().First()
	}
	mode, err := search.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	store, err := loadCatalog(c)
	if err != nil {
		return err
	}
	catalog, err := store.ListRecipes(c.Context)
	if err != nil {
		return err
	}

	engine := search.NewEngine(loadRefData(c, logger).Synonyms())
	results := engine.Search(query, catalog, search.Options{
		Limit:   c.Int("limit"),
		Mode:    mode,
		MinHits: c.Int("min-k"),
	})

	type row struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Hits  int    `json:"hits"`
		Score int    `json:"score"`
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, row{ID: r.Recipe.ID, Title: r.Recipe.Title, Hits: r.Hits, Score: r.Score})
	}
	logger.Debug("search finished", zap.String("query", query), zap.Int("results", len(rows)))
	return printJSON(c, rows)
}

func veganizeCommand(c *cli.Context) error {
	logger := newLogger(c)
	defer logger.Sync() //nolint:errcheck

	store, err := loadCatalog(c)
	if err != nil {
		return err
	}
	r, err := findRecipe(c, store)
	if err != nil {
		return err
	}
	t := transform.New(loadRefData(c, logger).Substitutions())
	return printJSON(c, t.Veganize(r))
}

func scaleCommand(c *cli.Context) error {
	from, to := c.Float64("from"), c.Float64("to")
	if from <= 0 || to <= 0 {
		return fmt.Errorf("--from and --to must be positive")
	}

	store, err := loadCatalog(c)
	if err != nil {
		return err
	}
	r, err := findRecipe(c, store)
	if err != nil {
		return err
	}
	return printJSON(c, transform.New(nil).Scale(r, to/from))
}

func importCommand(c *cli.Context) error {
	logger := newLogger(c)
	defer logger.Sync() //nolint:errcheck

	store, err := loadCatalog(c)
	if err != nil {
		return err
	}
	catalog, err := store.ListRecipes(c.Context)
	if err != nil {
		return err
	}

	db, err := recipe.NewPostgresStore(c.String("database-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	for i := range catalog {
		if err := db.SaveRecipe(c.Context, &catalog[i]); err != nil {
			return fmt.Errorf("failed to import recipe %s: %w", catalog[i].ID, err)
		}
		logger.Debug("imported recipe", zap.String("id", catalog[i].ID))
	}
	logger.Info("catalog imported", zap.Int("recipes", len(catalog)))
	return printJSON(c, map[string]int{"imported": len(catalog)})
}
