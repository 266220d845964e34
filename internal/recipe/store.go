package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for recipe catalog operations.
type Store interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (*Recipe, error)
}

// FileStore serves the catalog from a JSON file loaded once at construction.
type FileStore struct {
	recipes []Recipe
	byID    map[string]int
}

// NewFileStore reads a JSON array of recipes from path.
func NewFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", path, err)
	}
	return NewMemoryStore(recipes), nil
}

// NewMemoryStore wraps an in-memory catalog. The slice is not copied and must
// not be modified afterwards.
func NewMemoryStore(recipes []Recipe) *FileStore {
	byID := make(map[string]int, len(recipes))
	for i, r := range recipes {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = i
		}
	}
	return &FileStore{recipes: recipes, byID: byID}
}

// ListRecipes returns the catalog in file order.
func (s *FileStore) ListRecipes(ctx context.Context) ([]Recipe, error) {
	return s.recipes, nil
}

// GetRecipeByID returns nil without error when the id is unknown.
func (s *FileStore) GetRecipeByID(ctx context.Context, id string) (*Recipe, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	r := s.recipes[i]
	return &r, nil
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		position SERIAL,
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		image TEXT,
		ingredients JSONB,
		steps JSONB,
		tags JSONB,
		nutrition JSONB,
		source TEXT,
		extra JSONB
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const selectRecipe = "SELECT id, title, image, ingredients, steps, tags, nutrition, source, extra FROM recipes"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*Recipe, error) {
	var r Recipe
	var image, source sql.NullString
	var ingredientsJSON, stepsJSON, tagsJSON, nutritionJSON, extraJSON []byte

	if err := row.Scan(&r.ID, &r.Title, &image, &ingredientsJSON, &stepsJSON, &tagsJSON, &nutritionJSON, &source, &extraJSON); err != nil {
		return nil, err
	}
	r.Image = image.String
	r.Source = source.String

	if err := unmarshalColumn(ingredientsJSON, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := unmarshalColumn(stepsJSON, &r.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	if err := unmarshalColumn(tagsJSON, &r.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := unmarshalColumn(extraJSON, &r.Extra); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extra: %w", err)
	}
	if len(nutritionJSON) > 0 {
		r.Nutrition = json.RawMessage(nutritionJSON)
	}
	return &r, nil
}

func unmarshalColumn(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// ListRecipes returns the catalog in insertion order.
func (s *PostgresStore) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryxContext(ctx, selectRecipe+" ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return recipes, nil
}

// GetRecipeByID retrieves a recipe by id. A missing recipe is not an error.
func (s *PostgresStore) GetRecipeByID(ctx context.Context, id string) (*Recipe, error) {
	r, err := scanRecipe(s.db.QueryRowxContext(ctx, selectRecipe+" WHERE id = $1", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}
	return r, nil
}

// SaveRecipe inserts or updates a recipe, keeping its catalog position.
func (s *PostgresStore) SaveRecipe(ctx context.Context, r *Recipe) error {
	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	stepsJSON, err := json.Marshal(r.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}
	tagsJSON, err := json.Marshal(r.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	extraJSON, err := json.Marshal(r.Extra)
	if err != nil {
		return fmt.Errorf("failed to marshal extra: %w", err)
	}
	var nutrition any
	if len(r.Nutrition) > 0 {
		nutrition = []byte(r.Nutrition)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO recipes (id, title, image, ingredients, steps, tags, nutrition, source, extra) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO UPDATE SET title = $2, image = $3, ingredients = $4, steps = $5, tags = $6, nutrition = $7, source = $8, extra = $9",
		r.ID,
		r.Title,
		r.Image,
		ingredientsJSON,
		stepsJSON,
		tagsJSON,
		nutrition,
		r.Source,
		extraJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}
