package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgenius/internal/api"
	"foodgenius/internal/config"
	"foodgenius/internal/imaging"
	"foodgenius/internal/order"
	"foodgenius/internal/platform/gemini"
	"foodgenius/internal/platform/localllm"
	"foodgenius/internal/platform/logging"
	"foodgenius/internal/recipe"
	"foodgenius/internal/refdata"
)

func main() {
	configPath := flag.String("config", "", "path to config.json")
	flag.Parse()

	cfg, err := config.Load(resolveConfigPath(*configPath))
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	logger, err := logging.New(cfg.App.Debug, cfg.App.LogLevel)
	if err != nil {
		panic(fmt.Errorf("failed to create logger: %w", err))
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	recipeStore, closeRecipes, err := newRecipeStore(cfg)
	if err != nil {
		logger.Fatal("error creating recipe store", zap.Error(err))
	}
	defer closeRecipes()

	orderStore, closeOrders, err := newOrderStore(cfg)
	if err != nil {
		logger.Fatal("error creating order store", zap.Error(err))
	}
	defer closeOrders()

	refData := refdata.Load(cfg.RefData.SynonymsPath, cfg.RefData.SubstitutionsPath, logger.Named("refdata"))
	if cfg.RefData.Watch {
		go func() {
			if err := refData.Watch(ctx); err != nil {
				logger.Error("reference data watcher stopped", zap.Error(err))
			}
		}()
	}

	llm, closeLLM, err := newTextGenerator(ctx, cfg)
	if err != nil {
		logger.Fatal("error creating language model client", zap.Error(err))
	}
	defer closeLLM()

	handler := api.NewHandler(
		recipeStore,
		orderStore,
		llm,
		refData,
		imaging.NewURLBuilder(cfg.Images.ResolvedCloudName(), "/images"),
		imaging.NewLibrary(cfg.Images.Dir),
		logger.Named("api"),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(handler, cfg.Server.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("llm", cfg.LLM.Provider), zap.String("catalog", cfg.Catalog.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

// resolveConfigPath picks the flag, then FOODGENIUS_CONFIG, then ./config.json
// if it exists. An empty result means defaults and environment only.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("FOODGENIUS_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("config.json"); err == nil {
		return "config.json"
	}
	return ""
}

func newRouter(handler *api.Handler, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(api.RequestID(), api.RequestLogger(logger), api.Recovery(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", api.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsConfig))

	api.RegisterRoutes(r, handler)
	return r
}

func newRecipeStore(cfg *config.Config) (recipe.Store, func(), error) {
	switch cfg.Catalog.Driver {
	case "postgres":
		store, err := recipe.NewPostgresStore(cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := recipe.NewFileStore(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func newOrderStore(cfg *config.Config) (order.Store, func(), error) {
	if cfg.Orders.DatabaseURL == "" {
		return order.NewMemoryStore(), func() {}, nil
	}
	store, err := order.NewPostgresStore(cfg.Orders.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// newTextGenerator returns a nil generator for the "none" provider, which
// the handler reports as 503 on chat and LLM transforms.
func newTextGenerator(ctx context.Context, cfg *config.Config) (api.TextGenerator, func(), error) {
	switch cfg.LLM.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, float32(cfg.LLM.Temperature))
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	case "ollama":
		return localllm.NewClient(cfg.LLM.OllamaURL, cfg.LLM.OllamaModel, cfg.LLM.Temperature), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}
