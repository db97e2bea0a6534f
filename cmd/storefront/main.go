package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"asdenim/internal/app"
	"asdenim/internal/config"
	"asdenim/internal/kv"
	"asdenim/internal/util"
)

// logNavigator stands in for a real router in headless runs.
type logNavigator struct {
	logger *slog.Logger
}

func (n *logNavigator) NavigateTo(path string) {
	n.logger.Info("navigate", "path", path)
}

func main() {
	configPath := flag.String("config", config.ConfigPath, "path to config file")
	flag.Parse()

	_ = godotenv.Load() // Load .env file if it exists

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel, true)

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	core, err := app.New(app.Config{
		BaseURL:   cfg.APIBaseURL,
		Store:     store,
		Navigator: &logNavigator{logger: logger},
		LoginPath: cfg.LoginPath,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	ctx := context.Background()
	if err := core.Initialize(ctx); err != nil {
		log.Fatalf("failed to restore state: %v", err)
	}

	if core.CartCount() > 0 {
		if err := core.RefreshCart(ctx); err != nil {
			logger.Warn("cart snapshot refresh", "err", err)
		}
	}
	logger.Info("storefront ready",
		"backend", cfg.StoreBackend,
		"authenticated", core.Authenticated(),
		"cart_count", core.CartCount(),
		"cart_amount", core.CartAmount())
}

func buildStore(cfg config.FileConfig) (kv.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil
	case config.BackendRedis:
		return kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, "storefront:"), nil
	case config.BackendPostgres:
		return kv.NewGormStore(cfg.DatabaseURL)
	default:
		return kv.NewFileStore(cfg.DataDir)
	}
}
