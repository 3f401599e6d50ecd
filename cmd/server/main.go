package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"searchconsole-go/internal/config"
	"searchconsole-go/internal/handler"
	"searchconsole-go/pkg/cache"
	"searchconsole-go/pkg/gsc"
	"searchconsole-go/pkg/logger"
	"searchconsole-go/pkg/settings"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Configuration file path")
	)
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.NewManager().Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logger)
	logger.SetLogger(log)
	logger.SetGlobalLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := buildCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	settingsStore, err := settings.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return err
	}

	token := os.Getenv("GSC_ACCESS_TOKEN")
	client := gsc.NewClient(
		gsc.Config{
			Endpoint:  cfg.GSC.Endpoint,
			RateLimit: cfg.GSC.RateLimit,
			CacheTTL:  time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		},
		&gsc.StaticTokenProvider{Token: token},
		store,
		settingsStore,
		settingsStore,
	)

	app := fiber.New(fiber.Config{
		AppName:      "searchconsole-go",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	handler.New(client).Register(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Server listening")
		errCh <- app.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutting down")
	}

	return app.ShutdownWithTimeout(5 * time.Second)
}

func buildCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute

	if cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisStore(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, func() { store.Close() }, nil
	}

	return cache.NewMemoryStore(cfg.Cache.MaxEntries, ttl), func() {}, nil
}
