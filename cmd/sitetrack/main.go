package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"sitetrack/internal/backend"
	"sitetrack/internal/cli"
	apphttp "sitetrack/internal/http"
)

func main() {
	seed := flag.Bool("init", false, "seed a starter catalog and exit")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	if err := backendCfg.Validate(); err != nil {
		logger.Error("Backend configuration validation failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "type", backendCfg.Type.String())
		os.Exit(1)
	}

	if *seed {
		if err := cli.SeedCatalog(context.Background(), result.Services.Catalog); err != nil {
			logger.Error("Failed to seed catalog", "error", err)
			os.Exit(1)
		}
		logger.Info("Starter catalog seeded")
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
		return
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:             ":" + cfg.Port,
		FlattenChunkSize: cfg.FlattenChunkSize,
	}, result.Services.Catalog, result.Services.Progress)

	// Server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting sitetrack server",
		"port", cfg.Port,
		"backend", backendCfg.Type.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
