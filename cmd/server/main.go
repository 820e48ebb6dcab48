package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/content-provisioning/pkg/provisioning"
	"github.com/tendant/content-provisioning/pkg/provisioning/api"
	"github.com/tendant/content-provisioning/pkg/provisioning/config"
	"github.com/tendant/content-provisioning/pkg/provisioning/metrics"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	logger := slog.Default()

	serverConfig, err := config.LoadServerConfig()
	if err != nil {
		logger.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer := provisioning.Observers{
		provisioning.NewLogObserver(logger),
		metrics.New(registry),
	}

	ctx := context.Background()
	runtime, err := serverConfig.Build(ctx, provisioning.WithObserver(observer))
	if err != nil {
		logger.Error("Failed to build provisioning service", "err", err)
		os.Exit(1)
	}
	defer runtime.Close()

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	server.R.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	contentHandler := api.NewContentHandler(runtime.Service, logger)

	mountAPI := func(r chi.Router) {
		r.Mount("/contents", contentHandler.Routes())
		r.Get("/content-types", contentHandler.ListContentTypes)
	}

	if serverConfig.APIKeySHA256 == "" {
		logger.Warn("API_KEY_SHA256 not set, API routes are unauthenticated")
		server.R.Route("/api/v1", mountAPI)
	} else {
		apiKeyConfig := middleware.ApiKeyConfig{
			APIKeys: map[string]string{
				"key1": serverConfig.APIKeySHA256,
			},
		}
		apiKeyMiddleware, err := middleware.ApiKeyMiddleware(apiKeyConfig)
		if err != nil {
			logger.Error("Failed initialize API Key middleware", "err", err)
			runtime.Close()
			os.Exit(1)
		}
		server.R.Route("/api/v1", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(apiKeyMiddleware)
				mountAPI(r)
			})
		})
	}

	logger.Info("Content provisioning server starting",
		"port", serverConfig.Port,
		"env", serverConfig.Environment,
		"database", serverConfig.DatabaseType,
		"signing_enabled", runtime.Signer.IsEnabled(),
	)

	server.Run()
}
