// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

// @title Herbfinder API
// @version 1.0
// @description Plant identification and community feed.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/herbfinder/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity provider id token: `Bearer <idToken>`
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/herbfinder/docs" // swagger spec
	"github.com/tomtom215/herbfinder/internal/api"
	"github.com/tomtom215/herbfinder/internal/auth"
	"github.com/tomtom215/herbfinder/internal/authz"
	"github.com/tomtom215/herbfinder/internal/config"
	"github.com/tomtom215/herbfinder/internal/database"
	"github.com/tomtom215/herbfinder/internal/identcache"
	"github.com/tomtom215/herbfinder/internal/identify"
	"github.com/tomtom215/herbfinder/internal/identity"
	"github.com/tomtom215/herbfinder/internal/knowledge"
	"github.com/tomtom215/herbfinder/internal/logging"
	"github.com/tomtom215/herbfinder/internal/metrics"
	"github.com/tomtom215/herbfinder/internal/recognition"
	"github.com/tomtom215/herbfinder/internal/storage"
	"github.com/tomtom215/herbfinder/internal/supervisor"
	"github.com/tomtom215/herbfinder/internal/supervisor/services"
	"github.com/tomtom215/herbfinder/internal/translate"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential setup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("auth_mode", cfg.Identity.AuthMode).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting Herbfinder")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			db.Close()
			logging.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		logging.Info().Int("applied", applied).Msg("Database migrations complete")
	}

	verifier, err := auth.NewVerifier(cfg.Identity)
	if err != nil {
		db.Close()
		logging.Fatal().Err(err).Msg("Failed to create token verifier")
	}
	guard := auth.NewGuard(verifier)

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		db.Close()
		logging.Fatal().Err(err).Msg("Failed to load authorization policy")
	}

	images, err := storage.New(cfg.Storage)
	if err != nil {
		db.Close()
		logging.Fatal().Err(err).Msg("Failed to create object storage client")
	}

	cache, err := identcache.New(ctx, cfg.Cache, db)
	if err != nil {
		db.Close()
		logging.Fatal().Err(err).Msg("Failed to open identification cache")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing identification cache")
		}
	}()

	deps := identify.Deps{
		Images:     images,
		Cache:      cache,
		Recognizer: recognition.New(cfg.Recognition, cfg.Translation.TargetLanguage),
		Translator: translate.New(cfg.Translation),
		Knowledge:  db,
	}
	if encyclopedia := knowledge.New(cfg.Knowledge); encyclopedia.Enabled() {
		deps.Encyclopedia = encyclopedia
	}
	analyzer := identify.NewService(deps)

	handler := api.NewHandler(api.HandlerDeps{
		Store:      db,
		Accounts:   identity.New(cfg.Identity),
		Analyzer:   analyzer,
		Authorizer: enforcer,
		Verifier:   guard,
		Feed:       cfg.Feed,
	})
	router := api.NewRouter(handler, guard, api.RouterConfig{
		Middleware:          api.ChiMiddlewareConfigFromSecurity(cfg.Security),
		AnalyzeRequiresAuth: cfg.Security.AnalyzeRequiresAuth,
		DisableSwagger:      cfg.Server.Environment == "production",
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	if cfg.Cache.PurgeInterval > 0 {
		tree.AddDataService(services.NewCacheJanitorService(cache, cfg.Cache.PurgeInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	errCh := tree.ServeBackground(ctx)

	<-ctx.Done()
	logging.Info().Msg("Shutdown signal received")

	if err := <-errCh; err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services did not stop within the shutdown timeout")
	}

	logging.Info().Msg("Herbfinder stopped")
}
