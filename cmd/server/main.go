package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/estate-ease/api/internal/api"
	"github.com/estate-ease/api/internal/api/handlers"
	"github.com/estate-ease/api/internal/api/services"
	"github.com/estate-ease/api/internal/auth"
	"github.com/estate-ease/api/internal/config"
	"github.com/estate-ease/api/internal/logger"
	"github.com/estate-ease/api/internal/metrics"
	"github.com/estate-ease/api/internal/repositories"
	"go.uber.org/zap"
)

// @title EstateEase API
// @description Real-estate listing backend: browse, search and manage property listings.
// @BasePath /
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Environment, "estate-api")
	if err != nil {
		panic(fmt.Sprintf("init logger: %v", err))
	}
	defer log.Sync()

	db, err := repositories.Connect(cfg)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	log.Info("connected to database")

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	users := repositories.NewUserRepository(db)
	listings := repositories.NewListingRepository(db)
	storage := repositories.NewStorage(cfg.Storage)

	isProd := cfg.Environment == "production"
	deps := api.Deps{
		Config:  cfg,
		Log:     log,
		Tokens:  tokens,
		Metrics: metrics.NewHTTPMetrics("estate-api"),
		Auth: &handlers.AuthHandler{
			Users:         users,
			Tokens:        tokens,
			OAuth:         services.NewGoogleOAuth(cfg.Google),
			Log:           log,
			Prod:          isProd,
			ClientBaseURL: cfg.Google.ClientBaseURL,
		},
		Listings: &handlers.ListingHandler{Listings: listings, Log: log},
		Uploads:  &handlers.UploadHandler{Storage: storage, Log: log},
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(deps),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("starting EstateEase server", zap.String("port", cfg.Port))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server exited", zap.Error(err))
	}
}
