package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dfryer1193/imagehost/images/application"
	"github.com/dfryer1193/imagehost/images/persistence"
	"github.com/dfryer1193/imagehost/internal/config"
	"github.com/dfryer1193/imagehost/internal/logging"
	"github.com/dfryer1193/imagehost/internal/middleware"
	"github.com/dfryer1193/imagehost/internal/rest"
	"github.com/dfryer1193/imagehost/shared/db/postgres"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize dependencies
	database := postgres.NewPostgresDB(&postgres.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
	})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	// A database that is still starting up must not block the process;
	// requests degrade to connection errors until it comes up.
	if err := database.WaitReady(context.Background()); err != nil {
		log.Error().Err(err).Msg("Database not ready, starting degraded")
	} else if err := database.Migrate(); err != nil {
		log.Error().Err(err).Msg("Failed to ensure schema, starting degraded")
	}

	storage, err := application.NewStorage(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create content store")
	}

	repo := persistence.NewImageRepository(database.DB())
	uploads := application.NewUploadService(repo, storage)
	listings := application.NewListingService(repo, storage)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	api := rest.NewImagesAPI(uploads, listings)
	api.Register(router, cfg.StaticDir, cfg.UploadDir)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
