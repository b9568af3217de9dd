package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/rpattn/fedentity/internal/config"
	"github.com/rpattn/fedentity/internal/db"
	"github.com/rpattn/fedentity/internal/entities"
	"github.com/rpattn/fedentity/internal/entityloader"
	"github.com/rpattn/fedentity/internal/export"
	"github.com/rpattn/fedentity/internal/ingestion"
	"github.com/rpattn/fedentity/internal/middleware"
	"github.com/rpattn/fedentity/internal/receiver"
	"github.com/rpattn/fedentity/internal/repository"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	registry, err := entities.NewRegistry()
	if err != nil {
		logrus.WithError(err).Fatal("failed to declare entity types")
	}

	entityRepo := repository.NewEntityRepository(conn.Pool)
	parents := entityloader.NewParentLoader(entityRepo)
	builder := ingestion.NewBuilder(registry)
	recv := receiver.New(nil, entityRepo, parents)
	exporter := export.NewService(registry, entityRepo,
		export.WithExportDirectory(cfg.Export.Directory))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/receive/", receiver.NewHTTPHandler(builder, recv))
	mux.Handle("/export", export.NewHTTPHandler(exporter))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler.Handler(middleware.LoggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exited")
}
