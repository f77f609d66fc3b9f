package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/MosinFAM/social-analytics/internal/cache"
	"github.com/MosinFAM/social-analytics/internal/config"
	"github.com/MosinFAM/social-analytics/internal/db"
	"github.com/MosinFAM/social-analytics/internal/handlers"
	"github.com/MosinFAM/social-analytics/internal/logging"
	"github.com/MosinFAM/social-analytics/internal/service"
	"github.com/MosinFAM/social-analytics/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	logging.InitLogger()
	cfg := config.Load()

	var store storage.Storage
	var ping func() error

	if cfg.StorageType == "postgres" {
		dbConn, err := db.Connect(cfg)
		if err != nil {
			slog.Error("Failed to connect to DB", "err", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		if err := db.Migrate(dbConn, "migrations"); err != nil {
			slog.Error("Failed to run migrations", "err", err)
			os.Exit(1)
		}
		store = storage.NewPostgresStorage(dbConn)
		ping = dbConn.Ping
	} else if cfg.StorageType == "in-memory" {
		store = storage.NewMemoryStorage()
	} else {
		slog.Error("Unknown STORAGE_TYPE", "value", cfg.StorageType)
		os.Exit(1)
	}

	respCache := cache.New(cfg.CacheTTL)
	h := handlers.New(service.NewAnalyticsService(store), service.NewImportService(store), respCache)
	h.Ping = ping

	r := gin.Default()
	r.Use(handlers.RequestID())
	h.RegisterRoutes(r)

	// Настройка CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	slog.Info("Server is running", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, c.Handler(r)); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}
