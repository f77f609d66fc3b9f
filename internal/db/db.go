package db

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/MosinFAM/social-analytics/internal/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose"
)

// Connect открывает пул соединений с PostgreSQL с заданными лимитами.
// Исчерпание пула отдаёт ошибку вызывающему, бесконечной очереди нет.
func Connect(cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.DBMaxConns)
	db.SetMaxIdleConns(cfg.DBMinConns)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	slog.Info("Connected to PostgreSQL successfully")
	return db, nil
}

// Migrate прогоняет goose-миграции из каталога dir
func Migrate(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, dir)
}
