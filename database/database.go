package database

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/mager/moodboard/config"
	"go.uber.org/zap"
)

// ProvideDatabase provides a postgres client
func ProvideDatabase(logger *zap.SugaredLogger, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Errorw("Failed to open database connection", "error", err)
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		logger.Errorw("Failed to ping database", "error", err)
		return nil, err
	}

	return db, nil
}

var Options = ProvideDatabase
