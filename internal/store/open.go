package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Driver    string
	DSN       string
	RedisAddr string
	RedisDB   int
}

// Open builds a RecordStore over the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*RecordStore, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case DriverMemory:
		backend = NewMemoryBackend()
	case DriverSQLite:
		backend, err = openGORM(sqlite.Open(cfg.DSN))
	case DriverPostgres:
		backend, err = openGORM(postgres.Open(cfg.DSN))
	case DriverRedis:
		backend, err = ConnectRedis(ctx, RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	log.Info().Str("driver", cfg.Driver).Msg("record store ready")
	return New(backend, log), nil
}

func openGORM(dialector gorm.Dialector) (*GORMBackend, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGORMBackend(db)
}
