package db

import (
	"fmt"
	"strings"

	"aquasmart/confs"
	"aquasmart/entities"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the dashboard's local store and migrates its tables.
// Driver "sqlite" uses cfg.Path (":memory:" works); "postgres" uses cfg.DSN.
func Connect(cfg confs.StoreConfig, log *zap.SugaredLogger) (Database, error) {
	dialector, err := dialectorFor(cfg, log)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetMaxOpenConns(10)
	} else {
		// sqlite allows a single writer; an in-memory database lives per connection.
		sqlDB.SetMaxOpenConns(1)
	}

	log.Debugf("running database migrations")
	if err := db.AutoMigrate(&entities.LocalStorageItem{}, &entities.WateringRun{}, &entities.ActivityEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Infof("local store ready (%s)", cfg.Driver)

	return &GormDatabase{DB: db}, nil
}

func dialectorFor(cfg confs.StoreConfig, log *zap.SugaredLogger) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "aquasmart.db"
		}
		log.Infof("opening sqlite store at %s", path)
		return sqlite.Open(path), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("missing required database configuration: STORE_DSN")
		}
		dsn := cfg.DSN
		// URL-style DSNs without sslmode default to require unless local.
		if strings.HasPrefix(dsn, "postgres") && !strings.Contains(dsn, "sslmode=") {
			mode := "require"
			if strings.Contains(dsn, "@localhost") || strings.Contains(dsn, "@127.0.0.1") {
				mode = "disable"
			}
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "sslmode=" + mode
		}
		log.Infof("connecting to postgres store")
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
