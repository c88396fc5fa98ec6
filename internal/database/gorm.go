package database

import (
	"fmt"
	"time"

	"wpconn-dashboard/internal/config"
	"wpconn-dashboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database behind the configured session store and
// runs migrations.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.SessionStore {
	case config.StoreSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	case config.StorePostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("session store %q is not backed by a database", cfg.SessionStore)
	}

	db, err := OpenDialector(dialector)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database", zap.String("driver", dialector.Name()))
	return db, nil
}

func OpenDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}

	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
