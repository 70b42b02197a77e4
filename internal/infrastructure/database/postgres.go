package database

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/config"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
	connMaxLifetime = 30 * time.Minute
)

// NewPostgresConnection opens the pool and pings it, retrying with
// exponential backoff while the database is still starting up.
func NewPostgresConnection(ctx context.Context, cfg config.DBConfig, app config.AppConfig, log *logrus.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode,
	)

	logLevel := logger.Info
	if app.IsProduction() {
		logLevel = logger.Warn
	}

	var db *gorm.DB
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(connectBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		})
		if err != nil {
			log.Warnf("Database not reachable yet: %v", err)
			return retry.RetryableError(err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			log.Warnf("Database ping failed: %v", err)
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	log.WithFields(logrus.Fields{
		"host": cfg.Host,
		"db":   cfg.Name,
	}).Info("Connected to PostgreSQL")

	return db, nil
}
