package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modernshop-api/internal/config"
	"modernshop-api/internal/models"
	"modernshop-api/pkg/logging"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	DB          *gorm.DB
	RedisClient *redis.Client
)

// InitDatabase initializes database connections
func InitDatabase() error {
	if err := initSQL(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis is optional: callback dedup and rate limiting degrade to no-ops without it
	if err := initRedis(); err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	return nil
}

// initSQL opens PostgreSQL when DATABASE_URL is set, otherwise a local SQLite file
func initSQL() error {
	var err error

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	}

	if dsn := config.AppConfig.DatabaseURL; dsn == "" {
		logging.Infof("Database URL not set, using SQLite for development")
		DB, err = gorm.Open(sqlite.Open("modernshop.db"), gormConfig)
	} else {
		DB, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Infof("Database connected successfully")
	return nil
}

// initRedis initializes the Redis connection if REDIS_URL is configured
func initRedis() error {
	redisURL := config.AppConfig.RedisURL
	if redisURL == "" {
		logging.Warnf("REDIS_URL not set - callback dedup and rate limiting disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	RedisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err = RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Infof("Redis connected successfully")
	return nil
}

// autoMigrate performs database migration
func autoMigrate() error {
	return DB.AutoMigrate(
		&models.Product{},
		&models.Profile{},
		&models.Order{},
		&models.OrderItem{},
		&models.MpesaTransaction{},
		&models.Payment{},
		&models.Receipt{},
		&models.WebhookLog{},
		&models.Shop{},
		&models.Collaborator{},
		&models.Invite{},
	)
}

// GetDB returns database instance
func GetDB() *gorm.DB {
	return DB
}

// GetRedis returns the Redis client, nil when Redis is not configured
func GetRedis() *redis.Client {
	return RedisClient
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// CloseDatabase closes database connections
func CloseDatabase() error {
	if sqlDB, err := DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logging.Errorf("Failed to close database: %v", err)
		}
	}

	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logging.Errorf("Failed to close Redis: %v", err)
		}
	}

	return nil
}
