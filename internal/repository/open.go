package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/shophub-client/internal/config"
	"github.com/sandeepkv93/shophub-client/internal/domain"
)

// Open returns the state repository selected by cfg and a function that
// releases its connection.
func Open(ctx context.Context, cfg *config.Config) (StateRepository, func() error, error) {
	switch cfg.StateDriver {
	case config.StateDriverMemory:
		return NewInMemoryStateRepository(), func() error { return nil }, nil
	case config.StateDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStateRepository(client, cfg.RedisPrefix), client.Close, nil
	case config.StateDriverPostgres:
		return openGorm(postgres.Open(cfg.StateDSN))
	default:
		return openGorm(sqlite.Open(cfg.StateDSN))
	}
}

func openGorm(dialector gorm.Dialector) (StateRepository, func() error, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, nil, fmt.Errorf("open state database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("state database handle: %w", err)
	}
	if err := db.AutoMigrate(&domain.StateEntry{}); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate state database: %w", err)
	}
	return NewStateRepository(db), sqlDB.Close, nil
}
