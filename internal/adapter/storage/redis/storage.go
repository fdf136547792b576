package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Storage maps the session snapshot onto redis strings. Every key is
// namespaced by prefix, typically one per device.
type Storage struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

func NewRedisClient(cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", cfg.Address), zap.Error(err))
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Address, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", cfg.Address))
	return rdb, nil
}

func NewStorage(client *redis.Client, prefix string, log *logger.Logger) *Storage {
	return &Storage{
		client: client,
		prefix: prefix,
		logger: log.Named("redis_storage"),
	}
}

func (s *Storage) key(k string) string {
	return s.prefix + k
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrKeyNotFound
		}
		s.logger.Error("Redis Get operation failed", zap.String("key", s.key(key)), zap.Error(err))
		return "", fmt.Errorf("redis storage get %q: %w", key, err)
	}
	return val, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		s.logger.Error("Redis Set operation failed", zap.String("key", s.key(key)), zap.Error(err))
		return fmt.Errorf("redis storage set %q: %w", key, err)
	}
	s.logger.Debug("Redis Set operation successful", zap.String("key", s.key(key)))
	return nil
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		s.logger.Error("Redis Del operation failed", zap.Strings("keys", full), zap.Error(err))
		return fmt.Errorf("redis storage delete: %w", err)
	}
	return nil
}
