package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"minisocial/internal/domain/model"
	"minisocial/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens and pings the Redis client used for post events.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	slog.InfoContext(ctx, "connected to Redis", slog.String("addr", cfg.RedisAddr))
	return rdb, nil
}

// PostEventPublisher appends post events to a Redis list, oldest at the head.
type PostEventPublisher struct {
	rdb       *redis.Client
	queueName string
}

func NewPostEventPublisher(rdb *redis.Client, queueName string) *PostEventPublisher {
	return &PostEventPublisher{rdb: rdb, queueName: queueName}
}

func (p *PostEventPublisher) PublishPostCreated(ctx context.Context, event model.PostEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal post event: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to push post event to %q: %w", p.queueName, err)
	}
	return nil
}
