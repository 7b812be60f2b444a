package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/zanzhit/camera_dashboard/internal/config"
)

func New(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}
