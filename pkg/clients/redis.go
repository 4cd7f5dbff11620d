package clients

import (
	"context"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/jitter"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	redisClientName   = "marketplace"
	redisPingAttempts = 3
	redisPingBackoff  = 200 * time.Millisecond
	redisMaxBackoff   = 2 * time.Second
)

// RedisClient — клиент кэша карточек товаров.
type RedisClient struct {
	Client *r.Client
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	return &RedisClient{
		Client: r.NewClient(&r.Options{
			Addr:                  cfg.Addr,
			ClientName:            redisClientName,
			Username:              cfg.User,
			Password:              cfg.Password,
			DB:                    cfg.DB,
			MaxRetries:            cfg.MaxRetries,
			DialTimeout:           cfg.DialTimeout,
			ReadTimeout:           cfg.Timeout,
			WriteTimeout:          cfg.Timeout,
			ContextTimeoutEnabled: true,
		}),
	}
}

// Ping проверяет доступность Redis на старте, повторяя попытку с backoff.
func (rc *RedisClient) Ping(ctx context.Context) error {
	err := jitter.Retry(ctx, redisPingAttempts, redisPingBackoff, redisMaxBackoff, func(ctx context.Context) error {
		return rc.Client.Ping(ctx).Err()
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (rc *RedisClient) Close(_ context.Context) error {
	return rc.Client.Close()
}
