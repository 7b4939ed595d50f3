package redis

import (
	"context"
	"net"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"meetingbook/config"
)

const pingTimeout = 5 * time.Second

// New dials the primary Redis behind the read-through caches and the rate limiter.
// The process exits when the server does not answer a ping.
func New(cfg *config.Config) *goRedis.Client {
	client := goRedis.NewClient(options(cfg.Cache.Redis.Primary))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", client.Options().Addr).Msg("redis not reachable")
	}

	log.Info().Str("addr", client.Options().Addr).Int("db", client.Options().DB).Msg("connected to redis")

	return client
}

func options(node config.RedisNode) *goRedis.Options {
	return &goRedis.Options{
		Addr:     net.JoinHostPort(node.Host, node.Port),
		Password: node.Password,
		DB:       node.DB,
	}
}
