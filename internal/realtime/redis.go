package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "jobx:room:"

// RedisBackplane publishes frames on a per-room channel so that every
// instance can deliver them to its own sockets.
type RedisBackplane struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisBackplane(client *redis.Client, log *slog.Logger) *RedisBackplane {
	return &RedisBackplane{client: client, log: log}
}

func (b *RedisBackplane) Publish(ctx context.Context, room string, frame []byte) error {
	return b.client.Publish(ctx, channelPrefix+room, frame).Err()
}

// Run subscribes to every room channel, routes hub broadcasts through redis
// and forwards received frames to hub until ctx is done. When Run returns the
// hub is back on in-process delivery.
func (b *RedisBackplane) Run(ctx context.Context, hub *Hub) error {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s*: %w", channelPrefix, err)
	}
	hub.SetBackplane(b)
	defer hub.UseLocal()
	b.log.Info("realtime backplane subscribed", slog.String("pattern", channelPrefix+"*"))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			hub.Deliver(strings.TrimPrefix(msg.Channel, channelPrefix), []byte(msg.Payload))
		}
	}
}
