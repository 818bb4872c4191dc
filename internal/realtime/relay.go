package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisRelay publishes events on a Redis channel and forwards everything
// received on that channel to the local hub, so subscribers on every
// instance see every mutation.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *slog.Logger
	pubsub  *redis.PubSub
	done    chan struct{}
}

// NewRedisRelay builds a relay for channel delivering into hub.
func NewRedisRelay(client *redis.Client, channel string, hub *Hub, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger.With("component", "redis_relay", "channel", channel),
	}
}

// Broadcast publishes the event. When Redis is unreachable the event is
// delivered to local subscribers only and no error is returned.
func (r *RedisRelay) Broadcast(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.Name, err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("redis publish failed, delivering locally", "event", ev.Name, "error", err)
		r.hub.deliver(payload)
	}
	return nil
}

// Start subscribes to the channel and forwards messages to the hub until
// ctx is cancelled or Close is called. It returns once the subscription is
// confirmed.
func (r *RedisRelay) Start(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.pubsub = pubsub
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.hub.deliver([]byte(msg.Payload))
			}
		}
	}()
	r.logger.Info("relay subscribed")
	return nil
}

// Close ends the subscription.
func (r *RedisRelay) Close() error {
	if r.pubsub == nil {
		return nil
	}
	return r.pubsub.Close()
}
