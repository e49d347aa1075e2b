package live

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Subscriber opens one subscription to a named topic. The redis-backed
// implementation is the production transport; tests substitute their own.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (Subscription, error)
}

// Subscription delivers raw payloads until the transport drops or Close is
// called. Close must be safe to call once per subscription.
type Subscription interface {
	ReceiveMessage(ctx context.Context) ([]byte, error)
	Close() error
}

// RedisSubscriber adapts a redis client to the Subscriber interface. Seat
// broadcasts arrive on one pub/sub channel per show.
type RedisSubscriber struct {
	client redis.UniversalClient
}

func NewRedisSubscriber(client redis.UniversalClient) *RedisSubscriber {
	return &RedisSubscriber{client: client}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	pubsub := s.client.Subscribe(ctx, topic)

	// Force the SUBSCRIBE round trip now so a dead broker surfaces as an
	// open error instead of a silent receive loop.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	return &redisSubscription{pubsub: pubsub}, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
}

func (s *redisSubscription) ReceiveMessage(ctx context.Context) ([]byte, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(msg.Payload), nil
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
