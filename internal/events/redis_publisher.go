package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vr-ski/TransactionManager/internal/models"
)

// redisClient is the part of *redis.Client the publisher needs
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisPublisher struct {
	client redisClient
}

// NewRedisPublisher publishes events on the transaction-created and
// transaction-updated channels
func NewRedisPublisher(client redisClient) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) PublishTransactionCreated(ctx context.Context, tx models.Transaction) error {
	return p.publish(ctx, TransactionCreated, tx)
}

func (p *redisPublisher) PublishTransactionUpdated(ctx context.Context, tx models.Transaction) error {
	return p.publish(ctx, TransactionUpdated, tx)
}

func (p *redisPublisher) publish(ctx context.Context, channel string, tx models.Transaction) error {
	payload, err := json.Marshal(newTransactionEvent(channel, tx))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared with the catalog cache
func (p *redisPublisher) Close() error {
	return nil
}
