package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vr-ski/TransactionManager/internal/config"
	"github.com/vr-ski/TransactionManager/internal/models"
	"github.com/vr-ski/TransactionManager/pkg/metrics"
)

const (
	TransactionCreated = "transaction-created"
	TransactionUpdated = "transaction-updated"
)

// Publisher announces committed transaction changes to other services
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, tx models.Transaction) error
	PublishTransactionUpdated(ctx context.Context, tx models.Transaction) error
	Close() error
}

// TransactionEvent is the JSON payload sent for every event
type TransactionEvent struct {
	Event             string    `json:"event"`
	TransactionID     uint64    `json:"transaction_id"`
	UserID            uint64    `json:"user_id"`
	ContractorFromID  uint64    `json:"contractor_from_id"`
	ContractorToID    uint64    `json:"contractor_to_id"`
	Amount            string    `json:"amount"`
	TransactionTypeID uint64    `json:"transaction_type_id"`
	StatusID          uint64    `json:"status_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func newTransactionEvent(event string, tx models.Transaction) TransactionEvent {
	return TransactionEvent{
		Event:             event,
		TransactionID:     tx.TransactionID,
		UserID:            tx.UserID,
		ContractorFromID:  tx.ContractorFromID,
		ContractorToID:    tx.ContractorToID,
		Amount:            tx.Amount.StringFixed(2),
		TransactionTypeID: tx.TransactionTypeID,
		StatusID:          tx.StatusID,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

// NewPublisher builds the publisher selected by cfg.EventBroker. The redis
// broker reuses client, which stays owned by the caller.
func NewPublisher(cfg *config.Config, client *redis.Client) (Publisher, error) {
	switch cfg.EventBroker {
	case "", config.BrokerNone:
		return NoopPublisher{}, nil
	case config.BrokerRedis:
		if client == nil {
			return nil, fmt.Errorf("event broker %q requires REDIS_URL", cfg.EventBroker)
		}
		return NewRedisPublisher(client), nil
	case config.BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("event broker %q requires KAFKA_BROKERS", cfg.EventBroker)
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}

type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionCreated(context.Context, models.Transaction) error { return nil }
func (NoopPublisher) PublishTransactionUpdated(context.Context, models.Transaction) error { return nil }
func (NoopPublisher) Close() error { return nil }

type instrumentedPublisher struct {
	next    Publisher
	metrics *metrics.Metrics
}

// WithMetrics counts every publish attempt by event and result
func WithMetrics(next Publisher, m *metrics.Metrics) Publisher {
	if m == nil {
		return next
	}
	return &instrumentedPublisher{next: next, metrics: m}
}

func (p *instrumentedPublisher) PublishTransactionCreated(ctx context.Context, tx models.Transaction) error {
	err := p.next.PublishTransactionCreated(ctx, tx)
	p.metrics.ObserveEvent(TransactionCreated, err)
	return err
}

func (p *instrumentedPublisher) PublishTransactionUpdated(ctx context.Context, tx models.Transaction) error {
	err := p.next.PublishTransactionUpdated(ctx, tx)
	p.metrics.ObserveEvent(TransactionUpdated, err)
	return err
}

func (p *instrumentedPublisher) Close() error {
	return p.next.Close()
}
