package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/vr-ski/TransactionManager/internal/models"
)

const defaultKafkaTopic = "transactions"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher writes every event to topic, keyed by transaction id so
// the events of one transaction stay ordered within a partition
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	if topic == "" {
		topic = defaultKafkaTopic
	}
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *kafkaPublisher) PublishTransactionCreated(ctx context.Context, tx models.Transaction) error {
	return p.publish(ctx, TransactionCreated, tx)
}

func (p *kafkaPublisher) PublishTransactionUpdated(ctx context.Context, tx models.Transaction) error {
	return p.publish(ctx, TransactionUpdated, tx)
}

func (p *kafkaPublisher) publish(ctx context.Context, event string, tx models.Transaction) error {
	data, err := json.Marshal(newTransactionEvent(event, tx))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(tx.TransactionID, 10)),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to Kafka: %w", event, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
