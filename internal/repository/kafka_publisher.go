package repository

import (
	"context"

	"GFQuant/internal/domain/models"
	domrepo "GFQuant/internal/domain/repository"
	pkgkafka "GFQuant/pkg/kafka"
)

// KafkaPublisher hands emitted signals to downstream consumers. Messages are
// keyed by symbol so a partition preserves per-symbol ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed signal publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishSignals(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{
			Key: []byte(s.Symbol),
			Value: map[string]interface{}{
				"symbol":   s.Symbol,
				"ts":       s.Timestamp.Unix(),
				"horizon":  s.Horizon,
				"decision": string(s.Decision),
				"strength": s.Strength,
				"scorer":   s.Scorer,
				"close":    s.Row.Bar.Close,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher discards signals. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishSignals(context.Context, []models.Signal) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
