package repository

import (
	"context"
	"fmt"

	"VolSentry/internal/domain/models"
	domrepo "VolSentry/internal/domain/repository"
	pkgkafka "VolSentry/pkg/kafka"
)

// KafkaReportPublisher hands decision reports to the persistence/alerting
// collaborators over a Kafka topic, keyed by symbol.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, report *models.DecisionReport) error {
	if report == nil {
		return nil
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(report.Symbol), report); err != nil {
		return fmt.Errorf("publish report %s: %w", report.Symbol, err)
	}
	return nil
}

func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.Publisher = (*KafkaReportPublisher)(nil)
