// Package notification publishes fraud alerts for blocked transactions.
package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"fraudgen/internal/config"
)

const alertEventType = "fraud.alert"

// Alert is the message emitted when a transaction is blocked.
type Alert struct {
	Reference     string  `json:"reference"`
	TransactionID uint    `json:"transaction_id"`
	Decision      string  `json:"decision"`
	Action        string  `json:"action"`
	Probability   float64 `json:"probability"`
	Country       string  `json:"country"`
	IPAddress     string  `json:"ip_address"`
	Timestamp     string  `json:"timestamp"`
}

// Service delivers alerts to downstream consumers.
type Service interface {
	PublishAlert(ctx context.Context, alert Alert) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaService writes alerts to a Kafka topic keyed by transaction reference.
type KafkaService struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
}

// NewKafkaService creates a publisher for cfg.AlertTopic.
func NewKafkaService(cfg config.KafkaConfig) *KafkaService {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.AlertTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaService(w, cfg.AlertTopic, cfg.PublishTimeout)
}

func newKafkaService(w messageWriter, topic string, timeout time.Duration) *KafkaService {
	return &KafkaService{writer: w, topic: topic, timeout: timeout}
}

func (s *KafkaService) PublishAlert(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "notification: marshal alert")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(alert.Reference),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(alertEventType)},
			{Key: "decision", Value: []byte(alert.Decision)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return eris.Wrapf(err, "notification: publish alert to %s", s.topic)
	}

	zap.L().Debug("fraud alert published",
		zap.String("topic", s.topic),
		zap.String("reference", alert.Reference),
		zap.String("decision", alert.Decision),
	)
	return nil
}

func (s *KafkaService) Close() error {
	return s.writer.Close()
}

// NoopService drops alerts. It is used when no brokers are configured.
type NoopService struct{}

func NewNoopService() *NoopService { return &NoopService{} }

func (*NoopService) PublishAlert(context.Context, Alert) error { return nil }
func (*NoopService) Close() error                              { return nil }
