// Package events publishes domain events to Kafka. Publishing is
// fire-and-forget from the caller's point of view: delivery failures are
// logged, never surfaced into the request path.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// PatientCreated is emitted once per newly registered patient.
type PatientCreated struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Publisher emits patient lifecycle events.
type Publisher interface {
	PublishPatientCreated(ctx context.Context, evt PatientCreated) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic. The writer runs in async
// mode: WriteMessages enqueues and returns, and delivery results arrive on
// the completion callback, where failures are logged.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	p := &KafkaPublisher{logger: logger}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				p.logger.Error().Err(err).Int("messages", len(messages)).Msg("event delivery failed")
			}
		},
	}
	return p
}

func (p *KafkaPublisher) PublishPatientCreated(ctx context.Context, evt PatientCreated) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode patient created event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.PatientID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish patient created event: %w", err)
	}

	p.logger.Debug().Str("patient_id", evt.PatientID).Msg("patient created event enqueued")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. It stands in when no brokers are
// configured, so the patient API runs without a Kafka dependency.
type NopPublisher struct{}

func (NopPublisher) PublishPatientCreated(context.Context, PatientCreated) error { return nil }

func (NopPublisher) Close() error { return nil }
