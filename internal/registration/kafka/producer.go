package kafka

import (
	"context"
	"encoding/json"
	"time"

	"ms-registration/internal/models"

	"github.com/segmentio/kafka-go"
)

const (
	EventRegistrationConfirmed = "registration.confirmed"
	EventRegistrationCancelled = "registration.cancelled"
)

// Producer streams registration lifecycle events. Downstream consumers
// (mailers, dashboards) react to them; the registration path itself never
// blocks on Kafka.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishRegistrationConfirmed streams a confirmation event.
func (p *Producer) PublishRegistrationConfirmed(reg models.Registration) error {
	return p.publish(EventRegistrationConfirmed, reg)
}

// PublishRegistrationCancelled streams a cancellation event.
func (p *Producer) PublishRegistrationCancelled(reg models.Registration) error {
	return p.publish(EventRegistrationCancelled, reg)
}

func (p *Producer) publish(eventType string, reg models.Registration) error {
	event := models.RegistrationEvent{
		Type:           eventType,
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		IdentityID:     reg.IdentityID,
		TicketNumber:   reg.TicketNumber,
		Timestamp:      time.Now().UTC(),
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(reg.EventID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}
	return nil
}
