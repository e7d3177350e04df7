package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donutsmp/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a domain event for the message bus
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventRelay forwards committed domain events to NATS
type NATSEventRelay struct {
	publisher MessagePublisher
	now       func() time.Time
}

// NewNATSEventRelay creates a relay publishing through publisher
func NewNATSEventRelay(publisher MessagePublisher) *NATSEventRelay {
	return &NATSEventRelay{
		publisher: publisher,
		now:       time.Now,
	}
}

// SubjectFor returns the subject an event type is published on
func SubjectFor(eventType events.EventType) string {
	return EventSubjectPrefix + string(eventType)
}

// Register subscribes the relay to every event type on bus
func (r *NATSEventRelay) Register(bus *events.Bus) {
	for _, eventType := range events.AllEventTypes {
		bus.Subscribe(eventType, r.handle)
	}
	log.WithField("eventTypes", len(events.AllEventTypes)).Info("Registered NATS event relay")
}

func (r *NATSEventRelay) handle(ctx context.Context, event events.Event) {
	if err := r.Relay(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to relay event to NATS")
	}
}

// Relay publishes a single event wrapped in an envelope
func (r *NATSEventRelay) Relay(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		OccurredAt:    r.now().UTC(),
		SourceService: "donutsmp",
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(event.Type())
	if err := r.publisher.Publish(ctx, subject, data); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Relayed event to NATS")
	return nil
}
