package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rewardbot/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DomainEventStream = "rewards_events"
	subjectPrefix     = "rewards."
	sourceService     = "rewardbot"
)

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps every forwarded event
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// SubjectFor maps an event type to its subject
func SubjectFor(eventType events.EventType) string {
	return subjectPrefix + string(eventType)
}

// AllSubjects lists the subjects the forwarder publishes to
func AllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		subjects = append(subjects, SubjectFor(t))
	}
	return subjects
}

// EventForwarder republishes committed domain events to a message bus
type EventForwarder struct {
	publisher MessagePublisher
	now       func() time.Time
	onPublish func(events.EventType)
}

func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// OnPublish registers a callback run after each successful publish
func (f *EventForwarder) OnPublish(fn func(events.EventType)) {
	f.onPublish = fn
}

// Register subscribes the forwarder to every event type on the bus
func (f *EventForwarder) Register(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := f.Forward(ctx, event); err != nil {
			log.WithError(err).WithField("eventType", event.Type()).Error("Failed to forward event")
		}
	})
}

// Forward publishes one event in an envelope
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now(),
		SourceService: sourceService,
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return err
	}
	if f.onPublish != nil {
		f.onPublish(event.Type())
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event")
	return nil
}
