package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
)

const (
	Insert = "INSERT"
	Update = "UPDATE"
	Delete = "DELETE"
)

// ChangeEvent describes a committed write to one of the CRM tables.
type ChangeEvent struct {
	Table           string    `json:"table"`
	Type            string    `json:"type"`
	Record          any       `json:"record,omitempty"`
	CommitTimestamp time.Time `json:"commit_timestamp"`
}

// NewChangeEvent stamps an event with the current UTC time.
func NewChangeEvent(table, eventType string, record any) ChangeEvent {
	return ChangeEvent{
		Table:           table,
		Type:            eventType,
		Record:          record,
		CommitTimestamp: time.Now().UTC(),
	}
}

// Notifier publishes change events.
type Notifier interface {
	Notify(event ChangeEvent) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	return &EventPublisher{
		client:   client,
		producer: producer,
	}, nil
}

// Notify publishes an event keyed by table so per-table ordering is kept.
func (p *EventPublisher) Notify(event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize change event: %w", err)
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Key:     event.Table,
		Payload: payload,
		Properties: map[string]string{
			"table": event.Table,
			"type":  event.Type,
		},
	})
	if err != nil {
		return fmt.Errorf("could not send change event to Pulsar: %w", err)
	}
	return nil
}

// Close closes the Pulsar producer and client.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
}

// NoopNotifier drops every event. Used when no change feed is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ChangeEvent) error { return nil }

func (NoopNotifier) Close() {}
