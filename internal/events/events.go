package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/votesecure/platform/config"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the platform.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Bus wraps a backend with a stable API. Platform notifications (voter
// registrations, cast ballots) flow through it to whichever broker is
// configured.
type Bus struct {
	backend Backend
}

// New constructs a Bus for the provided backend.
func New(backend Backend) *Bus {
	return &Bus{backend: backend}
}

// FromConfig builds the configured backend, or returns (nil, nil) when event
// publishing is disabled.
func FromConfig(ctx context.Context, cfg config.EventsConfig) (*Bus, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	case "pubsub":
		backend, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// Publish sends a message to the named channel.
func (b *Bus) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if b == nil {
		return "", errors.New("events bus is not configured")
	}
	return b.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe consumes messages from the named channel.
func (b *Bus) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if b == nil {
		return errors.New("events bus is not configured")
	}
	return b.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.backend.Close()
}
