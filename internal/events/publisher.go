package events

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/AnthoniusHendriyanto/academy-service/internal/events Publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// SecurityEvent is emitted for authentication state changes. It never
// carries secrets such as OTP codes or tokens.
type SecurityEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     int64     `json:"userId,omitempty"`
	Identifier string    `json:"identifier,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewSecurityEvent(eventType string, userID int64, identifier, ip string) SecurityEvent {
	return SecurityEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Identifier: identifier,
		IPAddress:  ip,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event SecurityEvent) error
}

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subj string, data []byte) error
}

// NatsPublisher publishes each event on a subject equal to its type.
type NatsPublisher struct {
	conn Conn
}

func NewNatsPublisher(conn Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

// Connect dials NATS and keeps retrying in the background if the server is
// not up yet.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, event SecurityEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.conn.Publish(event.Type, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// NopPublisher drops every event. Used when NATS_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, SecurityEvent) error {
	return nil
}
