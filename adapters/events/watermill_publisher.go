package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/bookvault/bookvault/ports"
)

const (
	TopicLogout          = "bookvault.logout"
	TopicSessionReplaced = "bookvault.session_replaced"
	TopicTokenReuse      = "bookvault.token_reuse"
)

// SessionEvent is the payload shared by all session security events
type SessionEvent struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, userID, username string) error {
	return p.publish(TopicLogout, userID, username)
}

// PublishSessionReplaced publishes a session-replaced event
func (p *WatermillPublisher) PublishSessionReplaced(ctx context.Context, userID, username string) error {
	return p.publish(TopicSessionReplaced, userID, username)
}

// PublishTokenReuse publishes a token-reuse event. Consumers treat this as a
// possible leaked refresh token.
func (p *WatermillPublisher) PublishTokenReuse(ctx context.Context, userID, username string) error {
	return p.publish(TopicTokenReuse, userID, username)
}

func (p *WatermillPublisher) publish(topic, userID, username string) error {
	event := SessionEvent{
		UserID:   userID,
		Username: username,
		At:       time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
