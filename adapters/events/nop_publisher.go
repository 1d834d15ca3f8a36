package events

import (
	"context"

	"github.com/bookvault/bookvault/ports"
)

// NopPublisher discards all events. Used by tests and by dev mode when no
// message broker is configured.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that does nothing
func NewNopPublisher() ports.EventPublisher {
	return NopPublisher{}
}

func (NopPublisher) PublishLogout(ctx context.Context, userID, username string) error {
	return nil
}

func (NopPublisher) PublishSessionReplaced(ctx context.Context, userID, username string) error {
	return nil
}

func (NopPublisher) PublishTokenReuse(ctx context.Context, userID, username string) error {
	return nil
}
