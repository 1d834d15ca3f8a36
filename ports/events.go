package ports

import "context"

// EventPublisher publishes security events to notify other instances and
// audit consumers.
type EventPublisher interface {
	// PublishLogout records a deliberate session end.
	PublishLogout(ctx context.Context, userID, username string) error

	// PublishSessionReplaced records a login that displaced a live session.
	PublishSessionReplaced(ctx context.Context, userID, username string) error

	// PublishTokenReuse records a refresh attempt with a stale or rotated
	// token. Repeated occurrences indicate a leaked refresh token.
	PublishTokenReuse(ctx context.Context, userID, username string) error
}
