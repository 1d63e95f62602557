package services

import (
	"context"

	"puttpals_server/models"
)

// ChangePublisher delivers row-change events onto the realtime feed.
// Implementations must tolerate being called from request goroutines;
// a nil publisher disables the feed (writes still succeed).
type ChangePublisher interface {
	PublishToUser(userID string, ev models.ChangeEvent)
	PublishToMatch(matchID string, ev models.ChangeEvent)
}

// PushSender delivers push notifications to a user's registered devices.
// Failures are logged, never surfaced to the triggering request.
type PushSender interface {
	Notify(ctx context.Context, userID string, payload models.PushPayload) error
}
