package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"puttpals_server/models"
)

const channelPrefix = "push:user:"

// Notifier publishes push payloads onto per-user redis channels. The Hub
// (possibly in another process) subscribes and forwards to connected
// devices. Implements services.PushSender.
type Notifier struct {
	Client *redis.Client
}

// Notify publishes one payload for a user. Publishing to a channel with no
// subscriber is not an error; the notification is simply dropped.
func (n *Notifier) Notify(ctx context.Context, userID string, payload models.PushPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}
	if err := n.Client.Publish(ctx, channelPrefix+userID, b).Err(); err != nil {
		return fmt.Errorf("failed to publish push for %s: %w", userID, err)
	}
	return nil
}

// userFromChannel extracts the user id from a pattern-subscription channel
// name, returning "" when the name is not a push channel.
func userFromChannel(channel string) string {
	if !strings.HasPrefix(channel, channelPrefix) {
		return ""
	}
	return strings.TrimPrefix(channel, channelPrefix)
}
