package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"puttpals_server/logger"
	"puttpals_server/models"
)

// NotificationRelay subscribes to the backend's push websocket and hands
// each notification to a handler. Tapping a notification focuses an
// already-open view of its target URL when one exists and opens a new one
// otherwise; FocusOrOpen owns that decision.
type NotificationRelay struct {
	// BaseURL is the backend origin, http(s) scheme.
	BaseURL string
	// Token authenticates the websocket; it rides in the query string
	// because websocket handshakes cannot set headers everywhere.
	Token string

	// OnNotify receives every decoded payload, for rendering.
	OnNotify func(models.PushPayload)
	// FocusOrOpen is invoked with the payload URL when the user acts on
	// a notification. It returns true when an existing view took focus,
	// false when a new one was opened.
	FocusOrOpen func(targetURL string) bool

	// Dialer is swapped in tests; nil means the default dialer.
	Dialer *websocket.Dialer
}

// wsURL derives the websocket endpoint from the HTTP base URL.
func (n *NotificationRelay) wsURL() (string, error) {
	u, err := url.Parse(n.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/push/ws"
	q := u.Query()
	q.Set("token", n.Token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run connects and relays notifications until ctx is cancelled,
// redialing with the session backoff schedule after a dropped
// connection. It never returns a reason to crash: persistent failure
// just means no notifications until the next successful dial.
func (n *NotificationRelay) Run(ctx context.Context) {
	endpoint, err := n.wsURL()
	if err != nil {
		logger.Log.Errorf("bad push endpoint: %v", err)
		return
	}

	delay := BackoffBase
	for ctx.Err() == nil {
		if err := n.listen(ctx, endpoint); err != nil && ctx.Err() == nil {
			logger.Log.Warnf("push connection lost: %v", err)
		}
		if ctx.Err() != nil {
			return
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		delay *= 2
		if delay > BackoffCap {
			delay = BackoffCap
		}
	}
}

func (n *NotificationRelay) listen(ctx context.Context, endpoint string) error {
	dialer := n.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	logger.Log.Infof("push relay connected")

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var payload models.PushPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Log.Warnf("undecodable push payload: %v", err)
			continue
		}
		if n.OnNotify != nil {
			n.OnNotify(payload)
		}
	}
}

// Activate handles the user acting on a notification: focus an existing
// view of the target when possible, open a fresh one otherwise.
func (n *NotificationRelay) Activate(payload models.PushPayload) {
	target := payload.URL
	if target == "" {
		target = "/"
	}
	if n.FocusOrOpen != nil {
		if focused := n.FocusOrOpen(target); focused {
			logger.Log.Debugf("focused existing view for %s", target)
		}
	}
}
