package models

import "encoding/json"

// Change-event types delivered on the realtime feed
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent is the wire shape of one row change on the realtime feed.
// New carries the row after the change, Old the row before it (UPDATE and
// DELETE only). Delivery is at-least-once and may be reordered, so
// consumers have to apply events idempotently.
type ChangeEvent struct {
	EventType string          `json:"eventType"`
	Table     string          `json:"table"`
	New       json.RawMessage `json:"new,omitempty"`
	Old       json.RawMessage `json:"old,omitempty"`
}

// NewChangeEvent marshals row snapshots into a ChangeEvent.
func NewChangeEvent(eventType, table string, newRow, oldRow interface{}) (ChangeEvent, error) {
	ev := ChangeEvent{EventType: eventType, Table: table}
	if newRow != nil {
		b, err := json.Marshal(newRow)
		if err != nil {
			return ev, err
		}
		ev.New = b
	}
	if oldRow != nil {
		b, err := json.Marshal(oldRow)
		if err != nil {
			return ev, err
		}
		ev.Old = b
	}
	return ev, nil
}

// PushPayload is the body of a push notification as rendered by clients.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}
