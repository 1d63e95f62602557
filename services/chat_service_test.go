package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puttpals_server/models"
)

func newTestChat(t *testing.T, pub ChangePublisher) (*ChatService, *models.Match) {
	t.Helper()
	db := NewMemoryDB()
	ms := &MatchService{Dynamo: db, Publisher: pub}
	cs := &ChatService{Dynamo: db, Matches: ms, Publisher: pub}

	match, _, err := ms.Like(context.Background(), "anna", "bjorn")
	require.NoError(t, err)
	return cs, match
}

func TestSendAndHistoryAscending(t *testing.T) {
	cs, match := newTestChat(t, nil)

	for _, content := range []string{"Hej!", "Ska vi spela i helgen?", "Gärna!"} {
		_, err := cs.Send(context.Background(), match.ID, "anna", content)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	history, err := cs.History(context.Background(), match.ID, "anna", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "Hej!", history[0].Content)
	assert.Equal(t, "Gärna!", history[2].Content)
	for i := 1; i < len(history); i++ {
		assert.LessOrEqual(t, history[i-1].CreatedAt, history[i].CreatedAt)
	}
}

func TestHistoryKeepsMostRecentWhenTruncated(t *testing.T) {
	cs, match := newTestChat(t, nil)

	for _, content := range []string{"ett", "två", "tre", "fyra", "fem"} {
		_, err := cs.Send(context.Background(), match.ID, "anna", content)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	history, err := cs.History(context.Background(), match.ID, "bjorn", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "fyra", history[0].Content)
	assert.Equal(t, "fem", history[1].Content)
}

func TestHistoryRejectsNonParticipant(t *testing.T) {
	cs, match := newTestChat(t, nil)

	_, err := cs.Send(context.Background(), match.ID, "anna", "Hej!")
	require.NoError(t, err)

	_, err = cs.History(context.Background(), match.ID, "cecilia", 0)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestHistoryUnknownMatch(t *testing.T) {
	cs, _ := newTestChat(t, nil)

	_, err := cs.History(context.Background(), "missing", "anna", 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSendAssignsServerFields(t *testing.T) {
	cs, match := newTestChat(t, nil)

	msg, err := cs.Send(context.Background(), match.ID, "bjorn", "Hej!")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.NotEmpty(t, msg.CreatedAt)
	assert.Equal(t, "bjorn", msg.SenderID)
	assert.False(t, msg.Read)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	cs, match := newTestChat(t, nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := cs.Send(context.Background(), match.ID, "anna", content)
		assert.ErrorIs(t, err, ErrEmptyMessage, "content %q", content)
	}
}

func TestSendRejectsNonParticipant(t *testing.T) {
	cs, match := newTestChat(t, nil)

	_, err := cs.Send(context.Background(), match.ID, "cecilia", "Hej!")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendUnknownMatch(t *testing.T) {
	cs, _ := newTestChat(t, nil)

	_, err := cs.Send(context.Background(), "missing", "anna", "Hej!")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSendRefreshesMatchPreview(t *testing.T) {
	cs, match := newTestChat(t, nil)

	msg, err := cs.Send(context.Background(), match.ID, "anna", "Ses på söndag?")
	require.NoError(t, err)

	updated, err := cs.Matches.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ses på söndag?", updated.LastMessage)
	assert.Equal(t, msg.CreatedAt, updated.Timestamp)
}

func TestSendPublishesToMatchRoom(t *testing.T) {
	pub := newRecordingPublisher()
	cs, match := newTestChat(t, pub)

	msg, err := cs.Send(context.Background(), match.ID, "anna", "Hej!")
	require.NoError(t, err)

	events := pub.match[match.ID]
	require.Len(t, events, 1)
	assert.Equal(t, models.EventInsert, events[0].EventType)
	assert.Equal(t, models.ChatMessagesTable, events[0].Table)
	assert.Contains(t, string(events[0].New), msg.ID)
}
