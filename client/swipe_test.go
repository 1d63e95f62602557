package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swipeRecorder struct {
	commits []struct {
		candidateID string
		direction   SwipeDirection
	}
}

func (r *swipeRecorder) commit(candidateID string, direction SwipeDirection) {
	r.commits = append(r.commits, struct {
		candidateID string
		direction   SwipeDirection
	}{candidateID, direction})
}

func newTestSwipe(rec *swipeRecorder) *SwipeController {
	c := NewSwipeController(rec.commit)
	// Settle synchronously so phase transitions are observable in order.
	c.settle = func(_ time.Duration, fn func()) { fn() }
	return c
}

func drag(c *SwipeController, offset float64) {
	c.PointerDown(500)
	c.PointerMove(500 + offset)
	c.PointerUp()
}

func TestSwipeCommitThreshold(t *testing.T) {
	tests := []struct {
		name      string
		offset    float64
		direction SwipeDirection
		commits   int
	}{
		{"just under threshold resets", 99, SwipeNone, 0},
		{"exactly threshold resets", 100, SwipeNone, 0},
		{"just past threshold likes", 101, SwipeLike, 1},
		{"just past threshold left passes", -101, SwipePass, 1},
		{"exactly negative threshold resets", -100, SwipeNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &swipeRecorder{}
			c := newTestSwipe(rec)
			c.Present("candidate-1")

			drag(c, tt.offset)

			require.Len(t, rec.commits, tt.commits)
			if tt.commits > 0 {
				assert.Equal(t, "candidate-1", rec.commits[0].candidateID)
				assert.Equal(t, tt.direction, rec.commits[0].direction)
			}
			assert.Equal(t, PhaseIdle, c.Phase())
			assert.Zero(t, c.Offset())
		})
	}
}

func TestSwipeIndicatorThreshold(t *testing.T) {
	rec := &swipeRecorder{}
	c := newTestSwipe(rec)
	c.Present("candidate-1")
	c.PointerDown(0)

	c.PointerMove(40)
	assert.Equal(t, SwipeNone, c.Indicator())

	c.PointerMove(41)
	assert.Equal(t, SwipeLike, c.Indicator())

	c.PointerMove(-41)
	assert.Equal(t, SwipePass, c.Indicator())

	c.PointerMove(-39)
	assert.Equal(t, SwipeNone, c.Indicator())
}

func TestSwipeRotationFollowsOffset(t *testing.T) {
	rec := &swipeRecorder{}
	c := newTestSwipe(rec)
	c.Present("candidate-1")
	c.PointerDown(0)

	c.PointerMove(50)
	assert.InDelta(t, 5.0, c.Rotation(), 1e-9)

	c.PointerMove(-80)
	assert.InDelta(t, -8.0, c.Rotation(), 1e-9)
}

func TestSwipeCommitFiresOnce(t *testing.T) {
	rec := &swipeRecorder{}
	c := newTestSwipe(rec)
	c.Present("candidate-1")

	c.PointerDown(0)
	c.PointerMove(150)
	c.PointerUp()
	c.PointerUp() // stray release after commit

	assert.Len(t, rec.commits, 1)
}

func TestSwipeDisabledIgnoresPointerInput(t *testing.T) {
	rec := &swipeRecorder{}
	c := newTestSwipe(rec)
	c.Present("candidate-1")
	c.SetDisabled(true)

	drag(c, 200)
	assert.Empty(t, rec.commits)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestSwipeDisableMidDragCancelsGesture(t *testing.T) {
	rec := &swipeRecorder{}
	c := newTestSwipe(rec)
	c.Present("candidate-1")

	c.PointerDown(0)
	c.PointerMove(150)
	c.SetDisabled(true)
	c.PointerUp()

	assert.Empty(t, rec.commits)
	assert.Zero(t, c.Offset())
}

func TestSwipeFailedLikeKeepsCardForRetry(t *testing.T) {
	rec := &swipeRecorder{}
	c := newTestSwipe(rec)
	c.Present("candidate-1")

	// Commit disables input while the like is in flight.
	c.SetDisabled(true)
	drag(c, 200)
	require.Empty(t, rec.commits)

	// The like failed: input is re-enabled with the same card on top.
	c.SetDisabled(false)
	drag(c, 200)
	require.Len(t, rec.commits, 1)
	assert.Equal(t, "candidate-1", rec.commits[0].candidateID)
}
