package client

import (
	"math"
	"sync"
	"time"
)

// Swipe geometry. The indicator appears once the drag passes
// IndicatorThreshold; releasing past CommitThreshold commits the swipe;
// the card tilts RotationFactor degrees per pixel of horizontal offset.
const (
	IndicatorThreshold = 40.0
	CommitThreshold    = 100.0
	RotationFactor     = 0.1
	SettleDuration     = 300 * time.Millisecond
)

// SwipeDirection is the outcome of a committed swipe.
type SwipeDirection int

const (
	SwipeNone SwipeDirection = iota
	SwipeLike
	SwipePass
)

func (d SwipeDirection) String() string {
	switch d {
	case SwipeLike:
		return "like"
	case SwipePass:
		return "pass"
	default:
		return "none"
	}
}

// SwipePhase is the drag lifecycle of the top card.
type SwipePhase int

const (
	PhaseIdle SwipePhase = iota
	PhaseDragging
	PhaseCommitted
)

// SwipeController turns raw pointer input on the top card into at most
// one like/pass decision per card. While a like request is in flight the
// controller is disabled and drops all pointer input, so match creation
// is serialized per card.
type SwipeController struct {
	// OnCommit receives the candidate id and direction exactly once per
	// committed swipe.
	OnCommit func(candidateID string, direction SwipeDirection)

	// settle is swapped in tests to make the 300ms settle synchronous.
	settle func(d time.Duration, fn func())

	mu          sync.Mutex
	phase       SwipePhase
	candidateID string
	startX      float64
	offset      float64
	disabled    bool
}

// NewSwipeController builds a controller with the real settle timer.
func NewSwipeController(onCommit func(string, SwipeDirection)) *SwipeController {
	return &SwipeController{
		OnCommit: onCommit,
		settle: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Present puts a new candidate under the pointer and resets the drag.
func (c *SwipeController) Present(candidateID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candidateID = candidateID
	c.phase = PhaseIdle
	c.offset = 0
}

// SetDisabled blocks or unblocks pointer input. An in-progress drag is
// cancelled when the controller is disabled mid-gesture.
func (c *SwipeController) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
	if disabled && c.phase == PhaseDragging {
		c.phase = PhaseIdle
		c.offset = 0
	}
}

// PointerDown starts a drag at x.
func (c *SwipeController) PointerDown(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled || c.phase != PhaseIdle || c.candidateID == "" {
		return
	}
	c.phase = PhaseDragging
	c.startX = x
	c.offset = 0
}

// PointerMove updates the drag offset.
func (c *SwipeController) PointerMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled || c.phase != PhaseDragging {
		return
	}
	c.offset = x - c.startX
}

// PointerUp ends the drag. Past the commit threshold the decision fires
// once; at or under it the card springs back to center. Exactly the
// threshold is a spring-back, not a commit.
func (c *SwipeController) PointerUp() {
	c.mu.Lock()
	if c.disabled || c.phase != PhaseDragging {
		c.mu.Unlock()
		return
	}

	offset := c.offset
	if math.Abs(offset) <= CommitThreshold {
		c.phase = PhaseIdle
		c.offset = 0
		c.mu.Unlock()
		return
	}

	direction := SwipePass
	if offset > 0 {
		direction = SwipeLike
	}
	candidateID := c.candidateID
	c.phase = PhaseCommitted
	onCommit := c.OnCommit
	settle := c.settle
	c.mu.Unlock()

	if onCommit != nil {
		onCommit(candidateID, direction)
	}
	settle(SettleDuration, func() {
		c.mu.Lock()
		if c.phase == PhaseCommitted {
			c.phase = PhaseIdle
			c.offset = 0
		}
		c.mu.Unlock()
	})
}

// Phase returns the current drag phase.
func (c *SwipeController) Phase() SwipePhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Offset returns the current horizontal drag offset in pixels.
func (c *SwipeController) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Rotation returns the card tilt in degrees for the current offset.
func (c *SwipeController) Rotation() float64 {
	return c.Offset() * RotationFactor
}

// Indicator returns the visible swipe hint for the current offset, or
// SwipeNone while the drag is still inside the indicator threshold.
func (c *SwipeController) Indicator() SwipeDirection {
	offset := c.Offset()
	switch {
	case offset > IndicatorThreshold:
		return SwipeLike
	case offset < -IndicatorThreshold:
		return SwipePass
	default:
		return SwipeNone
	}
}
