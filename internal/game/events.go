package game

import "fmt"

// EventKind identifies something that happened during a tick.
type EventKind int

const (
	EventPhaseChanged EventKind = iota
	EventCountdownTick
	EventWallBounce
	EventPaddleHit
	EventBrickBroken
	EventScored
	EventMatchEnded
)

func (k EventKind) String() string {
	switch k {
	case EventPhaseChanged:
		return "phase-changed"
	case EventCountdownTick:
		return "countdown-tick"
	case EventWallBounce:
		return "wall-bounce"
	case EventPaddleHit:
		return "paddle-hit"
	case EventBrickBroken:
		return "brick-broken"
	case EventScored:
		return "scored"
	case EventMatchEnded:
		return "match-ended"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is emitted by Match.Tick for hosts that play sounds or log.
//
// Slot is the paddle that hit the ball for EventPaddleHit, the brick owner
// for EventBrickBroken and the slot that conceded for EventScored. Phase is
// the new phase for EventPhaseChanged, Count the number shown for
// EventCountdownTick. Result is only set on EventMatchEnded.
type Event struct {
	Kind   EventKind
	Slot   int
	Phase  Phase
	Count  int
	Result *Result
}
