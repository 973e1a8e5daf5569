package game

import "fmt"

// Phase is the stage of a match.
type Phase int

const (
	PhaseMenu      Phase = iota // Waiting for a start, nothing moves
	PhaseCountdown              // 3, 2, 1
	PhaseFadingOut              // "GO" fades out
	PhaseRunning
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseCountdown:
		return "countdown"
	case PhaseFadingOut:
		return "fading-out"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is the complete state of one match. Renderers and drivers receive
// copies of it; only the owning Match mutates it.
type State struct {
	Mode   Mode
	Phase  Phase
	Width  float64
	Height float64

	Ball    Ball
	Paddles []Paddle
	Bricks  []Brick
	Score   Score

	Countdown        float64
	CountdownOpacity float64

	// Winner is the winning slot once the match ended, -1 before that or on a draw.
	Winner int

	Tick    int
	Elapsed float64
}

// Paddle returns the paddle of slot, or nil.
func (s State) Paddle(slot int) *Paddle {
	for i := range s.Paddles {
		if s.Paddles[i].Slot == slot {
			return &s.Paddles[i]
		}
	}
	return nil
}

// Players returns the number of paddles in play.
func (s State) Players() int {
	return len(s.Paddles)
}

// CountdownLabel is the text shown over the field before play starts:
// "3", "2", "1", then "GO" while it fades, empty otherwise.
func (s State) CountdownLabel() string {
	switch s.Phase {
	case PhaseCountdown:
		n := int(s.Countdown)
		if float64(n) < s.Countdown {
			n++
		}
		if n < 1 {
			n = 1
		}
		return fmt.Sprintf("%d", n)
	case PhaseFadingOut:
		return "GO"
	}
	return ""
}

// clone returns a deep copy safe to hand out of the match.
func (s *State) clone() State {
	c := *s
	c.Paddles = append([]Paddle(nil), s.Paddles...)
	c.Bricks = append([]Brick(nil), s.Bricks...)
	c.Score = s.Score.clone()
	return c
}
