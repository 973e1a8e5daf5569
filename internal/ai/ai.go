// Package ai drives a paddle by predicting where the ball will cross its goal line.
package ai

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

const (
	RecomputeInterval = 1.0   // Seconds between two predictions
	SimulationStep    = 0.016 // Seconds per simulated step
	Horizon           = 3.0   // Seconds simulated ahead
	EaseDuration      = 0.3   // Seconds to glide from the old target to the new one
	IdleThreshold     = 10    // Distance under which the paddle stays put
	TargetMargin      = 5     // Target keeps this far from the playfield ends
	StripDepth        = 5     // Depth of the defensive strip in front of the paddle
)

// Difficulty tunes how imperfect the controller plays.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty converts a name into a Difficulty. An empty name is Medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Noise is the half width of the uniform error added to each prediction.
func (d Difficulty) Noise() float64 {
	switch d {
	case Easy:
		return 70
	case Hard:
		return 5
	}
	return 25
}

// Decision is what the controller chose to do on a frame.
type Decision int

const (
	Idle     Decision = iota // Close enough to the target
	Follow                   // Moving toward the target
	Inverted                 // Moving away from it (easy)
	Paused                   // Skipping the frame (medium)
)

func (d Decision) String() string {
	switch d {
	case Idle:
		return "idle"
	case Follow:
		return "follow"
	case Inverted:
		return "inverted"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Point is one simulated ball position.
type Point struct {
	X, Y float64
}

type Option func(*Controller)

func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller implements game.Driver for a left or right paddle.
type Controller struct {
	difficulty Difficulty
	rng        *rand.Rand
	resolver   *game.Resolver
	logger     *log.Logger

	sinceUpdate float64
	started     bool
	from, to    float64
	easeElapsed float64
	eased       float64
	last        Decision

	// prediction is reused between recomputations.
	prediction []Point
}

// New returns a controller. rng drives noise and the per-frame mistakes;
// the trajectory simulation itself is deterministic.
func New(difficulty Difficulty, rng *rand.Rand, opts ...Option) *Controller {
	c := &Controller{
		difficulty: difficulty,
		rng:        rng,
		resolver:   game.NewResolver(game.PredictionPreset(), nil),
		prediction: make([]Point, 0, simulationSteps()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

func simulationSteps() int {
	return int(math.Ceil(Horizon / SimulationStep))
}

func (c *Controller) Difficulty() Difficulty {
	return c.difficulty
}

// Target returns the eased paddle position the controller is heading for.
func (c *Controller) Target() float64 {
	return c.eased
}

// LastDecision returns the decision taken on the latest frame.
func (c *Controller) LastDecision() Decision {
	return c.last
}

// Prediction returns the latest simulated trajectory. The slice is reused by
// the next recomputation.
func (c *Controller) Prediction() []Point {
	return c.prediction
}

// Drive implements game.Driver.
func (c *Controller) Drive(s game.State, slot int, dt float64) game.Controls {
	p := s.Paddle(slot)
	if p == nil || !p.Side.Vertical() {
		return game.Controls{}
	}

	c.sinceUpdate += dt
	c.easeElapsed += dt
	if !c.started || c.sinceUpdate >= RecomputeInterval {
		from := p.Y
		if c.started {
			from = c.eased
		}
		c.from = from
		c.to = c.ChooseTarget(s, slot)
		c.easeElapsed = 0
		c.sinceUpdate = 0
		c.started = true
		c.logger.Debug("ai target", "slot", slot, "from", c.from, "to", c.to, "difficulty", c.difficulty)
	}

	progress := math.Min(c.easeElapsed/EaseDuration, 1)
	c.eased = c.from + (c.to-c.from)*easeInOutQuad(progress)

	var controls game.Controls
	c.last, controls = c.decide(c.eased, p.Y)
	return controls
}

// ChooseTarget predicts where the ball will reach the paddle's strip and
// returns the paddle position to aim for, noise included.
func (c *Controller) ChooseTarget(s game.State, slot int) float64 {
	p := s.Paddle(slot)
	if p == nil {
		return 0
	}

	y := c.Predict(s, slot)
	target := y - p.Height/2
	if n := c.difficulty.Noise(); c.rng != nil {
		target += (c.rng.Float64()*2 - 1) * n
	}
	return clampTarget(target, p.Height, s.Height)
}

func clampTarget(target, paddleHeight, height float64) float64 {
	lo, hi := float64(TargetMargin), height-paddleHeight-TargetMargin
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(target, hi))
}

// Predict returns the ball y where it is expected to enter the defensive
// strip of slot's paddle. A ball moving away predicts the vertical center.
func (c *Controller) Predict(s game.State, slot int) float64 {
	p := s.Paddle(slot)
	if p == nil {
		return s.Height / 2
	}

	right := p.Side == game.SideRight
	ball := s.Ball
	if (right && ball.SpeedX <= 0) || (!right && ball.SpeedX >= 0) {
		return s.Height / 2
	}

	// The strip is measured from the canvas edge, ignoring the paddle offset.
	stripLo, stripHi := s.Width-p.Width-StripDepth, s.Width-p.Width
	if !right {
		stripLo, stripHi = p.Width, p.Width+StripDepth
	}

	var opponent *game.Paddle
	for i := range s.Paddles {
		if q := s.Paddles[i]; q.Slot != slot && q.Side.Vertical() {
			opponent = &q
			break
		}
	}

	c.prediction = c.prediction[:0]
	for i := 0; i < simulationSteps(); i++ {
		prevX, prevY := ball.X, ball.Y
		ball.Move(SimulationStep)
		c.resolver.Walls(&ball, 0, s.Height)
		if opponent != nil {
			c.resolver.Paddle(&ball, opponent, prevX, prevY)
		}
		c.prediction = append(c.prediction, Point{X: ball.X, Y: ball.Y})

		if y, ok := stripCrossing(prevX, prevY, ball.X, ball.Y, stripLo, stripHi, right); ok {
			return y
		}
	}

	if n := len(c.prediction); n > 0 {
		return c.prediction[n-1].Y
	}
	return s.Height / 2
}

// stripCrossing reports the y at which the segment enters [lo, hi] from the
// field side.
func stripCrossing(x0, y0, x1, y1, lo, hi float64, right bool) (float64, bool) {
	edge := lo
	if !right {
		edge = hi
	}

	inside := x1 >= lo && x1 <= hi
	crossed := (right && x0 < edge && x1 >= edge) || (!right && x0 > edge && x1 <= edge)
	if !inside && !crossed {
		return 0, false
	}
	if !crossed || x1 == x0 {
		return y1, true
	}
	t := (edge - x0) / (x1 - x0)
	return y0 + (y1-y0)*t, true
}

// decide turns the eased target into controls, with the difficulty's
// per-frame mistakes.
func (c *Controller) decide(target, pos float64) (Decision, game.Controls) {
	diff := target - pos
	if math.Abs(diff) <= IdleThreshold {
		return Idle, game.Controls{}
	}

	down := diff > 0
	decision := Follow
	if c.rng != nil {
		switch c.difficulty {
		case Easy:
			if c.rng.Float64() < 0.10 {
				down = !down
				decision = Inverted
			}
		case Medium:
			if c.rng.Float64() < 0.05 {
				return Paused, game.Controls{}
			}
		}
	}
	return decision, game.Controls{Up: !down, Down: down}
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}
