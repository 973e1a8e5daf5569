package game

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

const (
	CountdownStart = 3.0  // Seconds of "3, 2, 1" before play
	FadeDuration   = 0.5  // Seconds the "GO" label takes to fade
	MaxDeltaTime   = 0.05 // Longest frame the physics will integrate
	MaxPlayers     = 4
)

// Input holds the control flags of every paddle for one frame.
type Input struct {
	Paddles [MaxPlayers]Controls
}

// Driver produces controls for a computer controlled paddle. It receives a
// copy of the match state and must not keep references into it.
type Driver interface {
	Drive(s State, slot int, dt float64) Controls
}

// Option configures a Match.
type Option func(*Match)

// WithRand sets the random source used for serves and collision jitter.
func WithRand(rng *rand.Rand) Option {
	return func(m *Match) {
		m.rng = rng
	}
}

// WithDriver makes slot computer controlled. Its controls replace the
// player input for that slot.
func WithDriver(slot int, d Driver) Option {
	return func(m *Match) {
		if slot < 0 || slot >= MaxPlayers {
			m.optErr = &ConfigError{Field: "driver", Reason: fmt.Sprintf("slot %d out of range", slot)}
			return
		}
		m.drivers[slot] = d
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Match) {
		m.logger = logger
	}
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Match) {
		m.now = now
	}
}

// Match owns the state of one match and advances it frame by frame.
// It is not safe for concurrent use.
type Match struct {
	settings Settings
	state    State
	resolver *Resolver
	rng      *rand.Rand
	drivers  [MaxPlayers]Driver
	logger   *log.Logger
	now      func() time.Time

	result *Result
	optErr error
}

// NewMatch validates settings and returns a match waiting in PhaseMenu.
func NewMatch(settings Settings, opts ...Option) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	m := &Match{
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.optErr != nil {
		return nil, m.optErr
	}
	for slot := settings.Mode.Players(); slot < MaxPlayers; slot++ {
		if m.drivers[slot] != nil {
			return nil, &ConfigError{Field: "players", Reason: "driver registered for a slot the mode does not have"}
		}
	}

	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.resolver = NewResolver(settings.Preset, m.rng)

	m.reset()
	m.state.Phase = PhaseMenu
	return m, nil
}

// Settings returns the configuration the match was built with.
func (m *Match) Settings() Settings {
	return m.settings
}

// State returns a snapshot of the match for rendering.
func (m *Match) State() State {
	return m.state.clone()
}

func (m *Match) Phase() Phase {
	return m.state.Phase
}

// Winner returns the winning slot once the match ended, -1 otherwise or on a draw.
func (m *Match) Winner() int {
	return m.state.Winner
}

// Result returns the end-of-match record once the match ended.
func (m *Match) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Start resets ball, paddles and scores and begins the countdown. It may be
// called from any phase and is the only way out of PhaseEnded.
func (m *Match) Start() []Event {
	m.reset()
	m.state.Phase = PhaseCountdown
	m.state.Countdown = CountdownStart
	m.logger.Info("match started", "mode", m.settings.Mode, "points", m.settings.WinningScore)

	return []Event{
		{Kind: EventPhaseChanged, Phase: PhaseCountdown},
		{Kind: EventCountdownTick, Count: int(CountdownStart)},
	}
}

// reset rebuilds the playfield for a fresh match.
func (m *Match) reset() {
	s := m.settings
	players := s.Mode.Players()

	m.state = State{
		Mode:   s.Mode,
		Width:  s.Width,
		Height: s.Height,
		Ball:   NewBall(s.Width/2, s.Height/2, s.BallRadius, s.BallMaxSpeed),
		Score:  NewScore(players, s.WinningScore),
		Winner: -1,
	}
	m.result = nil

	m.state.Paddles = m.layoutPaddles()
	if s.Mode == ModeQuad {
		m.state.Bricks = layoutBricks(s.Width, s.Height, m.state.Paddles)
	}
	m.serve()
}

func (m *Match) layoutPaddles() []Paddle {
	s := m.settings
	centerY := (s.Height - s.PaddleHeight) / 2

	paddles := []Paddle{
		{Side: SideLeft, Slot: 0, X: s.PaddleOffset, Y: centerY, Width: s.PaddleWidth, Height: s.PaddleHeight, Speed: s.PaddleSpeed},
		{Side: SideRight, Slot: 1, X: s.Width - s.PaddleOffset - s.PaddleWidth, Y: centerY, Width: s.PaddleWidth, Height: s.PaddleHeight, Speed: s.PaddleSpeed},
	}
	if s.Mode != ModeQuad {
		return paddles
	}

	// Horizontal paddles are the vertical ones turned a quarter.
	centerX := (s.Width - s.PaddleHeight) / 2
	return append(paddles,
		Paddle{Side: SideTop, Slot: 2, X: centerX, Y: s.PaddleOffset, Width: s.PaddleHeight, Height: s.PaddleWidth, Speed: s.PaddleSpeed},
		Paddle{Side: SideBottom, Slot: 3, X: centerX, Y: s.Height - s.PaddleOffset - s.PaddleWidth, Width: s.PaddleHeight, Height: s.PaddleWidth, Speed: s.PaddleSpeed},
	)
}

// PaddleBounds returns the range a paddle's position may take along its
// movement axis.
func (m *Match) PaddleBounds(p *Paddle) (lo, hi float64) {
	extent := m.settings.Height
	if !p.Side.Vertical() {
		extent = m.settings.Width
	}
	return m.settings.PaddleMargin, extent - p.Extent() - m.settings.PaddleMargin
}

func (m *Match) serve() {
	vertical := m.settings.Mode == ModeQuad && m.rng.Intn(2) == 0
	m.resolver.Serve(&m.state.Ball, m.settings.Width/2, m.settings.Height/2, m.settings.ServeSpeed, vertical)
}

// ClampDelta bounds a frame duration to [0, MaxDeltaTime]. NaN becomes 0.
func ClampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > MaxDeltaTime {
		return MaxDeltaTime
	}
	return dt
}

// Tick advances the match by dt seconds and returns what happened.
func (m *Match) Tick(in Input, dt float64) []Event {
	dt = ClampDelta(dt)
	var events []Event

	switch m.state.Phase {
	case PhaseMenu, PhaseEnded:
		return nil

	case PhaseCountdown:
		shown := ceilCount(m.state.Countdown)
		m.state.Countdown -= dt
		if m.state.Countdown <= 0 {
			m.state.Countdown = 0
			m.state.CountdownOpacity = 1
			events = append(events, m.enter(PhaseFadingOut))
		} else if n := ceilCount(m.state.Countdown); n < shown {
			events = append(events, Event{Kind: EventCountdownTick, Count: n})
		}

	case PhaseFadingOut:
		m.state.CountdownOpacity -= dt / FadeDuration
		if m.state.CountdownOpacity <= 0 {
			m.state.CountdownOpacity = 0
			events = append(events, m.enter(PhaseRunning))
		}

	case PhaseRunning:
		events = m.step(in, dt, events)
	}

	m.state.Tick++
	m.state.Elapsed += dt
	return events
}

func ceilCount(v float64) int {
	return int(math.Ceil(v))
}

func (m *Match) enter(p Phase) Event {
	m.logger.Debug("phase changed", "from", m.state.Phase, "to", p)
	m.state.Phase = p
	return Event{Kind: EventPhaseChanged, Phase: p}
}

// step runs one frame of play.
func (m *Match) step(in Input, dt float64, events []Event) []Event {
	s := &m.state
	quad := m.settings.Mode == ModeQuad

	for slot, d := range m.drivers {
		if d != nil {
			in.Paddles[slot] = d.Drive(s.clone(), slot, dt)
		}
	}

	for i := range s.Paddles {
		p := &s.Paddles[i]
		lo, hi := m.PaddleBounds(p)
		p.Move(in.Paddles[p.Slot], dt, lo, hi)
		if !quad {
			p.Anim.Advance(dt)
		}
	}

	prevX, prevY := s.Ball.X, s.Ball.Y
	s.Ball.Move(dt)

	if !quad && m.resolver.Walls(&s.Ball, 0, s.Height) {
		events = append(events, Event{Kind: EventWallBounce})
	}

	for i := range s.Paddles {
		p := &s.Paddles[i]
		if m.resolver.Paddle(&s.Ball, p, prevX, prevY) {
			if !quad {
				p.Anim.Trigger()
			}
			events = append(events, Event{Kind: EventPaddleHit, Slot: p.Slot})
			break
		}
	}

	if quad {
		if i := m.resolver.Bricks(&s.Ball, s.Bricks); i >= 0 {
			owner := s.Bricks[i].Owner
			s.Score.AwardAllExcept(owner)
			m.logger.Debug("brick broken", "owner", owner, "score", s.Score.Points)
			events = append(events, Event{Kind: EventBrickBroken, Slot: owner})
			return m.checkEnd(events)
		}
	}

	conceder := m.conceder()
	if conceder < 0 {
		return events
	}

	if quad {
		s.Score.AwardAllExcept(conceder)
	} else {
		s.Score.Award(1 - conceder)
	}
	m.logger.Debug("point scored", "conceder", conceder, "score", s.Score.Points)
	events = append(events, Event{Kind: EventScored, Slot: conceder})

	events = m.checkEnd(events)
	if s.Phase != PhaseEnded {
		m.serve()
	}
	return events
}

// conceder returns the slot whose goal line the ball has crossed, or -1.
func (m *Match) conceder() int {
	b := m.state.Ball
	switch {
	case b.X < 0:
		return 0
	case b.X > m.state.Width:
		return 1
	case m.settings.Mode != ModeQuad:
		return -1
	case b.Y < 0:
		return 2
	case b.Y > m.state.Height:
		return 3
	}
	return -1
}

// checkEnd ends the match when a score reached the winning score.
func (m *Match) checkEnd(events []Event) []Event {
	s := &m.state
	if !s.Score.Reached() {
		return events
	}

	if leader, tie := s.Score.Leader(); !tie {
		s.Winner = leader
	}
	result := newResult(m.settings, s.Score, m.now())
	m.result = &result

	events = append(events, m.enter(PhaseEnded))
	m.logger.Info("match ended",
		"mode", m.settings.Mode,
		"winner", s.Winner,
		"score", s.Score.Points,
		"result", result.Outcome)

	return append(events, Event{Kind: EventMatchEnded, Slot: s.Winner, Result: &result})
}
