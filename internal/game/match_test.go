package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var playedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestMatch(t *testing.T, mode Mode, opts ...Option) *Match {
	t.Helper()
	s := DefaultSettings()
	s.Mode = mode
	opts = append([]Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithClock(func() time.Time { return playedAt }),
	}, opts...)
	m, err := NewMatch(s, opts...)
	require.NoError(t, err)
	return m
}

// runUntil ticks the match until it reaches phase, collecting every event.
func runUntil(t *testing.T, m *Match, phase Phase) []Event {
	t.Helper()
	var events []Event
	for i := 0; i < 1000 && m.Phase() != phase; i++ {
		events = append(events, m.Tick(Input{}, 0.05)...)
	}
	require.Equal(t, phase, m.Phase())
	return events
}

func TestNewMatchRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Settings)
		field string
	}{
		{"zero winning score", func(s *Settings) { s.WinningScore = 0 }, "winningScore"},
		{"zero width", func(s *Settings) { s.Width = 0 }, "canvas"},
		{"negative height", func(s *Settings) { s.Height = -1 }, "canvas"},
		{"zero paddle speed", func(s *Settings) { s.PaddleSpeed = 0 }, "paddleSpeed"},
		{"zero ball radius", func(s *Settings) { s.BallRadius = 0 }, "ballRadius"},
		{"max speed below serve", func(s *Settings) { s.BallMaxSpeed = 100 }, "ballMaxSpeed"},
		{"unknown mode", func(s *Settings) { s.Mode = Mode(9) }, "mode"},
		{"paddle taller than canvas", func(s *Settings) { s.PaddleHeight = 500 }, "paddleHeight"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.edit(&s)
			_, err := NewMatch(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestNewMatchRejectsDriverOutsideMode(t *testing.T) {
	_, err := NewMatch(DefaultSettings(), WithDriver(3, idleDriver{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewMatch(DefaultSettings(), WithDriver(-1, idleDriver{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMenuDoesNothing(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	before := m.State()

	assert.Empty(t, m.Tick(Input{}, 0.016))
	assert.Equal(t, PhaseMenu, m.Phase())
	assert.Equal(t, before.Ball, m.State().Ball)
}

func TestCountdownAndFade(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	events := m.Start()
	require.Equal(t, PhaseCountdown, m.Phase())
	assert.Equal(t, CountdownStart, m.State().Countdown)
	assert.Equal(t, "3", m.State().CountdownLabel())

	ball := m.State().Ball
	events = append(events, runUntil(t, m, PhaseFadingOut)...)
	assert.Equal(t, ball, m.State().Ball, "no movement during the countdown")
	assert.Equal(t, 1.0, m.State().CountdownOpacity)
	assert.Equal(t, "GO", m.State().CountdownLabel())

	events = append(events, runUntil(t, m, PhaseRunning)...)
	assert.Equal(t, 0.0, m.State().CountdownOpacity)

	var counts []int
	var phases []Phase
	for _, ev := range events {
		switch ev.Kind {
		case EventCountdownTick:
			counts = append(counts, ev.Count)
		case EventPhaseChanged:
			phases = append(phases, ev.Phase)
		}
	}
	assert.Equal(t, []int{3, 2, 1}, counts)
	assert.Equal(t, []Phase{PhaseCountdown, PhaseFadingOut, PhaseRunning}, phases)
}

func TestDeltaTimeIsClamped(t *testing.T) {
	assert.Equal(t, 0.0, ClampDelta(-1))
	assert.Equal(t, MaxDeltaTime, ClampDelta(3))
	assert.Equal(t, 0.016, ClampDelta(0.016))

	m := newTestMatch(t, ModeVersus)
	m.Start()
	runUntil(t, m, PhaseRunning)

	before := m.State().Ball
	m.Tick(Input{}, 10)
	after := m.State().Ball
	assert.InDelta(t, before.X+before.SpeedX*MaxDeltaTime, after.X, 1e-9)
}

// concede puts the ball just behind slot's goal line.
func concede(m *Match, slot int) {
	b := &m.state.Ball
	switch slot {
	case 0:
		b.X, b.Y, b.SpeedX, b.SpeedY = -1, m.state.Height/2, -100, 0
	case 1:
		b.X, b.Y, b.SpeedX, b.SpeedY = m.state.Width+1, m.state.Height/2, 100, 0
	case 2:
		b.X, b.Y, b.SpeedX, b.SpeedY = m.state.Width/2, -1, 0, -100
	case 3:
		b.X, b.Y, b.SpeedX, b.SpeedY = m.state.Width/2, m.state.Height+1, 0, 100
	}
}

func TestSoloLossEmitsExactlyOneResult(t *testing.T) {
	m := newTestMatch(t, ModeSolo, WithDriver(1, idleDriver{}))
	m.Start()
	runUntil(t, m, PhaseRunning)

	var events []Event
	for i := 0; i < 3; i++ {
		concede(m, 0)
		events = append(events, m.Tick(Input{}, 0.016)...)
	}
	for i := 0; i < 100; i++ {
		events = append(events, m.Tick(Input{}, 0.016)...)
	}

	var results []Result
	for _, ev := range events {
		if ev.Kind == EventMatchEnded {
			require.NotNil(t, ev.Result)
			results = append(results, *ev.Result)
		}
	}
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, OutcomeLoss, r.Outcome)
	assert.Equal(t, OpponentAI, r.OpponentType)
	assert.Equal(t, "medium", r.Difficulty)
	assert.Equal(t, 0, r.UserScore)
	assert.Equal(t, 3, r.OpponentScore)
	assert.Equal(t, playedAt, r.PlayedAt)

	assert.Equal(t, PhaseEnded, m.Phase())
	assert.Equal(t, 1, m.Winner())
	got, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, r, got)
}

func TestVersusWinIsFromPlayerOnePerspective(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	m.Start()
	runUntil(t, m, PhaseRunning)

	for i := 0; i < 3; i++ {
		concede(m, 1)
		m.Tick(Input{}, 0.016)
	}

	r, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeWin, r.Outcome)
	assert.Equal(t, OpponentPlayer, r.OpponentType)
	assert.Empty(t, r.Difficulty)
	assert.Equal(t, 0, m.Winner())
}

func TestScoresNeverOvershoot(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	m.Start()
	runUntil(t, m, PhaseRunning)

	prev := []int{0, 0}
	for i := 0; i < 10; i++ {
		concede(m, i%2)
		m.Tick(Input{}, 0.016)

		points := m.State().Score.Points
		for slot := range points {
			assert.GreaterOrEqual(t, points[slot], prev[slot])
			assert.LessOrEqual(t, points[slot]-prev[slot], 1)
		}
		prev = points

		ended := points[0] >= 3 || points[1] >= 3
		assert.Equal(t, ended, m.Phase() == PhaseEnded)
	}
	assert.Equal(t, []int{2, 3}, prev)
}

func TestStartLeavesEnded(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	m.Start()
	runUntil(t, m, PhaseRunning)
	for i := 0; i < 3; i++ {
		concede(m, 0)
		m.Tick(Input{}, 0.016)
	}
	require.Equal(t, PhaseEnded, m.Phase())

	m.Start()
	s := m.State()
	assert.Equal(t, PhaseCountdown, s.Phase)
	assert.Equal(t, []int{0, 0}, s.Score.Points)
	assert.Equal(t, -1, s.Winner)
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestPaddleBoundsHoldForAnyInput(t *testing.T) {
	for _, mode := range []Mode{ModeVersus, ModeQuad} {
		t.Run(mode.String(), func(t *testing.T) {
			m := newTestMatch(t, mode)
			m.Start()
			runUntil(t, m, PhaseRunning)

			rng := rand.New(rand.NewSource(9))
			for i := 0; i < 2000 && m.Phase() == PhaseRunning; i++ {
				var in Input
				for slot := range in.Paddles {
					in.Paddles[slot] = Controls{Up: rng.Intn(2) == 0, Down: rng.Intn(3) == 0}
				}
				m.Tick(in, rng.Float64()*0.1)

				s := m.State()
				for j := range s.Paddles {
					p := &s.Paddles[j]
					lo, hi := m.PaddleBounds(p)
					assert.GreaterOrEqual(t, p.Pos(), lo)
					assert.LessOrEqual(t, p.Pos(), hi)
				}
			}
		})
	}
}

func TestQuadConcedingGivesEveryoneElseAPoint(t *testing.T) {
	m := newTestMatch(t, ModeQuad)
	m.Start()
	runUntil(t, m, PhaseRunning)

	concede(m, 2)
	events := m.Tick(Input{}, 0.016)

	require.NotEmpty(t, events)
	assert.Equal(t, EventScored, events[len(events)-1].Kind)
	assert.Equal(t, 2, events[len(events)-1].Slot)
	assert.Equal(t, []int{1, 1, 0, 1}, m.State().Score.Points)
}

func TestQuadBrickScoring(t *testing.T) {
	m := newTestMatch(t, ModeQuad)
	m.Start()
	runUntil(t, m, PhaseRunning)

	require.Len(t, m.state.Bricks, 4*BricksPerSide)
	var target *Brick
	for i := range m.state.Bricks {
		if m.state.Bricks[i].Owner == 3 {
			target = &m.state.Bricks[i]
			break
		}
	}
	require.NotNil(t, target)

	// Ball heading down, just above the brick.
	b := &m.state.Ball
	b.X, b.Y = target.X+target.W/2, target.Y-b.Radius-1
	b.SpeedX, b.SpeedY = 0, 200

	events := m.Tick(Input{}, 0.016)
	require.NotEmpty(t, events)
	assert.Equal(t, EventBrickBroken, events[len(events)-1].Kind)
	assert.Equal(t, 3, events[len(events)-1].Slot)
	assert.Equal(t, []int{1, 1, 1, 0}, m.State().Score.Points)
	assert.False(t, target.Active)
	assert.Less(t, m.State().Ball.SpeedY, 0.0)
}

func TestQuadDrawWhenThreePlayersReachTogether(t *testing.T) {
	m := newTestMatch(t, ModeQuad)
	m.Start()
	runUntil(t, m, PhaseRunning)

	for i := 0; i < 3; i++ {
		concede(m, 3)
		m.Tick(Input{}, 0.016)
	}

	require.Equal(t, PhaseEnded, m.Phase())
	assert.Equal(t, -1, m.Winner())
	r, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeDraw, r.Outcome)
	assert.Equal(t, 3, r.OpponentScore)
}

func TestPaddleHitTriggersAnimationInTwoPlayerModes(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	m.Start()
	runUntil(t, m, PhaseRunning)

	p := m.state.Paddle(0)
	b := &m.state.Ball
	b.X, b.Y = p.X+p.Width+b.Radius+2, p.Y+p.Height/2
	b.SpeedX, b.SpeedY = -250, 0

	events := m.Tick(Input{}, 0.016)
	require.NotEmpty(t, events)
	assert.Equal(t, EventPaddleHit, events[0].Kind)
	assert.Equal(t, 0, events[0].Slot)
	assert.Equal(t, AnimGrow, m.State().Paddles[0].Anim.Phase)
	assert.Greater(t, m.State().Ball.SpeedX, 0.0)
}

func TestDriversControlTheirSlot(t *testing.T) {
	d := &upDriver{}
	m := newTestMatch(t, ModeSolo, WithDriver(1, d))
	m.Start()
	runUntil(t, m, PhaseRunning)

	y := m.State().Paddles[1].Y
	m.Tick(Input{Paddles: [MaxPlayers]Controls{1: {Down: true}}}, 0.02)

	assert.Equal(t, 1, d.calls)
	assert.Equal(t, 1, d.slot)
	assert.Less(t, m.State().Paddles[1].Y, y, "driver overrides player input")
}

func TestZeroFrameAtPaddleFaceKeepsBallFinite(t *testing.T) {
	m := newTestMatch(t, ModeVersus)
	m.Start()
	runUntil(t, m, PhaseRunning)

	face := m.state.Paddles[0].X + m.state.Paddles[0].Width
	m.state.Ball.X = face + m.state.Ball.Radius
	m.state.Ball.Y = 20
	m.state.Ball.SpeedX, m.state.Ball.SpeedY = -250, 10

	// A negative frame is clamped to zero.
	assert.Empty(t, m.Tick(Input{}, -1))
	require.False(t, math.IsNaN(m.State().Ball.Y))

	for i := 0; i < 400 && m.State().Score.Points[1] == 0; i++ {
		m.Tick(Input{}, 0.016)
		require.False(t, math.IsNaN(m.State().Ball.X))
		require.False(t, math.IsNaN(m.State().Ball.Y))
	}
	assert.Equal(t, []int{0, 1}, m.State().Score.Points, "the ball passes above the paddle")
}

func TestQuadBricksAreCentered(t *testing.T) {
	m := newTestMatch(t, ModeQuad)
	m.Start()
	s := m.State()
	require.Len(t, s.Bricks, 4*BricksPerSide)
	assert.Equal(t, 4*BricksPerSide, ActiveBricks(s.Bricks))

	span := float64(BricksPerSide*BrickLength + (BricksPerSide-1)*BrickGap)
	for slot := 0; slot < s.Players(); slot++ {
		first := s.Bricks[slot*BricksPerSide]
		require.Equal(t, slot, first.Owner)
		if s.Paddle(slot).Side.Vertical() {
			assert.InDelta(t, (s.Height-span)/2, first.Y, epsilon)
		} else {
			assert.InDelta(t, (s.Width-span)/2, first.X, epsilon)
		}
	}
	assert.Equal(t, SideTop, s.Paddle(2).Side)
}

func TestStateIsASnapshot(t *testing.T) {
	m := newTestMatch(t, ModeQuad)
	s := m.State()
	s.Paddles[0].Y = -100
	s.Bricks[0].Active = false
	s.Score.Points[0] = 99

	fresh := m.State()
	assert.NotEqual(t, -100.0, fresh.Paddles[0].Y)
	assert.True(t, fresh.Bricks[0].Active)
	assert.Equal(t, 0, fresh.Score.Points[0])
}

type idleDriver struct{}

func (idleDriver) Drive(State, int, float64) Controls { return Controls{} }

type upDriver struct {
	calls int
	slot  int
}

func (d *upDriver) Drive(_ State, slot int, _ float64) Controls {
	d.calls++
	d.slot = slot
	return Controls{Up: true}
}
