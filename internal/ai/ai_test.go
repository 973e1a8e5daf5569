package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

func newState(t *testing.T) game.State {
	t.Helper()
	m, err := game.NewMatch(game.DefaultSettings(), game.WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	return m.State()
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		err  bool
	}{
		{"easy", Easy, false},
		{"MEDIUM", Medium, false},
		{"", Medium, false},
		{"hard", Hard, false},
		{"nightmare", Medium, true},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if tc.err {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestPredictStraightShot(t *testing.T) {
	s := newState(t)
	s.Ball.X, s.Ball.Y = 400, 120
	s.Ball.SpeedX, s.Ball.SpeedY = 300, 0

	c := New(Hard, nil)
	assert.InDelta(t, 120, c.Predict(s, 1), 1e-9)
	assert.LessOrEqual(t, len(c.Prediction()), simulationSteps())
}

func TestPredictFollowsWallBounce(t *testing.T) {
	s := newState(t)
	s.Ball.X, s.Ball.Y = 400, 100
	s.Ball.SpeedX, s.Ball.SpeedY = 300, -300

	c := New(Hard, nil)
	y := c.Predict(s, 1)

	// Without the bounce the ball would be far above the canvas.
	assert.Greater(t, y, 0.0)
	assert.Less(t, y, s.Height)
}

func TestPredictBallMovingAwayAimsForCenter(t *testing.T) {
	s := newState(t)
	s.Ball.SpeedX, s.Ball.SpeedY = -300, 40

	c := New(Medium, nil)
	assert.Equal(t, s.Height/2, c.Predict(s, 1))

	// The same ball is coming at the left paddle.
	s.Ball.Y, s.Ball.SpeedY = 120, 0
	assert.InDelta(t, 120, c.Predict(s, 0), 1e-9)
}

func TestPredictFallsBackToLastPoint(t *testing.T) {
	s := newState(t)
	s.Ball.X, s.Ball.Y = 10, 200
	s.Ball.SpeedX, s.Ball.SpeedY = 1, 0

	c := New(Hard, nil)
	y := c.Predict(s, 1)
	require.Len(t, c.Prediction(), simulationSteps())
	assert.Equal(t, c.Prediction()[len(c.Prediction())-1].Y, y)
}

func TestTargetStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := newState(t)
	p := s.Paddle(1)

	for _, d := range []Difficulty{Easy, Medium, Hard} {
		c := New(d, rand.New(rand.NewSource(int64(d))))
		for i := 0; i < 500; i++ {
			s.Ball.X = rng.Float64() * s.Width
			s.Ball.Y = rng.Float64() * s.Height
			s.Ball.SpeedX = rng.Float64()*1000 - 500
			s.Ball.SpeedY = rng.Float64()*1000 - 500

			target := c.ChooseTarget(s, 1)
			assert.GreaterOrEqual(t, target, float64(TargetMargin))
			assert.LessOrEqual(t, target, s.Height-p.Height-TargetMargin)
		}
	}
}

func TestEasyInvertsAboutOneFrameInTen(t *testing.T) {
	c := New(Easy, rand.New(rand.NewSource(11)))

	const frames = 10000
	inverted := 0
	for i := 0; i < frames; i++ {
		decision, controls := c.decide(300, 100)
		switch decision {
		case Inverted:
			inverted++
			assert.True(t, controls.Up)
		case Follow:
			assert.True(t, controls.Down)
		default:
			t.Fatalf("unexpected decision %v", decision)
		}
	}
	assert.InDelta(t, 0.10, float64(inverted)/frames, 0.03)
}

func TestMediumPausesAboutOneFrameInTwenty(t *testing.T) {
	c := New(Medium, rand.New(rand.NewSource(12)))

	const frames = 10000
	paused := 0
	for i := 0; i < frames; i++ {
		decision, controls := c.decide(100, 300)
		if decision == Paused {
			paused++
			assert.Equal(t, game.Controls{}, controls)
		} else {
			require.Equal(t, Follow, decision)
			assert.True(t, controls.Up)
		}
	}
	assert.InDelta(t, 0.05, float64(paused)/frames, 0.02)
}

func TestHardNeverMisbehaves(t *testing.T) {
	c := New(Hard, rand.New(rand.NewSource(13)))
	for i := 0; i < 1000; i++ {
		decision, _ := c.decide(300, 100)
		require.Equal(t, Follow, decision)
	}

	decision, controls := c.decide(105, 100)
	assert.Equal(t, Idle, decision)
	assert.Equal(t, game.Controls{}, controls)
}

func TestEaseInOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, easeInOutQuad(0))
	assert.Equal(t, 0.5, easeInOutQuad(0.5))
	assert.Equal(t, 1.0, easeInOutQuad(1))
	assert.Less(t, easeInOutQuad(0.25), 0.25)
	assert.Greater(t, easeInOutQuad(0.75), 0.75)
}

func TestDriveEasesTowardNewTarget(t *testing.T) {
	s := newState(t)
	p := s.Paddle(1)
	s.Ball.X, s.Ball.Y = 400, 40
	s.Ball.SpeedX, s.Ball.SpeedY = 300, 0

	c := New(Hard, nil)
	c.Drive(s, 1, 0.016)
	require.True(t, c.started)
	assert.Equal(t, p.Y, c.Target(), "first frame starts from the paddle")

	for i := 0; i < 10; i++ {
		c.Drive(s, 1, 0.016)
	}
	mid := c.Target()
	assert.Less(t, mid, p.Y)
	assert.Greater(t, mid, c.to)

	for i := 0; i < 20; i++ {
		c.Drive(s, 1, 0.016)
	}
	assert.InDelta(t, c.to, c.Target(), 1e-9)
	assert.Equal(t, float64(TargetMargin), c.to, "aiming for y=40 clamps to the margin")
	assert.Equal(t, Follow, c.LastDecision())
}

func TestDriveRecomputesOncePerInterval(t *testing.T) {
	s := newState(t)
	s.Ball.X, s.Ball.Y = 400, 300
	s.Ball.SpeedX, s.Ball.SpeedY = 300, 0

	c := New(Hard, nil)
	c.Drive(s, 1, 0.016)
	first := c.to

	// A new ball position is ignored until the interval elapses.
	s.Ball.Y = 100
	c.Drive(s, 1, 0.5)
	assert.Equal(t, first, c.to)

	c.Drive(s, 1, 0.5)
	assert.NotEqual(t, first, c.to)
}

func TestControllerDrivesAMatch(t *testing.T) {
	c := New(Hard, rand.New(rand.NewSource(3)))
	m, err := game.NewMatch(game.DefaultSettings(),
		game.WithRand(rand.New(rand.NewSource(4))),
		game.WithDriver(1, c))
	require.NoError(t, err)

	m.Start()
	for i := 0; i < 3000 && m.Phase() != game.PhaseEnded; i++ {
		m.Tick(game.Input{}, 0.016)

		s := m.State()
		p := s.Paddle(1)
		lo, hi := m.PaddleBounds(p)
		require.GreaterOrEqual(t, p.Y, lo)
		require.LessOrEqual(t, p.Y, hi)
	}
	assert.NotEmpty(t, c.Prediction())
}
