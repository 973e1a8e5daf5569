package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLeader(t *testing.T) {
	s := NewScore(4, 3)

	slot, tie := s.Leader()
	assert.Equal(t, 0, slot)
	assert.True(t, tie)

	s.Award(2)
	slot, tie = s.Leader()
	assert.Equal(t, 2, slot)
	assert.False(t, tie)

	s.AwardAllExcept(2)
	assert.Equal(t, []int{1, 1, 1, 1}, s.Points)
	assert.False(t, s.Reached())

	s.Award(9) // ignored
	s.Award(3)
	s.Award(3)
	assert.True(t, s.Reached())
	assert.Equal(t, 1, s.BestExcept(3))
	assert.Equal(t, 3, s.BestExcept(0))
}

func TestPaddleAnimation(t *testing.T) {
	var a PaddleAnimation
	assert.Equal(t, 1.0, a.Factor())

	a.Trigger()
	require.Equal(t, AnimGrow, a.Phase)

	a.Advance(animGrowDuration / 2)
	assert.InDelta(t, 1+(animPeakScale-1)/2, a.Factor(), 1e-9)

	a.Advance(animGrowDuration / 2)
	assert.Equal(t, AnimShrink, a.Phase)
	assert.InDelta(t, animPeakScale, a.Factor(), 1e-9)

	a.Advance(animShrinkDuration)
	assert.Equal(t, AnimReturn, a.Phase)

	// One long frame finishes the bump.
	a.Advance(1)
	assert.Equal(t, AnimNone, a.Phase)
	assert.Equal(t, 1.0, a.Factor())
}

func TestPaddleMoveClamps(t *testing.T) {
	p := Paddle{Side: SideLeft, Y: 10, Height: 100, Speed: 400}

	p.Move(Controls{Up: true}, 0.05, 5, 295)
	assert.Equal(t, 5.0, p.Y)

	p.Move(Controls{Up: true, Down: true}, 0.05, 5, 295)
	assert.Equal(t, 5.0, p.Y)

	for i := 0; i < 100; i++ {
		p.Move(Controls{Down: true}, 0.05, 5, 295)
	}
	assert.Equal(t, 295.0, p.Y)

	top := Paddle{Side: SideTop, X: 100, Width: 100, Speed: 400}
	top.Move(Controls{Down: true}, 0.05, 5, 695)
	assert.Equal(t, 120.0, top.X)
	assert.Equal(t, 120.0, top.Pos())
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"solo":       ModeSolo,
		"":           ModeSolo,
		"Versus":     ModeVersus,
		"quad":       ModeQuad,
		"tournament": ModeTournament,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("battle-royale")
	assert.Error(t, err)
	assert.Equal(t, 4, ModeQuad.Players())
	assert.Equal(t, 2, ModeTournament.Players())
}
