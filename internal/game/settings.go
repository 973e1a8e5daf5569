package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid match configuration")

// ConfigError reports a rejected Settings field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Mode selects the paddle layout and who controls each paddle.
type Mode int

const (
	ModeSolo       Mode = iota // Slot 0 human, slot 1 computer
	ModeVersus                 // Two humans on one keyboard
	ModeQuad                   // Four players, one per side, with bricks
	ModeTournament             // Versus matches fed by a bracket
)

func (m Mode) String() string {
	switch m {
	case ModeSolo:
		return "solo"
	case ModeVersus:
		return "versus"
	case ModeQuad:
		return "quad"
	case ModeTournament:
		return "tournament"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Players returns how many paddles a match in this mode has.
func (m Mode) Players() int {
	if m == ModeQuad {
		return 4
	}
	return 2
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solo", "ai", "":
		return ModeSolo, nil
	case "versus", "local", "pvp":
		return ModeVersus, nil
	case "quad", "four", "4p":
		return ModeQuad, nil
	case "tournament":
		return ModeTournament, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Settings is the immutable configuration of one match.
type Settings struct {
	Mode         Mode
	Width        float64
	Height       float64
	WinningScore int

	PaddleWidth  float64
	PaddleHeight float64
	PaddleSpeed  float64
	PaddleOffset float64
	PaddleMargin float64

	BallRadius   float64
	BallMaxSpeed float64
	ServeSpeed   float64

	// Difficulty is only recorded in results of solo matches.
	Difficulty string

	Preset Preset
}

// DefaultSettings returns the settings of a classic 800x400 match.
func DefaultSettings() Settings {
	return Settings{
		Mode:         ModeSolo,
		Width:        800,
		Height:       400,
		WinningScore: DefaultWinningScore,
		PaddleWidth:  DefaultPaddleWidth,
		PaddleHeight: DefaultPaddleHeight,
		PaddleSpeed:  DefaultPaddleSpeed,
		PaddleOffset: DefaultPaddleOffset,
		PaddleMargin: DefaultPaddleMargin,
		BallRadius:   DefaultBallRadius,
		BallMaxSpeed: DefaultMaxSpeed,
		ServeSpeed:   BaseServeSpeed,
		Difficulty:   "medium",
		Preset:       ClassicPreset(),
	}
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.Mode < ModeSolo || s.Mode > ModeTournament:
		return &ConfigError{Field: "mode", Reason: fmt.Sprintf("%d is unknown", int(s.Mode))}
	case s.WinningScore <= 0:
		return &ConfigError{Field: "winningScore", Reason: fmt.Sprintf("must be positive, got %d", s.WinningScore)}
	case !(s.Width > 0) || !(s.Height > 0):
		return &ConfigError{Field: "canvas", Reason: fmt.Sprintf("must be positive, got %gx%g", s.Width, s.Height)}
	case !(s.PaddleWidth > 0) || !(s.PaddleHeight > 0):
		return &ConfigError{Field: "paddle", Reason: "dimensions must be positive"}
	case !(s.PaddleSpeed > 0):
		return &ConfigError{Field: "paddleSpeed", Reason: "must be positive"}
	case s.PaddleMargin < 0 || s.PaddleOffset < 0:
		return &ConfigError{Field: "paddleMargin", Reason: "must not be negative"}
	case !(s.BallRadius > 0):
		return &ConfigError{Field: "ballRadius", Reason: "must be positive"}
	case !(s.ServeSpeed > 0) || s.BallMaxSpeed < s.ServeSpeed:
		return &ConfigError{Field: "ballMaxSpeed", Reason: "must be at least the serve speed"}
	}

	shortest := s.Height
	if s.Mode == ModeQuad && s.Width < shortest {
		shortest = s.Width
	}
	if s.PaddleHeight+2*s.PaddleMargin > shortest {
		return &ConfigError{Field: "paddleHeight", Reason: "does not fit the canvas"}
	}
	if s.Mode == ModeQuad {
		span := float64(BricksPerSide*BrickLength + (BricksPerSide-1)*BrickGap)
		if shortest < span || shortest < 2*(BrickInset+BrickThickness) {
			return &ConfigError{Field: "canvas", Reason: "too small for the four-player brick layout"}
		}
	}
	return nil
}
