package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

// HoldTimeout is how long a key counts as held after its last press or
// repeat. Terminals do not report key releases.
const HoldTimeout = 130 * time.Millisecond

// KeyBinding returns the paddle slot and direction a key controls in mode.
// For horizontal paddles up means left.
//
//	slot 0 (left)   w / s, arrows too in solo
//	slot 1 (right)  arrow up / arrow down
//	slot 2 (top)    c / v
//	slot 3 (bottom) n / m
func KeyBinding(mode game.Mode, key tcell.Key, r rune) (slot int, up bool, ok bool) {
	switch key {
	case tcell.KeyUp, tcell.KeyDown:
		slot = 1
		if mode == game.ModeSolo {
			slot = 0
		}
		return slot, key == tcell.KeyUp, true
	case tcell.KeyRune:
	default:
		return 0, false, false
	}

	switch r {
	case 'w', 'W':
		return 0, true, true
	case 's', 'S':
		return 0, false, true
	}
	if mode != game.ModeQuad {
		return 0, false, false
	}
	switch r {
	case 'c', 'C':
		return 2, true, true
	case 'v', 'V':
		return 2, false, true
	case 'n', 'N':
		return 3, true, true
	case 'm', 'M':
		return 3, false, true
	}
	return 0, false, false
}

// Keyboard turns key presses into held controls.
type Keyboard struct {
	mode  game.Mode
	up    [game.MaxPlayers]time.Time
	down  [game.MaxPlayers]time.Time
	human [game.MaxPlayers]bool
}

// NewKeyboard tracks keys for mode. Slots controlled by a computer are ignored.
func NewKeyboard(mode game.Mode, computer ...int) *Keyboard {
	k := &Keyboard{mode: mode}
	for slot := range k.human {
		k.human[slot] = slot < mode.Players()
	}
	for _, slot := range computer {
		if slot >= 0 && slot < game.MaxPlayers {
			k.human[slot] = false
		}
	}
	return k
}

// Press records a key event at now. It returns false for keys that do not
// move a paddle.
func (k *Keyboard) Press(key tcell.Key, r rune, now time.Time) bool {
	slot, up, ok := KeyBinding(k.mode, key, r)
	if !ok || !k.human[slot] {
		return false
	}

	// A new direction replaces the previous one.
	until := now.Add(HoldTimeout)
	if up {
		k.up[slot], k.down[slot] = until, time.Time{}
	} else {
		k.down[slot], k.up[slot] = until, time.Time{}
	}
	return true
}

// Input returns the controls held at now.
func (k *Keyboard) Input(now time.Time) game.Input {
	var in game.Input
	for slot := range in.Paddles {
		in.Paddles[slot] = game.Controls{
			Up:   now.Before(k.up[slot]),
			Down: now.Before(k.down[slot]),
		}
	}
	return in
}

// Release drops every held key.
func (k *Keyboard) Release() {
	k.up = [game.MaxPlayers]time.Time{}
	k.down = [game.MaxPlayers]time.Time{}
}

// IsQuitKey returns true if the key should quit the application
func IsQuitKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return true
	}
	if key == tcell.KeyRune && (r == 'q' || r == 'Q') {
		return true
	}
	return false
}

// IsStartKey returns true if the key should start/confirm
func IsStartKey(key tcell.Key) bool {
	return key == tcell.KeyEnter
}

// IsPauseKey returns true if the key toggles pause
func IsPauseKey(key tcell.Key, r rune) bool {
	return key == tcell.KeyRune && (r == 'p' || r == 'P')
}

// ModeKey maps the menu keys 1-4 to a mode
func ModeKey(key tcell.Key, r rune) (game.Mode, bool) {
	if key != tcell.KeyRune {
		return 0, false
	}
	switch r {
	case '1':
		return game.ModeSolo, true
	case '2':
		return game.ModeVersus, true
	case '3':
		return game.ModeQuad, true
	case '4':
		return game.ModeTournament, true
	}
	return 0, false
}
