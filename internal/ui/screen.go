package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// DefaultColors are the paddle colors of slots 0 to 3
var DefaultColors = [4]tcell.Color{
	tcell.ColorRed,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorYellow,
}

// Palette holds one color per paddle slot.
type Palette struct {
	colors [4]tcell.Color
}

// NewPalette overrides the left and right paddle colors. An empty name keeps
// the default. Names are anything tcell.GetColor accepts, like "teal" or "#ff8800".
func NewPalette(left, right string) (Palette, error) {
	p := Palette{colors: DefaultColors}
	for slot, name := range []string{left, right} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c := tcell.GetColor(strings.ToLower(name))
		if c == tcell.ColorDefault {
			return p, fmt.Errorf("unknown color %q", name)
		}
		p.colors[slot] = c
	}
	return p, nil
}

// Color returns the color of slot.
func (p Palette) Color(slot int) tcell.Color {
	if slot < 0 || slot >= len(p.colors) {
		return tcell.ColorWhite
	}
	if p.colors[slot] == tcell.ColorDefault {
		return DefaultColors[slot]
	}
	return p.colors[slot]
}

// Style returns a foreground style in the color of slot.
func (p Palette) Style(slot int) tcell.Style {
	return tcell.StyleDefault.Foreground(p.Color(slot))
}

type Screen struct {
	screen tcell.Screen
}

func NewScreen(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

func InitScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return NewScreen(s), nil
}

func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

func (s *Screen) Fini() {
	s.screen.Fini()
}

func (s *Screen) SetCell(x, y int, style tcell.Style, r rune) {
	s.screen.SetContent(x, y, r, nil, style)
}

func (s *Screen) DrawText(x, y int, text string, style tcell.Style) {
	i := 0
	for _, r := range text {
		s.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

// DrawCentered draws text horizontally centered on row y.
func (s *Screen) DrawCentered(y int, text string, style tcell.Style) {
	w, _ := s.Size()
	s.DrawText((w-len([]rune(text)))/2, y, text, style)
}

func (s *Screen) DrawBox(x, y, w, h int, style tcell.Style) {
	const (
		topLeft     = '┌'
		topRight    = '┐'
		bottomLeft  = '└'
		bottomRight = '┘'
		horizontal  = '─'
		vertical    = '│'
	)

	s.screen.SetContent(x, y, topLeft, nil, style)
	s.screen.SetContent(x+w-1, y, topRight, nil, style)
	s.screen.SetContent(x, y+h-1, bottomLeft, nil, style)
	s.screen.SetContent(x+w-1, y+h-1, bottomRight, nil, style)

	for i := x + 1; i < x+w-1; i++ {
		s.screen.SetContent(i, y, horizontal, nil, style)
		s.screen.SetContent(i, y+h-1, horizontal, nil, style)
	}

	for j := y + 1; j < y+h-1; j++ {
		s.screen.SetContent(x, j, vertical, nil, style)
		s.screen.SetContent(x+w-1, j, vertical, nil, style)
	}
}

func (s *Screen) FillRect(x, y, w, h int, style tcell.Style, r rune) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.screen.SetContent(x+dx, y+dy, r, nil, style)
		}
	}
}

func (s *Screen) DrawVerticalLine(x, y1, y2 int, style tcell.Style, r rune) {
	for y := y1; y <= y2; y++ {
		s.screen.SetContent(x, y, r, nil, style)
	}
}

func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}
