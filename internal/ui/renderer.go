package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/tournament"
)

const (
	BallChar   = '\u2B24' // ⬤
	PaddleChar = '\u2588' // █
	BrickChar  = '\u2592' // ▒
)

// Renderer handles rendering all game screens
type Renderer struct {
	screen  *Screen
	palette Palette
}

// NewRenderer creates a new renderer with the given screen
func NewRenderer(screen *Screen, palette Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// MenuView is what the menu screen shows.
type MenuView struct {
	Mode         game.Mode
	Difficulty   string
	WinningScore int
	Muted        bool
	LastResult   *game.Result
}

// RenderMenu displays the mode selection screen
func (r *Renderer) RenderMenu(v MenuView) {
	r.screen.Clear()
	_, screenH := r.screen.Size()

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorTeal)
	r.screen.DrawCentered(2, "=== PONG ===", titleStyle)

	labelStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	r.screen.DrawText(4, 5, "Mode:", labelStyle)
	modes := []struct {
		mode  game.Mode
		label string
	}{
		{game.ModeSolo, "1  Solo against the computer"},
		{game.ModeVersus, "2  Two players"},
		{game.ModeQuad, "3  Four players"},
		{game.ModeTournament, "4  Tournament"},
	}
	for i, m := range modes {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		prefix := "  "
		if m.mode == v.Mode {
			style = style.Foreground(tcell.ColorYellow).Bold(true)
			prefix = "> "
		}
		r.screen.DrawText(4, 6+i, prefix+m.label, style)
	}

	info := fmt.Sprintf("First to %d | Computer: %s", v.WinningScore, v.Difficulty)
	if v.Muted {
		info += " | Sound off"
	}
	r.screen.DrawText(4, 11, info, tcell.StyleDefault.Foreground(tcell.ColorTeal))

	if v.LastResult != nil {
		last := fmt.Sprintf("Last game: %s %d - %d (%s)",
			v.LastResult.Outcome, v.LastResult.UserScore, v.LastResult.OpponentScore, v.LastResult.Mode)
		r.screen.DrawText(4, 13, last, labelStyle)
	}

	r.screen.DrawText(4, screenH-4, "Press ENTER to play", tcell.StyleDefault.Foreground(tcell.ColorGreen))
	r.screen.DrawText(4, screenH-2, "Press 'q' to quit", labelStyle)

	r.screen.Show()
}

// field maps playfield coordinates to terminal cells. Row 0 holds the
// scoreboard and the last row the status bar.
type field struct {
	scaleX, scaleY float64
	w, h           int
}

func newField(state game.State, screenW, screenH int) field {
	return field{
		scaleX: float64(screenW) / state.Width,
		scaleY: float64(screenH-2) / state.Height,
		w:      screenW,
		h:      screenH,
	}
}

func (f field) cell(x, y float64) (int, int) {
	return int(x * f.scaleX), int(y*f.scaleY) + 1
}

func (f field) inside(cx, cy int) bool {
	return cx >= 0 && cx < f.w && cy >= 1 && cy < f.h-1
}

// fillRect draws a playfield rectangle with at least one cell.
func (r *Renderer) fillRect(f field, x, y, w, h float64, style tcell.Style, ch rune) {
	x0, y0 := f.cell(x, y)
	x1, y1 := f.cell(x+w, y+h)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			if f.inside(cx, cy) {
				r.screen.SetCell(cx, cy, style, ch)
			}
		}
	}
}

// RenderMatch displays the playfield. names labels the scoreboard by slot.
func (r *Renderer) RenderMatch(state game.State, names []string, paused bool) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()
	f := newField(state, screenW, screenH)

	courtStyle := tcell.StyleDefault.Background(tcell.ColorBlack)
	r.screen.FillRect(0, 1, screenW, screenH-2, courtStyle, ' ')

	if state.Mode != game.ModeQuad {
		centerX := screenW / 2
		lineStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		for y := 1; y < screenH-1; y += 2 {
			r.screen.SetCell(centerX, y, lineStyle, '|')
		}
	}

	r.renderScoreboard(state, names, screenW)

	for _, b := range state.Bricks {
		if b.Active {
			r.fillRect(f, b.X, b.Y, b.W, b.H, r.palette.Style(b.Owner).Dim(true), BrickChar)
		}
	}

	for _, p := range state.Paddles {
		r.renderPaddle(f, p)
	}

	bx, by := f.cell(state.Ball.X, state.Ball.Y)
	if f.inside(bx, by) && state.Phase != game.PhaseMenu {
		r.screen.SetCell(bx, by, tcell.StyleDefault.Foreground(tcell.ColorWhite), BallChar)
	}

	if label := state.CountdownLabel(); label != "" {
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		if state.Phase == game.PhaseFadingOut && state.CountdownOpacity < 0.5 {
			style = style.Dim(true)
		}
		r.screen.DrawCentered(screenH/2-2, label, style)
	}

	if paused {
		r.renderPauseBox(screenW, screenH)
	}

	statusY := screenH - 1
	statusStyle := tcell.StyleDefault.Background(tcell.ColorDarkGray).Foreground(tcell.ColorWhite)
	for x := 0; x < screenW; x++ {
		r.screen.SetCell(x, statusY, statusStyle, ' ')
	}
	statusText := fmt.Sprintf(" %s | First to %d wins | 'p' pause", state.Mode, state.Score.WinningScore)
	r.screen.DrawText(0, statusY, statusText, statusStyle)

	r.screen.Show()
}

// renderPaddle draws p grown or shrunk around its center by its bump animation.
func (r *Renderer) renderPaddle(f field, p game.Paddle) {
	factor := p.Anim.Factor()
	x, y, w, h := p.X, p.Y, p.Width, p.Height
	if p.Side.Vertical() {
		h *= factor
		y -= (h - p.Height) / 2
	} else {
		w *= factor
		x -= (w - p.Width) / 2
	}
	r.fillRect(f, x, y, w, h, r.palette.Style(p.Slot), PaddleChar)
}

// renderScoreboard draws a stadium-style scoreboard at top center
func (r *Renderer) renderScoreboard(state game.State, names []string, screenW int) {
	boardStyle := tcell.StyleDefault.Background(tcell.ColorDarkGray).Foreground(tcell.ColorWhite).Bold(true)

	var parts []string
	for slot, pts := range state.Score.Points {
		parts = append(parts, fmt.Sprintf("%s %d", slotName(names, slot), pts))
	}
	text := "[ " + strings.Join(parts, " - ") + " ]"
	x := (screenW - len([]rune(text))) / 2

	r.screen.DrawText(x, 0, "[ ", boardStyle)
	x += 2
	for slot, part := range parts {
		if slot > 0 {
			r.screen.DrawText(x, 0, " - ", boardStyle)
			x += 3
		}
		style := boardStyle.Foreground(r.palette.Color(slot))
		r.screen.DrawText(x, 0, part, style)
		x += len([]rune(part))
	}
	r.screen.DrawText(x, 0, " ]", boardStyle)
}

func slotName(names []string, slot int) string {
	if slot < len(names) && names[slot] != "" {
		return names[slot]
	}
	return strings.ToUpper(game.Side(slot).String())
}

func (r *Renderer) renderPauseBox(screenW, screenH int) {
	boxW, boxH := 30, 5
	boxX := (screenW - boxW) / 2
	boxY := (screenH - boxH) / 2
	r.screen.DrawBox(boxX, boxY, boxW, boxH, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	fillStyle := tcell.StyleDefault.Background(tcell.ColorDarkGray)
	r.screen.FillRect(boxX+1, boxY+1, boxW-2, boxH-2, fillStyle, ' ')
	r.screen.DrawCentered(boxY+2, "PAUSED", fillStyle.Foreground(tcell.ColorYellow).Bold(true))
}

// RenderGameOver displays the game over screen
func (r *Renderer) RenderGameOver(state game.State, names []string, next string) {
	r.screen.Clear()
	_, screenH := r.screen.Size()

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorYellow)
	r.screen.DrawCentered(screenH/2-4, "=== GAME OVER ===", titleStyle)

	scores := make([]string, len(state.Score.Points))
	for i, pts := range state.Score.Points {
		scores[i] = fmt.Sprintf("%d", pts)
	}
	r.screen.DrawCentered(screenH/2-1, "Final Score: "+strings.Join(scores, " - "), tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if state.Winner < 0 {
		r.screen.DrawCentered(screenH/2+1, "DRAW!", tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	} else {
		winner := strings.ToUpper(slotName(names, state.Winner)) + " WINS!"
		r.screen.DrawCentered(screenH/2+1, winner, r.palette.Style(state.Winner).Bold(true))
	}

	if next == "" {
		next = "Press ENTER for menu | Press 'q' to quit"
	}
	r.screen.DrawCentered(screenH/2+4, next, tcell.StyleDefault.Foreground(tcell.ColorGreen))

	r.screen.Show()
}

// RenderBracket displays the tournament bracket. next is the index of the
// match about to be played, or -1 once the tournament is over.
func (r *Renderer) RenderBracket(b tournament.Bracket, next int) {
	r.screen.Clear()
	_, screenH := r.screen.Size()

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorTeal)
	r.screen.DrawCentered(2, "=== TOURNAMENT ===", titleStyle)

	for i, m := range b {
		y := 5 + i*3
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if i == next {
			style = style.Foreground(tcell.ColorYellow).Bold(true)
		}
		r.screen.DrawText(4, y, tournament.RoundName(i), tcell.StyleDefault.Foreground(tcell.ColorGray))
		r.screen.DrawText(6, y+1, matchLine(m), style)
	}

	var hint string
	if next >= 0 {
		hint = fmt.Sprintf("Press ENTER to play the %s", strings.ToLower(tournament.RoundName(next)))
	} else if b[tournament.Final].Winner != nil {
		hint = fmt.Sprintf("%s wins the tournament! Press ENTER for menu", *b[tournament.Final].Winner)
	}
	r.screen.DrawText(4, screenH-4, hint, tcell.StyleDefault.Foreground(tcell.ColorGreen))
	r.screen.DrawText(4, screenH-2, "Press 'q' to quit", tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.Show()
}

func matchLine(m tournament.Match) string {
	p1, p2 := m.Player1, m.Player2
	if p1 == "" {
		p1 = "?"
	}
	if p2 == "" {
		p2 = "?"
	}
	if m.Score == nil {
		return fmt.Sprintf("%s vs %s", p1, p2)
	}
	line := fmt.Sprintf("%s %d - %d %s", p1, m.Score[0], m.Score[1], p2)
	if m.Winner != nil {
		line += "  winner: " + *m.Winner
	}
	return line
}

// RenderError displays an error screen
func (r *Renderer) RenderError(err string) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorRed)
	r.screen.DrawCentered(screenH/2-2, "ERROR", titleStyle)

	// Truncate if too long
	maxErrLen := screenW - 4
	if maxErrLen < 4 {
		maxErrLen = 4
	}
	errMsg := err
	if len(errMsg) > maxErrLen {
		errMsg = errMsg[:maxErrLen-3] + "..."
	}
	r.screen.DrawCentered(screenH/2, errMsg, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	r.screen.DrawCentered(screenH/2+3, "Press any key to continue", tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.Show()
}
