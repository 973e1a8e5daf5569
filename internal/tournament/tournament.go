// Package tournament runs a four player single elimination bracket:
// two semifinals and a final between their winners.
package tournament

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	Entrants = 4

	SemiFinal1 = 0
	SemiFinal2 = 1
	Final      = 2
)

var (
	ErrEntrants      = errors.New("tournament needs exactly four players")
	ErrEmptyName     = errors.New("player name is empty")
	ErrDuplicateName = errors.New("player name is used twice")
	ErrUnknownMatch  = errors.New("no such match")
	ErrAlreadyPlayed = errors.New("match already played")
	ErrNotReady      = errors.New("match players are not known yet")
	ErrDraw          = errors.New("a tournament match cannot end in a draw")
)

// Match is one game of the bracket. Score and Winner stay nil until it is played.
type Match struct {
	Player1 string
	Player2 string
	Score   *[2]int
	Winner  *string
	Played  bool
}

// Ready reports whether both players are known.
func (m Match) Ready() bool {
	return m.Player1 != "" && m.Player2 != ""
}

func (m Match) clone() Match {
	c := m
	if m.Score != nil {
		s := *m.Score
		c.Score = &s
	}
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	return c
}

// Bracket holds semifinal 1, semifinal 2 and the final, in play order.
type Bracket [3]Match

// RoundName names the match at index.
func RoundName(index int) string {
	switch index {
	case SemiFinal1:
		return "Semifinal 1"
	case SemiFinal2:
		return "Semifinal 2"
	case Final:
		return "Final"
	}
	return fmt.Sprintf("Match %d", index+1)
}

type Option func(*Scheduler)

func WithLogger(logger *log.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler hands out the bracket's matches in order and records their results.
type Scheduler struct {
	bracket Bracket
	logger  *log.Logger
}

// New seeds the semifinals as names[0] vs names[1] and names[2] vs names[3].
func New(names []string, opts ...Option) (*Scheduler, error) {
	if len(names) != Entrants {
		return nil, fmt.Errorf("%w: got %d", ErrEntrants, len(names))
	}

	seen := make(map[string]bool, Entrants)
	players := make([]string, Entrants)
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: player %d", ErrEmptyName, i+1)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[strings.ToLower(name)] = true
		players[i] = name
	}

	s := &Scheduler{
		bracket: Bracket{
			{Player1: players[0], Player2: players[1]},
			{Player1: players[2], Player2: players[3]},
			{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s, nil
}

// Next returns the first unplayed match and its index. ok is false once the
// final has been played.
func (s *Scheduler) Next() (match Match, index int, ok bool) {
	for i := range s.bracket {
		if !s.bracket[i].Played {
			return s.bracket[i].clone(), i, s.bracket[i].Ready()
		}
	}
	return Match{}, -1, false
}

// Record stores the score of the match at index and advances the bracket.
// The final's players are bound once both semifinals have a winner.
func (s *Scheduler) Record(index, score1, score2 int) error {
	if index < 0 || index >= len(s.bracket) {
		return fmt.Errorf("%w: %d", ErrUnknownMatch, index)
	}
	m := &s.bracket[index]
	switch {
	case m.Played:
		return fmt.Errorf("%w: %s", ErrAlreadyPlayed, RoundName(index))
	case !m.Ready():
		return fmt.Errorf("%w: %s", ErrNotReady, RoundName(index))
	case score1 == score2:
		return fmt.Errorf("%w: %d-%d", ErrDraw, score1, score2)
	}

	winner := m.Player1
	if score2 > score1 {
		winner = m.Player2
	}
	m.Score = &[2]int{score1, score2}
	m.Winner = &winner
	m.Played = true
	s.logger.Info("tournament match recorded", "round", RoundName(index), "winner", winner, "score", fmt.Sprintf("%d-%d", score1, score2))

	semi1, semi2 := s.bracket[SemiFinal1], s.bracket[SemiFinal2]
	if index != Final && semi1.Winner != nil && semi2.Winner != nil {
		s.bracket[Final].Player1 = *semi1.Winner
		s.bracket[Final].Player2 = *semi2.Winner
		s.logger.Info("final set", "player1", *semi1.Winner, "player2", *semi2.Winner)
	}
	return nil
}

// Done reports whether the final has been played.
func (s *Scheduler) Done() bool {
	return s.bracket[Final].Played
}

// Champion returns the winner of the final.
func (s *Scheduler) Champion() (string, bool) {
	if w := s.bracket[Final].Winner; w != nil {
		return *w, true
	}
	return "", false
}

// Bracket returns a copy of the bracket for display.
func (s *Scheduler) Bracket() Bracket {
	var b Bracket
	for i := range s.bracket {
		b[i] = s.bracket[i].clone()
	}
	return b
}
