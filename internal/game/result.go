package game

import "time"

const (
	OpponentAI     = "AI"
	OpponentPlayer = "PLAYER"

	OutcomeWin  = "WIN"
	OutcomeLoss = "LOSS"
	OutcomeDraw = "DRAW"
)

// Result is the end-of-match record handed to the game history service.
// Scores are seen from the human in slot 0.
type Result struct {
	OpponentType  string    `json:"opponentType"`
	Difficulty    string    `json:"difficulty,omitempty"`
	UserScore     int       `json:"userScore"`
	OpponentScore int       `json:"opponentScore"`
	Outcome       string    `json:"result"`
	Mode          string    `json:"mode"`
	PlayedAt      time.Time `json:"playedAt"`
}

// newResult builds the record for a finished match. In four-player matches
// the opponent score is the best score among the other three players.
func newResult(settings Settings, score Score, at time.Time) Result {
	r := Result{
		OpponentType: OpponentPlayer,
		Mode:         settings.Mode.String(),
		PlayedAt:     at,
	}
	if settings.Mode == ModeSolo {
		r.OpponentType = OpponentAI
		r.Difficulty = settings.Difficulty
	}

	if len(score.Points) > 0 {
		r.UserScore = score.Points[0]
	}
	if settings.Mode == ModeQuad {
		r.OpponentScore = score.BestExcept(0)
	} else if len(score.Points) > 1 {
		r.OpponentScore = score.Points[1]
	}

	switch {
	case r.UserScore > r.OpponentScore:
		r.Outcome = OutcomeWin
	case r.UserScore < r.OpponentScore:
		r.Outcome = OutcomeLoss
	default:
		r.Outcome = OutcomeDraw
	}
	return r
}
