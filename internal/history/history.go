// Package history delivers finished match results to the game history
// service and keeps a local copy of them.
package history

import (
	"context"
	"errors"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

// Reporter stores or forwards one match result.
type Reporter interface {
	Report(ctx context.Context, r game.Result) error
}

// Multi reports to every reporter in order and joins their errors.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, r game.Result) error {
	var errs []error
	for _, rep := range m {
		if err := rep.Report(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards results.
type Nop struct{}

func (Nop) Report(context.Context, game.Result) error { return nil }
