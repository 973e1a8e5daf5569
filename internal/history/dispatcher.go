package history

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

const (
	queueSize     = 16
	reportTimeout = 10 * time.Second
)

// Dispatcher reports results on its own goroutine so the game loop never
// waits on a slow or failing history service. When the queue is full the
// oldest pending result is dropped.
type Dispatcher struct {
	reporter Reporter
	logger   *log.Logger
	queue    chan game.Result

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(reporter Reporter, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Dispatcher{
		reporter: reporter,
		logger:   logger,
		queue:    make(chan game.Result, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Submit queues r for reporting. It never blocks.
func (d *Dispatcher) Submit(r game.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	select {
	case d.queue <- r:
	default:
		// Drop old result if queue is full
		select {
		case old := <-d.queue:
			d.logger.Warn("history queue full, dropping result", "result", old.Outcome, "playedAt", old.PlayedAt)
		default:
		}
		d.queue <- r
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for r := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		err := d.reporter.Report(ctx, r)
		cancel()

		if err != nil {
			d.logger.Error("failed to report result", "err", err, "result", r.Outcome)
			continue
		}
		d.logger.Debug("result reported", "result", r.Outcome, "score", r.UserScore, "opponent", r.OpponentScore)
	}
}

// Close stops accepting results and waits for the queued ones to be
// reported, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
