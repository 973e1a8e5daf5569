package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/ai"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/audio"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/config"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/history"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/logging"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/tournament"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/ui"
)

const (
	frameInterval = 16 * time.Millisecond
	flushTimeout  = 3 * time.Second
)

// view is the screen currently shown.
type view int

const (
	viewMenu view = iota
	viewMatch
	viewGameOver
	viewBracket
	viewError
)

// App is the main application controller that manages the game lifecycle.
type App struct {
	cfg    *config.Config
	logger *log.Logger
	rng    *rand.Rand

	screen     *ui.Screen
	renderer   *ui.Renderer
	player     *audio.Player
	dispatcher *history.Dispatcher
	closers    []func() error

	// State
	view       view
	mode       game.Mode
	match      *game.Match
	names      []string
	keyboard   *ui.Keyboard
	paused     bool
	last       time.Time
	lastResult *game.Result
	scheduler  *tournament.Scheduler
	matchIndex int
	errMsg     string

	quit    chan struct{}
	sigChan chan os.Signal
}

// New creates a new App instance with the given configuration. A nil logger
// discards logs.
func New(cfg *config.Config, logger *log.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		mode:   cfg.Mode,
		quit:   make(chan struct{}),
	}
}

// Run is the main entry point for the application.
// It initializes the screen, sets up signal handling, and runs the menu.
func (a *App) Run() error {
	// Initialize audio (ignore errors - game works without sound)
	player, err := audio.Init(a.cfg.Mute)
	if err != nil {
		a.logger.Warn("audio unavailable", "err", err)
	}
	a.player = player

	screen, err := ui.InitScreen()
	if err != nil {
		a.cleanup()
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	if err := a.attach(screen); err != nil {
		screen.Fini()
		a.cleanup()
		return err
	}

	// Setup signal handling
	a.sigChan = make(chan os.Signal, 1)
	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-a.sigChan
		close(a.quit)
	}()

	a.logger.Info("pong started", "mode", a.mode, "points", a.cfg.Points, "difficulty", a.cfg.Difficulty)
	runErr := a.mainLoop()

	a.cleanup()
	return runErr
}

// attach wires the screen and the history reporters. It is the part of Run
// that does not need a terminal of its own.
func (a *App) attach(screen *ui.Screen) error {
	palette, err := ui.NewPalette(a.cfg.LeftColor, a.cfg.RightColor)
	if err != nil {
		return err
	}
	if a.player == nil {
		a.player, _ = audio.Init(true)
	}

	reporter, err := a.openHistory()
	if err != nil {
		return err
	}
	a.dispatcher = history.NewDispatcher(reporter, a.logger)

	a.screen = screen
	a.renderer = ui.NewRenderer(screen, palette)
	a.view = viewMenu
	return nil
}

// openHistory builds the reporters results are sent to.
func (a *App) openHistory() (history.Reporter, error) {
	var reporters history.Multi

	if a.cfg.HistoryFile != "" {
		store := history.NewFileStore(a.cfg.HistoryFile)
		results, err := store.Load()
		if err != nil {
			a.logger.Warn("history file unreadable", "path", store.Path(), "err", err)
		}
		if len(results) > 0 {
			last := results[len(results)-1]
			a.lastResult = &last
		}
		reporters = append(reporters, store)
	}

	if a.cfg.HistoryURL != "" {
		ws, err := history.NewWSReporter(a.cfg.HistoryURL)
		if err != nil {
			return nil, fmt.Errorf("history url: %w", err)
		}
		a.closers = append(a.closers, ws.Close)
		reporters = append(reporters, ws)
	}

	if len(reporters) == 0 {
		return history.Nop{}, nil
	}
	return reporters, nil
}

// mainLoop is the main event loop that handles all input and state updates.
func (a *App) mainLoop() error {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-a.quit:
				return
			}
		}
	}()

	// Ticker for rendering at ~60fps
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.quit:
			return nil

		case ev := <-events:
			if a.handleEvent(ev, time.Now()) {
				return nil
			}

		case now := <-ticker.C:
			a.advance(now)
			a.render()
		}
	}
}

// handleEvent processes keyboard and other events.
// Returns true if the application should quit.
func (a *App) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune(), now)

	case *tcell.EventResize:
		a.screen.Clear()
		a.render()
	}

	return false
}

// handleKey applies one key press to the current view.
// Returns true if the application should quit.
func (a *App) handleKey(key tcell.Key, r rune, now time.Time) bool {
	// Quit keys always work
	if ui.IsQuitKey(key, r) {
		return true
	}

	switch a.view {
	case viewMenu:
		a.handleMenuKey(key, r, now)
	case viewMatch:
		a.handleMatchKey(key, r, now)
	case viewGameOver:
		if ui.IsStartKey(key) {
			a.view = viewMenu
			if a.scheduler != nil {
				a.view = viewBracket
			}
		}
	case viewBracket:
		if ui.IsStartKey(key) {
			a.nextTournamentMatch(now)
		}
	case viewError:
		a.view = viewMenu
	}
	return false
}

func (a *App) handleMenuKey(key tcell.Key, r rune, now time.Time) {
	if mode, ok := ui.ModeKey(key, r); ok {
		a.mode = mode
		return
	}
	if !ui.IsStartKey(key) {
		return
	}

	if a.mode != game.ModeTournament {
		a.scheduler = nil
		a.startMatch(a.mode, a.cfg.Names(a.mode), now)
		return
	}

	s, err := tournament.New(a.cfg.Names(game.ModeTournament), tournament.WithLogger(a.logger))
	if err != nil {
		a.showError(err)
		return
	}
	a.scheduler = s
	a.view = viewBracket
}

func (a *App) handleMatchKey(key tcell.Key, r rune, now time.Time) {
	if ui.IsPauseKey(key, r) {
		a.paused = !a.paused
		a.keyboard.Release()
		a.logger.Debug("pause toggled", "paused", a.paused)
		return
	}
	a.keyboard.Press(key, r, now)
}

// nextTournamentMatch starts the next bracket match, or returns to the menu
// once the final has been played.
func (a *App) nextTournamentMatch(now time.Time) {
	m, index, ok := a.scheduler.Next()
	if !ok {
		if champion, done := a.scheduler.Champion(); done {
			a.logger.Info("tournament finished", "champion", champion)
		}
		a.scheduler = nil
		a.view = viewMenu
		return
	}
	a.matchIndex = index
	a.startMatch(game.ModeTournament, []string{m.Player1, m.Player2}, now)
}

// startMatch builds a match for mode and starts its countdown. In solo mode
// the computer drives slot 1.
func (a *App) startMatch(mode game.Mode, names []string, now time.Time) {
	opts := []game.Option{
		game.WithRand(a.rng),
		game.WithLogger(a.logger.With("mode", mode)),
	}
	var computer []int
	if mode == game.ModeSolo {
		ctrl := ai.New(a.cfg.Difficulty, a.rng, ai.WithLogger(a.logger))
		opts = append(opts, game.WithDriver(1, ctrl))
		computer = append(computer, 1)
	}

	m, err := game.NewMatch(a.cfg.Settings(mode), opts...)
	if err != nil {
		a.showError(err)
		return
	}

	a.match = m
	a.names = names
	a.keyboard = ui.NewKeyboard(mode, computer...)
	a.paused = false
	a.last = now
	a.view = viewMatch
	a.handleMatchEvents(m.Start())
}

// advance runs the match for the time elapsed since the previous frame.
func (a *App) advance(now time.Time) {
	dt := now.Sub(a.last).Seconds()
	a.last = now
	if a.view != viewMatch || a.paused {
		return
	}
	a.handleMatchEvents(a.match.Tick(a.keyboard.Input(now), dt))
}

// handleMatchEvents plays sounds and reacts to the end of a match.
func (a *App) handleMatchEvents(events []game.Event) {
	for _, ev := range events {
		a.player.Play(ev)

		switch ev.Kind {
		case game.EventScored:
			a.logger.Debug("point scored", "slot", ev.Slot)
		case game.EventMatchEnded:
			a.finishMatch(ev)
		}
	}
}

func (a *App) finishMatch(ev game.Event) {
	if ev.Result != nil {
		r := *ev.Result
		a.lastResult = &r
		a.dispatcher.Submit(r)
	}
	a.view = viewGameOver

	if a.scheduler == nil {
		return
	}
	state := a.match.State()
	if len(state.Score.Points) < 2 {
		return
	}
	if err := a.scheduler.Record(a.matchIndex, state.Score.Points[0], state.Score.Points[1]); err != nil {
		a.logger.Error("tournament result rejected", "round", tournament.RoundName(a.matchIndex), "err", err)
		a.showError(err)
	}
}

func (a *App) showError(err error) {
	a.logger.Error("game error", "err", err)
	a.errMsg = err.Error()
	a.view = viewError
}

// render calls the appropriate renderer method based on the current view.
func (a *App) render() {
	switch a.view {
	case viewMenu:
		a.renderer.RenderMenu(ui.MenuView{
			Mode:         a.mode,
			Difficulty:   a.cfg.Difficulty.String(),
			WinningScore: a.cfg.Points,
			Muted:        !a.player.Enabled(),
			LastResult:   a.lastResult,
		})
	case viewMatch:
		a.renderer.RenderMatch(a.match.State(), a.names, a.paused)
	case viewGameOver:
		hint := ""
		if a.scheduler != nil {
			hint = "Press ENTER for the bracket | Press 'q' to quit"
		}
		a.renderer.RenderGameOver(a.match.State(), a.names, hint)
	case viewBracket:
		_, next, ok := a.scheduler.Next()
		if !ok {
			next = -1
		}
		a.renderer.RenderBracket(a.scheduler.Bracket(), next)
	case viewError:
		a.renderer.RenderError(a.errMsg)
	}
}

// cleanup shuts down all resources.
func (a *App) cleanup() {
	// Flush pending results before closing their reporters
	if a.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := a.dispatcher.Close(ctx); err != nil {
			a.logger.Warn("pending results not reported", "err", err)
		}
		cancel()
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("history reporter close", "err", err)
		}
	}

	if a.player != nil {
		a.player.Close()
	}

	if a.screen != nil {
		a.screen.Fini()
	}

	if a.sigChan != nil {
		signal.Stop(a.sigChan)
	}
}
