package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/ai"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/logging"
)

// Default values for configuration
const (
	DefaultPoints     = game.DefaultWinningScore
	DefaultWidth      = 800
	DefaultHeight     = 400
	DefaultDifficulty = "medium"
	DefaultLogLevel   = "info"

	tournamentPlayers = 4
)

var (
	ErrMode       = errors.New("invalid mode")
	ErrPoints     = errors.New("invalid points to win")
	ErrDifficulty = errors.New("invalid difficulty")
	ErrCanvas     = errors.New("invalid canvas size")
	ErrPlayers    = errors.New("invalid player names")
)

// Config holds the application configuration
type Config struct {
	Mode        game.Mode
	Points      int
	Difficulty  ai.Difficulty
	Width       float64
	Height      float64
	Players     []string
	LeftColor   string
	RightColor  string
	HistoryFile string
	HistoryURL  string
	LogFile     string
	LogLevel    string
	Mute        bool
	Seed        int64
	ShowHistory bool
}

// file is the layout of the optional TOML configuration file.
type file struct {
	Mode        string   `toml:"mode"`
	Points      int      `toml:"points"`
	Difficulty  string   `toml:"difficulty"`
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Players     []string `toml:"players"`
	LeftColor   string   `toml:"left_color"`
	RightColor  string   `toml:"right_color"`
	HistoryFile string   `toml:"history_file"`
	HistoryURL  string   `toml:"history_url"`
	LogFile     string   `toml:"log_file"`
	LogLevel    string   `toml:"log_level"`
	Mute        bool     `toml:"mute"`
	Seed        int64    `toml:"seed"`
}

func defaults() file {
	return file{
		Mode:       game.ModeSolo.String(),
		Points:     DefaultPoints,
		Difficulty: DefaultDifficulty,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		LogFile:    logging.DefaultFile(),
		LogLevel:   DefaultLogLevel,
	}
}

// ParseArgs parses command line arguments and returns a Config. Values come
// from the defaults, then the --config file, then flags given explicitly.
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("pong", flag.ContinueOnError)
	def := defaults()

	path := fs.String("config", "", "TOML configuration file")
	mode := fs.String("mode", def.Mode, "game mode: solo, versus, quad or tournament")
	points := fs.Int("points", def.Points, "points to win (>=1)")
	difficulty := fs.String("difficulty", def.Difficulty, "computer difficulty: easy, medium or hard")
	width := fs.Float64("width", def.Width, "playfield width")
	height := fs.Float64("height", def.Height, "playfield height")
	players := fs.String("players", "", "comma separated player names (tournament needs 4)")
	leftColor := fs.String("left-color", "", "left paddle color")
	rightColor := fs.String("right-color", "", "right paddle color")
	historyFile := fs.String("history-file", "", "append results to this file")
	historyURL := fs.String("history-url", "", "send results to this websocket URL")
	logFile := fs.String("log-file", def.LogFile, "log file")
	logLevel := fs.String("log-level", def.LogLevel, "log level: debug, info, warn or error")
	mute := fs.Bool("mute", false, "disable sound")
	seed := fs.Int64("seed", 0, "random seed (0 picks one from the clock)")
	showHistory := fs.Bool("show-history", false, "print the results in --history-file and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := def
	if *path != "" {
		if _, err := toml.DecodeFile(*path, &v); err != nil {
			return nil, fmt.Errorf("read config %s: %w", *path, err)
		}
	}

	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			v.Mode = *mode
		case "points":
			v.Points = *points
		case "difficulty":
			v.Difficulty = *difficulty
		case "width":
			v.Width = *width
		case "height":
			v.Height = *height
		case "players":
			v.Players = splitNames(*players)
		case "left-color":
			v.LeftColor = *leftColor
		case "right-color":
			v.RightColor = *rightColor
		case "history-file":
			v.HistoryFile = *historyFile
		case "history-url":
			v.HistoryURL = *historyURL
		case "log-file":
			v.LogFile = *logFile
		case "log-level":
			v.LogLevel = *logLevel
		case "mute":
			v.Mute = *mute
		case "seed":
			v.Seed = *seed
		}
	})

	cfg, err := v.validate()
	if err != nil {
		return nil, err
	}
	cfg.ShowHistory = *showHistory
	if cfg.ShowHistory && cfg.HistoryFile == "" {
		return nil, errors.New("--show-history needs --history-file")
	}
	return cfg, nil
}

func (v file) validate() (*Config, error) {
	mode, err := game.ParseMode(v.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMode, err)
	}

	if v.Points < 1 {
		return nil, fmt.Errorf("%w: must be at least 1, got %d", ErrPoints, v.Points)
	}

	difficulty, err := ai.ParseDifficulty(v.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDifficulty, err)
	}

	if !(v.Width > 0) || !(v.Height > 0) {
		return nil, fmt.Errorf("%w: must be positive, got %gx%g", ErrCanvas, v.Width, v.Height)
	}

	if _, err := logging.ParseLevel(v.LogLevel); err != nil {
		return nil, err
	}

	names := append([]string(nil), v.Players...)
	if err := checkPlayers(mode, names); err != nil {
		return nil, err
	}

	return &Config{
		Mode:        mode,
		Points:      v.Points,
		Difficulty:  difficulty,
		Width:       v.Width,
		Height:      v.Height,
		Players:     names,
		LeftColor:   v.LeftColor,
		RightColor:  v.RightColor,
		HistoryFile: v.HistoryFile,
		HistoryURL:  v.HistoryURL,
		LogFile:     v.LogFile,
		LogLevel:    v.LogLevel,
		Mute:        v.Mute,
		Seed:        v.Seed,
	}, nil
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// checkPlayers rejects name lists no mode can seat.
func checkPlayers(mode game.Mode, names []string) error {
	if len(names) > game.MaxPlayers {
		return fmt.Errorf("%w: at most %d players, got %d", ErrPlayers, game.MaxPlayers, len(names))
	}
	if mode == game.ModeTournament && len(names) != 0 && len(names) != tournamentPlayers {
		return fmt.Errorf("%w: a tournament needs %d players, got %d", ErrPlayers, tournamentPlayers, len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: %q is used twice", ErrPlayers, name)
		}
		seen[key] = true
	}
	return nil
}

// Names returns one name per seat of mode, filling in the ones not given.
func (c *Config) Names(mode game.Mode) []string {
	want := mode.Players()
	if mode == game.ModeTournament {
		want = tournamentPlayers
	}

	names := make([]string, want)
	for i := range names {
		switch {
		case i < len(c.Players):
			names[i] = c.Players[i]
		case mode == game.ModeSolo && i == 1:
			names[i] = "Computer"
		default:
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
	}
	return names
}

// Settings returns the match settings for mode.
func (c *Config) Settings(mode game.Mode) game.Settings {
	s := game.DefaultSettings()
	s.Mode = mode
	s.WinningScore = c.Points
	s.Width = c.Width
	s.Height = c.Height
	s.Difficulty = c.Difficulty.String()
	return s
}
