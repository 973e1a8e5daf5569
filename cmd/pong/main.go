package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/app"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/config"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/history"
	"github.com/yvann-ba/ft-transcendence-sub000/internal/logging"
)

func main() {
	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if cfg.ShowHistory {
		if err := showHistory(os.Stdout, cfg.HistoryFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	application := app.New(cfg, logger)
	if err := application.Run(); err != nil {
		logger.Error("pong stopped", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}

// showHistory prints the results recorded in path, oldest first.
func showHistory(w io.Writer, path string) error {
	results, err := history.NewFileStore(path).Load()
	if err != nil && !errors.Is(err, history.ErrCorrupt) {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(w, "No games recorded in %s\n", path)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYED\tMODE\tOPPONENT\tSCORE\tRESULT")
	wins := 0
	for _, r := range results {
		opponent := r.OpponentType
		if r.Difficulty != "" {
			opponent += " (" + r.Difficulty + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d - %d\t%s\n",
			r.PlayedAt.Local().Format("2006-01-02 15:04"), r.Mode, opponent, r.UserScore, r.OpponentScore, r.Outcome)
		if r.Outcome == game.OutcomeWin {
			wins++
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d games, %d won\n", len(results), wins)

	// A damaged tail is reported after what could be read.
	return err
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pong [options]")
	fmt.Fprintln(os.Stderr, "  pong --show-history --history-file <path>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --mode <mode>          solo, versus, quad or tournament (default: solo)")
	fmt.Fprintln(os.Stderr, "  --points <n>           Points to win (default: 3)")
	fmt.Fprintln(os.Stderr, "  --difficulty <level>   easy, medium or hard (default: medium)")
	fmt.Fprintln(os.Stderr, "  --players <names>      Comma separated player names")
	fmt.Fprintln(os.Stderr, "  --config <file>        TOML file with the same options")
	fmt.Fprintln(os.Stderr, "  --history-file <path>  Record results in a local file")
	fmt.Fprintln(os.Stderr, "  --history-url <url>    Send results to a websocket history service")
	fmt.Fprintln(os.Stderr, "  --mute                 Disable sound")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Keys:")
	fmt.Fprintln(os.Stderr, "  left w/s   right arrows   top c/v   bottom n/m   pause p   quit q")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  pong --difficulty hard")
	fmt.Fprintln(os.Stderr, "  pong --mode tournament --players Ann,Bob,Cid,Dee")
	fmt.Fprintln(os.Stderr, "  pong --history-url ws://localhost:3000/ws/history")
}
