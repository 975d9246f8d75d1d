// ChessAI - play chess against the engine in a terminal
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/game"
	"github.com/hailam/chessai/internal/storage"
)

var (
	color      = flag.String("color", "", "your color: white or black")
	difficulty = flag.String("difficulty", "", "easy, medium or hard")
	mode       = flag.String("mode", "", "hvc (against the computer) or hvh")
	evalMode   = flag.String("eval", "", "evaluation tables: knight or all")
	save       = flag.Bool("save", false, "store the given options as preferences")
	verbose    = flag.Bool("v", false, "log engine activity")
)

const help = `Commands:
  e2e4            move from e2 to e4
  6 4 4 4         move by row and column (row 0 is rank 8)
  undo            take back your last move
  new             start a new game
  stats           show your statistics
  help            show this help
  quit            leave`

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	store, err := storage.NewStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: statistics disabled: %v\n", err)
	}
	if store != nil {
		defer store.Close()
	}

	prefs := loadPreferences(store)
	if err := applyFlags(prefs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *save && store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: preferences not saved: %v\n", err)
		}
	}

	cfg := game.ConfigFromPreferences(prefs)
	if *mode != "" {
		m, ok := storage.ParseGameMode(*mode)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
			os.Exit(2)
		}
		cfg.Mode = m
	}

	p := &player{cfg: cfg, store: store, out: os.Stdout}
	if err := p.run(context.Background(), os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadPreferences(store *storage.Storage) *storage.UserPreferences {
	if store == nil {
		return storage.DefaultPreferences()
	}

	first, err := store.IsFirstLaunch()
	if err == nil && first {
		fmt.Println("Welcome to ChessAI! Type 'help' for commands.")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Printf("[Storage] Failed to mark first launch: %v", err)
		}
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("[Storage] Failed to load preferences: %v", err)
		return storage.DefaultPreferences()
	}
	return prefs
}

func applyFlags(prefs *storage.UserPreferences) error {
	switch strings.ToLower(*color) {
	case "":
	case "white":
		prefs.PlayerColor = storage.ColorWhite
	case "black":
		prefs.PlayerColor = storage.ColorBlack
	default:
		return fmt.Errorf("unknown color %q", *color)
	}
	if *difficulty != "" {
		d, ok := engine.ParseDifficulty(strings.ToLower(*difficulty))
		if !ok {
			return fmt.Errorf("unknown difficulty %q", *difficulty)
		}
		prefs.Difficulty = d
	}
	if *evalMode != "" {
		m, ok := engine.ParseEvalMode(strings.ToLower(*evalMode))
		if !ok {
			return fmt.Errorf("unknown evaluation mode %q", *evalMode)
		}
		prefs.EvalMode = m
	}
	return nil
}

// player runs the interactive loop.
type player struct {
	cfg     game.Config
	store   *storage.Storage
	session *game.Session
	out     io.Writer
}

func (p *player) newGame(ctx context.Context) error {
	p.session = game.NewSession(p.cfg)
	if p.store != nil {
		p.session.SetRecorder(p.store)
	}
	return p.reply(ctx)
}

// reply lets the computer move when it is its turn.
func (p *player) reply(ctx context.Context) error {
	m, err := p.session.Respond(ctx)
	if err != nil {
		return err
	}
	if !m.IsNone() {
		fmt.Fprintf(p.out, "Computer plays %s\n", m)
	}
	return nil
}

func (p *player) run(ctx context.Context, in io.Reader) error {
	if err := p.newGame(ctx); err != nil {
		return err
	}
	p.show()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(p.out, help)
			continue
		case "stats":
			p.stats()
			continue
		case "new":
			if err := p.newGame(ctx); err != nil {
				return err
			}
		case "undo":
			if err := p.session.Takeback(); err != nil {
				fmt.Fprintln(p.out, err)
				continue
			}
		default:
			if err := p.move(fields); err != nil {
				fmt.Fprintln(p.out, err)
				continue
			}
			if err := p.reply(ctx); err != nil {
				return err
			}
		}
		p.show()
	}
}

// move plays "e2e4" or "6 4 4 4".
func (p *player) move(fields []string) error {
	if len(fields) == 1 {
		_, err := p.session.PlayNotation(strings.ToLower(fields[0]))
		return err
	}
	if len(fields) != 4 {
		return fmt.Errorf("unknown command %q, type 'help'", strings.Join(fields, " "))
	}

	var coords [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("bad coordinate %q", f)
		}
		coords[i] = n
	}
	_, err := p.session.Play(board.NewSquare(coords[0], coords[1]), board.NewSquare(coords[2], coords[3]))
	return err
}

func (p *player) show() {
	pos := p.session.Position()
	fmt.Fprint(p.out, pos.String())
	if pos.InCheck(pos.SideToMove) && !p.session.Over() {
		fmt.Fprintln(p.out, "Check!")
	}
	if p.session.Over() {
		fmt.Fprintf(p.out, "Game over: %s (%s). Type 'new' or 'quit'.\n", p.session.ResultText(), p.session.Result())
	}
}

func (p *player) stats() {
	if p.store == nil {
		fmt.Fprintln(p.out, "Statistics are not available.")
		return
	}
	stats, err := p.store.LoadStats()
	if err != nil {
		fmt.Fprintln(p.out, err)
		return
	}
	fmt.Fprintf(p.out, "Games: %d  Wins: %d  Losses: %d  Draws: %d  Win rate: %.0f%%\n",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate())
}
