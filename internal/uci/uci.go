// Package uci implements a line-based engine protocol modelled on the
// Universal Chess Interface, over any reader/writer pair.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
)

// MaxDepth is the largest depth accepted from "go depth" and setoption.
const MaxDepth = 8

// UCI implements the protocol handler.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer

	// CPU profiling
	profileFile *os.File
}

// New creates a protocol handler reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
	}
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands until "quit" or the end of input.
func (u *UCI) Run() error {
	defer u.stopProfile()

	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches run to completion before the next command is read.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.println("Fen: " + u.position.FEN())
		case "perft":
			u.handlePerft(args)
		case "eval":
			u.handleEval()
		default:
			u.printf("info string Unknown command: %s\n", cmd)
		}
	}
	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessAI")
	u.println("id author ChessAI Team")
	u.println("")
	u.printf("option name Depth type spin default %d min 1 max %d\n", engine.DefaultDepth, MaxDepth)
	u.println("option name Parallel type check default false")
	u.println("option name EvalMode type combo default knight var knight var all")
	u.println("option name DetectStatus type check default false")
	u.println("option name CPUProfile type string default <empty>")
	u.println("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		fen := strings.Join(args[1:movesAt], " ")
		var err error
		pos, err = board.ParseFEN(fen)
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, ok := parseMove(pos, moveStr)
			if !ok {
				u.printf("info string Invalid move: %s\n", moveStr)
				return
			}
			pos.Apply(move)
		}
	}

	pos.UpdateStatus()
	u.position = pos
}

// parseMove converts a move string to the matching legal move. A promotion
// suffix is accepted and ignored; pawns always promote to a queen.
func parseMove(pos *board.Position, moveStr string) (board.Move, bool) {
	m, err := board.ParseMove(moveStr, pos)
	if err != nil {
		return board.NoMove, false
	}

	for _, legal := range pos.LegalMoves() {
		if legal.Equal(m) {
			return legal, true
		}
	}
	return board.NoMove, false
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// handleGo runs a search and prints its info line and the best move.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	depth := u.engine.Depth()
	if opts.Depth > 0 {
		u.engine.SetDepth(min(opts.Depth, MaxDepth))
		defer u.engine.SetDepth(depth)
	}

	u.engine.OnInfo = u.sendInfo
	defer func() { u.engine.OnInfo = nil }()

	legal := u.position.LegalMoves()
	if len(legal) == 0 {
		u.println("bestmove 0000")
		return
	}

	pos := u.position.Copy()
	best, err := u.engine.BestMoveFrom(context.Background(), pos, legal)
	if err != nil || best.IsNone() {
		log.Printf("[UCI] Search failed (%v), playing first legal move", err)
		best = legal[0]
	}
	u.printf("bestmove %s\n", best.Notation())
}

// parseGoOptions parses "go" command arguments. Time controls are accepted
// and ignored; the search is depth-limited.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movetime", "movestogo", "nodes":
			i++
		}
	}

	return opts
}

// sendInfo outputs search info. Scores are reported from the side to
// move's point of view.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	score := info.Score
	if u.position.SideToMove == board.Black {
		score = -score
	}

	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if !info.Move.IsNone() {
		parts = append(parts, "pv "+info.Move.Notation())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > MaxDepth {
			u.printf("info string Invalid depth: %s\n", value)
			return
		}
		u.engine.SetDepth(depth)
	case "parallel":
		u.engine.SetParallel(strings.ToLower(value) == "true", 0)
	case "evalmode":
		mode, ok := engine.ParseEvalMode(strings.ToLower(value))
		if !ok {
			u.printf("info string Invalid eval mode: %s\n", value)
			return
		}
		u.engine.SetEvalMode(mode)
	case "detectstatus":
		u.engine.SetDetectStatus(strings.ToLower(value) == "true")
	case "cpuprofile":
		u.stopProfile()
		if value != "" && value != "stop" {
			if err := u.StartProfile(value); err != nil {
				u.printf("info string Failed to start profile: %v\n", err)
			}
		}
	default:
		u.printf("info string Unknown option: %s\n", name)
	}
}

// StartProfile writes a CPU profile to path until quit or a new profile.
func (u *UCI) StartProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	u.profileFile = f
	log.Printf("[UCI] CPU profiling to %s", path)
	return nil
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	log.Printf("[UCI] CPU profile saved")
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 || d > MaxDepth {
			u.printf("info string Invalid depth: %s\n", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

// handleEval prints the static evaluation of the current position.
func (u *UCI) handleEval() {
	score := u.engine.Evaluate(u.position)
	u.printf("Evaluation: %d (%s, white side, %s tables)\n", score, engine.ScoreToString(score), u.engine.EvalMode())
}
