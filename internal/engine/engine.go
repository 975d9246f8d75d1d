package engine

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/hailam/chessai/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 3 ply
	Hard                     // 4 ply
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// ParseDifficulty converts a name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "easy":
		return Easy, true
	case "medium", "":
		return Medium, true
	case "hard":
		return Hard, true
	}
	return Medium, false
}

// Engine is the chess AI: a Searcher configuration plus the move choice
// policy around it.
type Engine struct {
	opts       SearchOptions
	difficulty Difficulty
	parallel   bool
	workers    int
	rng        *rand.Rand

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine at Medium difficulty (depth 3) with pruning.
func NewEngine() *Engine {
	return &Engine{
		opts:       DefaultOptions(),
		difficulty: Medium,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetDifficulty sets the engine difficulty and the matching depth.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
	if depth, ok := DifficultyDepth[d]; ok {
		e.opts.Depth = depth
	}
}

// Difficulty returns the configured difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetDepth overrides the search depth. Values below 1 are ignored.
func (e *Engine) SetDepth(depth int) {
	if depth >= 1 {
		e.opts.Depth = depth
	}
}

// Depth returns the search depth.
func (e *Engine) Depth() int {
	return e.opts.Depth
}

// SetEvalMode selects the evaluation tables.
func (e *Engine) SetEvalMode(mode EvalMode) {
	e.opts.EvalMode = mode
}

// EvalMode returns the evaluation mode.
func (e *Engine) EvalMode() EvalMode {
	return e.opts.EvalMode
}

// SetDetectStatus enables checkmate/stalemate detection inside the tree.
func (e *Engine) SetDetectStatus(on bool) {
	e.opts.DetectStatus = on
}

// SetParallel makes BestMove split the root moves across goroutines.
// workers <= 0 means one goroutine per root move.
func (e *Engine) SetParallel(on bool, workers int) {
	e.parallel = on
	e.workers = workers
}

// Parallel reports whether root-parallel search is enabled.
func (e *Engine) Parallel() bool {
	return e.parallel
}

// SetSeed reseeds the fallback move picker.
func (e *Engine) SetSeed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// Options returns the search options the engine runs with.
func (e *Engine) Options() SearchOptions {
	return e.opts
}

// Analyze runs the search on the side to move's valid moves and returns
// the raw result, without the fallback.
func (e *Engine) Analyze(pos *board.Position) Result {
	return e.AnalyzeMoves(pos, pos.ValidMoves())
}

// AnalyzeMoves runs the search over the given root moves.
func (e *Engine) AnalyzeMoves(pos *board.Position, moves []board.Move) Result {
	startTime := time.Now()
	s := NewSearcher(e.opts)
	res := s.FindBestMove(pos, moves)
	e.report(res, time.Since(startTime))
	return res
}

// Search finds the move to play. When no move beats the initial bound a
// uniformly random valid move is returned instead. NoMove is returned only
// when the side to move has no valid move at all.
func (e *Engine) Search(pos *board.Position) board.Move {
	return e.SearchMoves(pos, pos.ValidMoves())
}

// SearchMoves is Search restricted to the given root moves; the fallback
// picks from the same list.
func (e *Engine) SearchMoves(pos *board.Position, moves []board.Move) board.Move {
	res := e.AnalyzeMoves(pos, moves)
	if res.Found {
		return res.Move
	}
	return e.fallback(moves)
}

// BestMove is Search with cancellation, using the parallel search when
// enabled.
func (e *Engine) BestMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	return e.BestMoveFrom(ctx, pos, pos.ValidMoves())
}

// BestMoveFrom is BestMove restricted to the given root moves.
func (e *Engine) BestMoveFrom(ctx context.Context, pos *board.Position, moves []board.Move) (board.Move, error) {
	if !e.parallel {
		if err := ctx.Err(); err != nil {
			return board.NoMove, err
		}
		return e.SearchMoves(pos, moves), nil
	}
	return e.searchParallel(ctx, pos, moves)
}

func (e *Engine) fallback(moves []board.Move) board.Move {
	if len(moves) == 0 {
		return board.NoMove
	}
	m := moves[e.rng.Intn(len(moves))]
	log.Printf("[Search] No move improves on the bound, playing random move %s", m)
	return m
}

func (e *Engine) report(res Result, elapsed time.Duration) {
	if e.OnInfo == nil {
		return
	}
	e.OnInfo(SearchInfo{
		Depth: e.opts.Depth,
		Score: res.Score,
		Nodes: res.Nodes,
		Time:  elapsed,
		Move:  res.Move,
	})
}

// Perft counts the legal move paths of the given depth (for debugging move
// generation). Depths below 1 count the position itself.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		pos.Apply(m)
		nodes += e.Perft(pos, depth-1)
		pos.Undo()
	}

	return nodes
}

// Evaluate returns the static evaluation of a position with the engine's
// evaluation mode.
func (e *Engine) Evaluate(pos *board.Position) int {
	return EvaluateWith(pos, e.opts.EvalMode)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= Checkmate {
		return "Mate"
	}
	if score <= -Checkmate {
		return "Mated"
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
