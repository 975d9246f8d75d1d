package engine

import (
	"github.com/hailam/chessai/internal/board"
)

// DefaultDepth is the search depth used when none is configured.
const DefaultDepth = 3

// SearchOptions configures a Searcher.
type SearchOptions struct {
	// Depth is the number of plies searched from the root.
	Depth int

	// Pruning enables alpha-beta cutoffs. With it off the search visits
	// the full minimax tree and returns the same score and move.
	Pruning bool

	// DetectStatus runs the checkmate/stalemate detector after every
	// applied move so terminal positions are scored as such.
	DetectStatus bool

	// EvalMode selects the piece-square tables used at the leaves.
	EvalMode EvalMode
}

// DefaultOptions returns the standard configuration: depth 3 with pruning.
func DefaultOptions() SearchOptions {
	return SearchOptions{
		Depth:   DefaultDepth,
		Pruning: true,
	}
}

// Result is the outcome of a root search.
type Result struct {
	Move  board.Move
	Score int
	// Found is false when no root move scored strictly better than the
	// initial bound (including an empty move list).
	Found bool
	Nodes uint64
}

// Searcher runs the fixed-depth minimax search. It is not safe for
// concurrent use; SearchParallel gives each goroutine its own Searcher.
type Searcher struct {
	opts  SearchOptions
	nodes uint64
}

// NewSearcher creates a searcher. A depth below 1 is raised to 1.
func NewSearcher(opts SearchOptions) *Searcher {
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	return &Searcher{opts: opts}
}

// Options returns the searcher configuration.
func (s *Searcher) Options() SearchOptions {
	return s.opts
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// FindBestMove searches moves from pos and returns the best one for the
// side to move. White maximizes, Black minimizes. The position is restored
// before returning.
func (s *Searcher) FindBestMove(pos *board.Position, moves []board.Move) Result {
	s.nodes = 0
	maximizing := pos.SideToMove == board.White

	score, best := s.minimax(pos, moves, s.opts.Depth, -Checkmate, Checkmate, maximizing)

	return Result{
		Move:  best,
		Score: score,
		Found: !best.IsNone(),
		Nodes: s.nodes,
	}
}

// minimax returns the score of pos and, at the root only, the move that
// produced it. Children are generated with ValidMoves after each Apply.
func (s *Searcher) minimax(pos *board.Position, moves []board.Move, depth, alpha, beta int, maximizing bool) (int, board.Move) {
	s.nodes++

	if depth == 0 || pos.Checkmate || pos.Stalemate {
		return EvaluateWith(pos, s.opts.EvalMode), board.NoMove
	}

	root := depth == s.opts.Depth
	best := board.NoMove

	if maximizing {
		maxScore := -Checkmate
		for _, m := range moves {
			score := s.child(pos, m, depth, alpha, beta, false)
			if score > maxScore {
				maxScore = score
				if root {
					best = m
				}
			}
			alpha = max(alpha, maxScore)
			if s.opts.Pruning && beta <= alpha {
				break
			}
		}
		return maxScore, best
	}

	minScore := Checkmate
	for _, m := range moves {
		score := s.child(pos, m, depth, alpha, beta, true)
		if score < minScore {
			minScore = score
			if root {
				best = m
			}
		}
		beta = min(beta, minScore)
		if s.opts.Pruning && beta <= alpha {
			break
		}
	}
	return minScore, best
}

// child applies m, searches the resulting position one ply shallower and
// undoes m.
func (s *Searcher) child(pos *board.Position, m board.Move, depth, alpha, beta int, maximizing bool) int {
	pos.Apply(m)
	if s.opts.DetectStatus {
		pos.UpdateStatus()
	}

	var next []board.Move
	if depth > 1 {
		next = pos.ValidMoves()
	}
	score, _ := s.minimax(pos, next, depth-1, alpha, beta, maximizing)

	pos.Undo()
	return score
}
