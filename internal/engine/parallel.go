package engine

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessai/internal/board"
)

// ParallelFindBestMove searches every root move on its own copy of pos and
// combines the results in move-list order, so the chosen move and score
// match the sequential search. workers <= 0 runs one goroutine per move.
func ParallelFindBestMove(ctx context.Context, pos *board.Position, moves []board.Move, opts SearchOptions, workers int) (Result, error) {
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	maximizing := pos.SideToMove == board.White

	scores := make([]int, len(moves))
	var nodes atomic.Uint64
	nodes.Add(1) // root

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			child := pos.Copy()
			s := NewSearcher(opts)
			scores[i] = s.child(child, m, opts.Depth, -Checkmate, Checkmate, !maximizing)
			nodes.Add(s.nodes)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{Move: board.NoMove}, err
	}

	res := Result{Move: board.NoMove, Nodes: nodes.Load()}
	if maximizing {
		res.Score = -Checkmate
		for i, score := range scores {
			if score > res.Score {
				res.Score = score
				res.Move = moves[i]
			}
		}
	} else {
		res.Score = Checkmate
		for i, score := range scores {
			if score < res.Score {
				res.Score = score
				res.Move = moves[i]
			}
		}
	}
	res.Found = !res.Move.IsNone()
	return res, nil
}

// SearchParallel is Search with the root moves split across goroutines.
func (e *Engine) SearchParallel(ctx context.Context, pos *board.Position) (board.Move, error) {
	return e.searchParallel(ctx, pos, pos.ValidMoves())
}

func (e *Engine) searchParallel(ctx context.Context, pos *board.Position, moves []board.Move) (board.Move, error) {
	startTime := time.Now()
	res, err := ParallelFindBestMove(ctx, pos, moves, e.opts, e.workers)
	if err != nil {
		return board.NoMove, err
	}
	e.report(res, time.Since(startTime))

	if res.Found {
		return res.Move, nil
	}
	return e.fallback(moves), nil
}
