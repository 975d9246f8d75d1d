package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/hailam/chessai/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	move := eng.Search(pos)
	if move.IsNone() {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchNoMoves(t *testing.T) {
	pos := mustFEN(t, "k7/8/8/8/8/8/8/8 w - - 0 1")
	eng := NewEngine()

	if move := eng.Search(pos); !move.IsNone() {
		t.Errorf("Search = %s, want NoMove", move)
	}
}

func TestDifficultyDepth(t *testing.T) {
	eng := NewEngine()
	if eng.Depth() != DefaultDepth {
		t.Errorf("default depth = %d, want %d", eng.Depth(), DefaultDepth)
	}

	tests := []struct {
		d     Difficulty
		depth int
	}{
		{Easy, 2},
		{Medium, 3},
		{Hard, 4},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			eng.SetDifficulty(tt.d)
			if eng.Depth() != tt.depth {
				t.Errorf("depth = %d, want %d", eng.Depth(), tt.depth)
			}
			got, ok := ParseDifficulty(tt.d.String())
			if !ok || got != tt.d {
				t.Errorf("ParseDifficulty(%q) = %v, %v", tt.d.String(), got, ok)
			}
		})
	}

	eng.SetDepth(0)
	if eng.Depth() != 4 {
		t.Errorf("SetDepth(0) changed depth to %d", eng.Depth())
	}
}

func TestOnInfo(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	var infos []SearchInfo
	eng.OnInfo = func(info SearchInfo) {
		infos = append(infos, info)
	}

	move := eng.Search(pos)
	if len(infos) != 1 {
		t.Fatalf("OnInfo called %d times, want 1", len(infos))
	}
	if infos[0].Depth != 2 || infos[0].Nodes == 0 || !infos[0].Move.Equal(move) {
		t.Errorf("unexpected info %+v for move %s", infos[0], move)
	}
}

func TestFallbackPicksFromList(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.ValidMoves()

	eng := NewEngine()
	eng.SetSeed(42)

	for i := 0; i < 50; i++ {
		m := eng.fallback(moves)
		found := false
		for _, candidate := range moves {
			if candidate.Equal(m) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("fallback returned %s, not a valid move", m)
		}
	}

	if m := eng.fallback(nil); !m.IsNone() {
		t.Errorf("fallback(nil) = %s, want NoMove", m)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	for _, fen := range searchFENs {
		for _, depth := range []int{1, 2, 3} {
			pos := mustFEN(t, fen)
			opts := SearchOptions{Depth: depth, Pruning: true}

			want := NewSearcher(opts).FindBestMove(pos, pos.ValidMoves())

			for _, workers := range []int{0, 1, 4} {
				got, err := ParallelFindBestMove(context.Background(), pos, pos.ValidMoves(), opts, workers)
				if err != nil {
					t.Fatalf("ParallelFindBestMove: %v", err)
				}
				if got.Score != want.Score || !got.Move.Equal(want.Move) || got.Found != want.Found {
					t.Errorf("%s depth %d workers %d: parallel %s (%d), sequential %s (%d)",
						fen, depth, workers, got.Move, got.Score, want.Move, want.Score)
				}
			}

			if pos.FEN() != mustFEN(t, fen).FEN() {
				t.Errorf("%s: parallel search changed the position", fen)
			}
		}
	}
}

func TestParallelCancelled(t *testing.T) {
	pos := board.NewPosition()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine()
	eng.SetParallel(true, 2)

	_, err := eng.BestMove(ctx, pos)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("BestMove error = %v, want context.Canceled", err)
	}
}

func TestBestMoveParallel(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	eng := NewEngine()
	eng.SetDifficulty(Easy)
	eng.SetParallel(true, 0)

	move, err := eng.BestMove(context.Background(), pos)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if move.Notation() != "d2d5" {
		t.Errorf("BestMove = %s, want d2d5", move.Notation())
	}
}

func TestPerft(t *testing.T) {
	eng := NewEngine()
	pos := board.NewPosition()

	want := []uint64{1, 20, 400, 8902}
	for depth, nodes := range want {
		if got := eng.Perft(pos, depth); got != nodes {
			t.Errorf("Perft(%d) = %d, want %d", depth, got, nodes)
		}
	}
}

func TestPerftLegalOnly(t *testing.T) {
	eng := NewEngine()
	// The rook on e2 covers d2 and f2; five king moves are pseudo-legal, three legal.
	pos := mustFEN(t, "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")

	if n := len(pos.ValidMoves()); n != 5 {
		t.Fatalf("pseudo-legal moves = %d, want 5", n)
	}
	if got := eng.Perft(pos, 1); got != 3 {
		t.Errorf("Perft(1) = %d, want 3", got)
	}
}

func TestPerftNonPositiveDepth(t *testing.T) {
	eng := NewEngine()
	pos := board.NewPosition()

	for _, depth := range []int{0, -1, -5} {
		if got := eng.Perft(pos, depth); got != 1 {
			t.Errorf("Perft(%d) = %d, want 1", depth, got)
		}
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-5, "-0.05"},
		{320, "3.20"},
		{Checkmate, "Mate"},
		{-Checkmate, "Mated"},
	}
	for _, tt := range tests {
		if got := ScoreToString(tt.score); got != tt.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
