package board

import "testing"

// perft counts the leaf nodes of the legal move tree at the given depth.
// This is the standard way to verify move generation correctness.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		p.Apply(m)
		nodes += perft(p, depth-1)
		p.Undo()
	}
	return nodes
}

// pseudoPerft is perft over the unfiltered move list.
func pseudoPerft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range p.PseudoLegalMoves() {
		p.Apply(m)
		nodes += pseudoPerft(p, depth-1)
		p.Undo()
	}
	return nodes
}

// TestPerftStartingPosition tests move generation from the starting position.
// Castling and check cannot occur within three plies, so the pseudo-legal
// tree has the same size as the legal one.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if got := perft(pos, tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
			if got := pseudoPerft(pos, tc.depth); got != tc.expected {
				t.Errorf("pseudoPerft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}

	if pos.FEN() != NewPosition().FEN() {
		t.Errorf("position changed after perft: %s", pos.FEN())
	}
}

// TestPerftPosition3 tests en passant edge cases.
// FEN: 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -
func TestPerftPosition3(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if got := perft(pos, tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftEnPassantPin tests the en passant horizontal pin edge case.
// Black pawn on e4 can capture en passant on d3, but that would expose the
// black king on a4 to the white rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	for _, m := range pos.LegalMoves() {
		if m.EnPassant {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", m)
		}
	}

	found := false
	for _, m := range pos.PseudoLegalMoves() {
		if m.EnPassant && m.Notation() == "e4d3" {
			found = true
		}
	}
	if !found {
		t.Error("pseudo-legal moves should include e4d3 en passant")
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 94},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if got := perft(pos, tc.depth); got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}
