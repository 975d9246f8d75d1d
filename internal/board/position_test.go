package board

import (
	"errors"
	"testing"
)

var testFENs = []string{
	StartFEN,
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	"4k3/8/8/3Pp3/8/8/8/4K3 w - e6",
	"4k3/8/8/3P4/8/8/8/4K3 w - e6",
	"1n5k/P7/8/8/8/8/8/K7 w - -",
	"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"k7/8/8/8/8/8/7p/K7 b - -",
}

// TestApplyUndoInverse checks that Undo restores board, side to move,
// history and en passant target for every generated move.
func TestApplyUndoInverse(t *testing.T) {
	for _, fen := range testFENs {
		pos := mustFEN(t, fen)
		board := pos.Board
		side := pos.SideToMove
		ep := pos.EnPassant

		for _, m := range pos.PseudoLegalMoves() {
			pos.Apply(m)
			if pos.SideToMove == side {
				t.Errorf("%s %s: side to move not flipped", fen, m)
			}
			if len(pos.History) != 1 || !pos.History[0].Equal(m) {
				t.Errorf("%s %s: history = %v", fen, m, pos.History)
			}

			// One ply deeper as the search does.
			for _, reply := range pos.PseudoLegalMoves() {
				inner := pos.Board
				pos.Apply(reply)
				pos.Undo()
				if pos.Board != inner {
					t.Fatalf("%s %s %s: inner board not restored", fen, m, reply)
				}
			}

			pos.Undo()
			if pos.Board != board {
				t.Fatalf("%s %s: board not restored:\n%s", fen, m, pos.Board.String())
			}
			if pos.SideToMove != side {
				t.Errorf("%s %s: side to move not restored", fen, m)
			}
			if len(pos.History) != 0 {
				t.Errorf("%s %s: history not empty", fen, m)
			}
			if pos.EnPassant != ep {
				t.Errorf("%s %s: en passant = %v, want %v", fen, m, pos.EnPassant, ep)
			}
		}
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	pos := NewPosition()
	pos.Undo()
	if pos.SideToMove != White {
		t.Error("Undo on empty history flipped the side to move")
	}
	if pos.Board != StartingBoard() {
		t.Error("Undo on empty history changed the board")
	}
}

func TestUndoRestoresStatusFlags(t *testing.T) {
	pos := NewPosition()
	pos.Checkmate = true
	m, _ := ParseMove("e2e4", pos)
	pos.Apply(m)
	if pos.Checkmate {
		t.Error("Apply should clear the status flags")
	}
	pos.Undo()
	if !pos.Checkmate {
		t.Error("Undo should restore the status flags")
	}
}

func TestEmptyPosition(t *testing.T) {
	pos := NewEmptyPosition(Black)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := pos.Board[row][col]; !p.IsEmpty() || p != NoPiece {
				t.Fatalf("square %s holds %v", NewSquare(row, col), p)
			}
		}
	}
	if pos.EnPassant != NoSquare || len(pos.PseudoLegalMoves()) != 0 {
		t.Errorf("empty position has en passant %v or moves", pos.EnPassant)
	}
	if pos.FEN() != "8/8/8/8/8/8/8/8 b - - 0 1" {
		t.Errorf("FEN() = %s", pos.FEN())
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := NewPosition()
	m, _ := ParseMove("e2e4", pos)
	pos.Apply(m)

	cp := pos.Copy()
	reply, _ := ParseMove("e7e5", cp)
	cp.Apply(reply)

	if len(pos.History) != 1 {
		t.Errorf("original history length = %d, want 1", len(pos.History))
	}
	if pos.PieceAt(mustSquare(t, "e7")) != BlackPawn {
		t.Error("original board changed by the copy")
	}

	cp.Undo()
	cp.Undo()
	if cp.Board != StartingBoard() {
		t.Error("copy could not unwind to the start")
	}
	if pos.PieceAt(mustSquare(t, "e4")) != WhitePawn {
		t.Error("unwinding the copy changed the original")
	}
}

func TestMoveIdentity(t *testing.T) {
	b := StartingBoard()
	from := mustSquare(t, "e2")
	to := mustSquare(t, "e4")

	m := NewMove(from, to, &b)
	if m.ID() != 6444 {
		t.Errorf("ID = %d, want 6444", m.ID())
	}

	// Same squares, different captured piece and flags: still equal.
	other := m
	other.PieceCaptured = BlackQueen
	other.EnPassant = true
	if !m.Equal(other) {
		t.Error("moves with the same squares should be equal")
	}

	ep := NewEnPassant(from, to, &b)
	if !m.Equal(ep) {
		t.Error("en passant move with the same squares should be equal")
	}

	if m.Equal(NewMove(from, mustSquare(t, "e3"), &b)) {
		t.Error("moves with different targets should differ")
	}
}

func TestNotation(t *testing.T) {
	b := StartingBoard()
	tests := []struct {
		from, to Square
		want     string
	}{
		{NewSquare(6, 4), NewSquare(4, 4), "e2e4"},
		{NewSquare(7, 6), NewSquare(5, 5), "g1f3"},
		{NewSquare(1, 0), NewSquare(3, 0), "a7a5"},
		{NewSquare(0, 7), NewSquare(7, 7), "h8h1"},
	}
	for _, tc := range tests {
		if got := NewMove(tc.from, tc.to, &b).Notation(); got != tc.want {
			t.Errorf("Notation() = %s, want %s", got, tc.want)
		}
	}
	if NoMove.Notation() != "0000" {
		t.Errorf("NoMove notation = %s", NoMove.Notation())
	}
}

func TestParseSquare(t *testing.T) {
	sq, err := ParseSquare("a8")
	if err != nil || sq != NewSquare(0, 0) {
		t.Errorf("a8 = %v, %v", sq, err)
	}
	sq, err = ParseSquare("h1")
	if err != nil || sq != NewSquare(7, 7) {
		t.Errorf("h1 = %v, %v", sq, err)
	}
	for _, bad := range []string{"", "i1", "a9", "a0", "e44"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Errorf("ParseSquare(%q) should fail", bad)
		}
	}
}

func TestPositionNewMove(t *testing.T) {
	pos := NewPosition()

	if _, err := pos.NewMove(mustSquare(t, "e4"), mustSquare(t, "e5")); !errors.Is(err, ErrNoPiece) {
		t.Errorf("empty from square: err = %v, want ErrNoPiece", err)
	}
	if _, err := pos.NewMove(NewSquare(8, 0), NewSquare(0, 0)); !errors.Is(err, ErrOffBoard) {
		t.Errorf("off board: err = %v, want ErrOffBoard", err)
	}
	if _, err := ParseMove("e2", pos); err == nil {
		t.Error("short move string should fail")
	}
}

func TestFEN(t *testing.T) {
	pos := NewPosition()
	if got := pos.FEN(); got != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1" {
		t.Errorf("FEN() = %s", got)
	}

	m, _ := ParseMove("e2e4", pos)
	pos.Apply(m)
	if got := pos.FEN(); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - e3 0 1" {
		t.Errorf("FEN() after e2e4 = %s", got)
	}

	for _, bad := range []string{"", "8/8/8 w", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x", "rnbqkbnr/ppppXppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"} {
		if _, err := ParseFEN(bad); err == nil {
			t.Errorf("ParseFEN(%q) should fail", bad)
		}
	}
}

func TestFENEnPassant(t *testing.T) {
	tests := []struct {
		fen  string
		want Square
	}{
		{"4k3/8/8/3Pp3/8/8/8/4K3 w - e6", NewSquare(2, 4)},
		{"8/8/8/8/k2Pp2R/8/8/4K3 b - d3", NewSquare(5, 3)},
		// no pawn behind the target
		{"4k3/8/8/3P4/8/8/8/4K3 w - e6", NoSquare},
		// wrong rank for the side to move
		{"4k3/8/8/3Pp3/8/8/8/4K3 w - e3", NoSquare},
		{"4k3/8/8/3Pp3/8/8/8/4K3 b - e6", NoSquare},
		// own pawn behind the target
		{"4k3/8/8/3PP3/8/8/8/4K3 w - e6", NoSquare},
		// starting square still occupied
		{"4k3/4p3/8/3Pp3/8/8/8/4K3 w - e6", NoSquare},
	}

	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			if pos.EnPassant != tt.want {
				t.Errorf("EnPassant = %v, want %v", pos.EnPassant, tt.want)
			}
			for _, m := range pos.PseudoLegalMoves() {
				if m.EnPassant && tt.want == NoSquare {
					t.Errorf("unexpected en passant move %s", m)
				}
			}
		})
	}
}

func TestCheckmate(t *testing.T) {
	// Back rank mate: white rook a8, black king h8 boxed in by its pawns.
	pos := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	pos.UpdateStatus()

	t.Log(pos)

	if !pos.InCheck(Black) {
		t.Error("black should be in check")
	}
	if !pos.Checkmate {
		t.Error("Expected checkmate but got false")
	}
	if pos.Stalemate {
		t.Error("checkmate is not stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// King can capture the undefended rook or step to h7.
	pos := mustFEN(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	pos.UpdateStatus()

	if pos.Checkmate {
		t.Error("Expected NOT checkmate but got true")
	}
	legal := pos.LegalMoves()
	if len(legal) != 2 || legal[0].Notation() != "h8g8" || legal[1].Notation() != "h8h7" {
		t.Errorf("legal moves = %v, want [h8g8 h8h7]", legal)
	}
}

func TestStalemate(t *testing.T) {
	pos := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - -")
	pos.UpdateStatus()

	if !pos.Stalemate {
		t.Error("Expected stalemate")
	}
	if pos.Checkmate {
		t.Error("stalemate is not checkmate")
	}
	if !pos.GameOver() {
		t.Error("GameOver() should be true")
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3p4/8/8/8/4K3 w - -")
	tests := []struct {
		sq   string
		by   Color
		want bool
	}{
		{"c4", Black, true},  // pawn d5
		{"e4", Black, true},  // pawn d5
		{"d4", Black, false}, // pawns do not attack straight ahead
		{"d7", Black, true},  // king e8
		{"d2", White, true},  // king e1
		{"c6", White, false},
	}
	for _, tc := range tests {
		if got := pos.IsSquareAttacked(mustSquare(t, tc.sq), tc.by); got != tc.want {
			t.Errorf("IsSquareAttacked(%s, %v) = %v, want %v", tc.sq, tc.by, got, tc.want)
		}
	}

	noKing := mustFEN(t, "8/8/8/8/8/8/8/r7 w - -")
	if noKing.InCheck(White) {
		t.Error("a side without a king is never in check")
	}
}
