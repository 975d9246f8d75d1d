package board

import "fmt"

// Move is an immutable record of one half-move, created relative to a
// specific board. It carries everything needed to apply and revert it.
type Move struct {
	From          Square
	To            Square
	PieceMoved    Piece
	PieceCaptured Piece
	EnPassant     bool
	Promotion     bool
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, PieceMoved: NoPiece, PieceCaptured: NoPiece}

// NewMove creates a move from two squares, reading the moved and captured
// pieces from b. The from square must hold a piece.
func NewMove(from, to Square, b *Board) Move {
	moved := b.At(from)
	return Move{
		From:          from,
		To:            to,
		PieceMoved:    moved,
		PieceCaptured: b.At(to),
		Promotion:     isPromotion(moved, to),
	}
}

// NewEnPassant creates an en passant capture. The captured piece is the
// enemy pawn that sits beside the mover, not the content of the target.
func NewEnPassant(from, to Square, b *Board) Move {
	moved := b.At(from)
	return Move{
		From:          from,
		To:            to,
		PieceMoved:    moved,
		PieceCaptured: NewPiece(Pawn, moved.Color().Other()),
		EnPassant:     true,
	}
}

func isPromotion(moved Piece, to Square) bool {
	if moved.Type() != Pawn {
		return false
	}
	return (moved.Color() == White && to.Row == 0) || (moved.Color() == Black && to.Row == 7)
}

// ID returns the move identity: from.Row*1000 + from.Col*100 + to.Row*10 + to.Col.
func (m Move) ID() int {
	return m.From.Row*1000 + m.From.Col*100 + m.To.Row*10 + m.To.Col
}

// Equal reports whether two moves have the same identity. Captured piece and
// flags are not part of the identity.
func (m Move) Equal(o Move) bool {
	return m.ID() == o.ID()
}

// IsNone returns true for NoMove.
func (m Move) IsNone() bool {
	return !m.From.OnBoard()
}

// IsCapture returns true if the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return !m.PieceCaptured.IsEmpty()
}

// IsDoublePush returns true for a pawn advancing two ranks.
func (m Move) IsDoublePush() bool {
	if m.PieceMoved.Type() != Pawn {
		return false
	}
	return abs(m.To.Row-m.From.Row) == 2
}

// Notation returns the square-to-square notation (e.g., "e2e4").
func (m Move) Notation() string {
	if m.IsNone() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// String returns the notation of the move.
func (m Move) String() string {
	return m.Notation()
}

// ParseMove parses square-to-square notation against the position. A trailing
// promotion letter is accepted; promotion is always to a queen.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	return pos.NewMove(from, to)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
