// Package board implements the chess position model on an 8x8 mailbox grid:
// square contents, moves, pseudo-legal move generation and reversible
// move application.
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSquare is returned for malformed or off-board square names.
var ErrInvalidSquare = errors.New("invalid square")

// Square is a (row, column) coordinate on the board.
// Row 0 is Black's back rank (rank 8), row 7 is White's back rank (rank 1).
// Column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// NoSquare marks the absence of a square (e.g. no en passant target).
var NoSquare = Square{Row: -1, Col: -1}

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	return Square{Row: row, Col: col}
}

// OnBoard returns true if both coordinates are within 0-7.
func (sq Square) OnBoard() bool {
	return sq.Row >= 0 && sq.Row < 8 && sq.Col >= 0 && sq.Col < 8
}

// Offset returns the square dr rows and dc columns away. The result may be
// off the board; callers check with OnBoard.
func (sq Square) Offset(dr, dc int) Square {
	return Square{Row: sq.Row + dr, Col: sq.Col + dc}
}

// Mirror returns the square flipped vertically (for black's perspective).
func (sq Square) Mirror() Square {
	return Square{Row: 7 - sq.Row, Col: sq.Col}
}

// File returns the file letter ('a'-'h').
func (sq Square) File() byte {
	return byte('a' + sq.Col)
}

// Rank returns the rank digit ('1'-'8').
func (sq Square) Rank() byte {
	return byte('8' - sq.Row)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return string([]byte{sq.File(), sq.Rank()})
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	col := int(s[0]) - 'a'
	row := '8' - int(s[1])

	sq := NewSquare(row, col)
	if !sq.OnBoard() {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}
