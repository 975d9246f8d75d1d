package board

import "strings"

// Board is the 8x8 grid of square contents, indexed [row][col].
//
// The zero Piece is WhitePawn, so the zero Board is not empty: start from
// EmptyBoard, NewPosition or NewEmptyPosition instead.
type Board [8][8]Piece

// EmptyBoard returns a board with every square empty.
func EmptyBoard() Board {
	var b Board
	for row := range b {
		for col := range b[row] {
			b[row][col] = NoPiece
		}
	}
	return b
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard returns the standard initial layout.
func StartingBoard() Board {
	b := EmptyBoard()
	for col := 0; col < 8; col++ {
		b[0][col] = NewPiece(backRank[col], Black)
		b[1][col] = BlackPawn
		b[6][col] = WhitePawn
		b[7][col] = NewPiece(backRank[col], White)
	}
	return b
}

// At returns the content of sq. Off-board squares read as empty.
func (b *Board) At(sq Square) Piece {
	if !sq.OnBoard() {
		return NoPiece
	}
	return b[sq.Row][sq.Col]
}

// Set places p on sq.
func (b *Board) Set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

// Clear empties sq.
func (b *Board) Clear(sq Square) {
	b[sq.Row][sq.Col] = NoPiece
}

// String renders the board with rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteString("  ")
		for col := 0; col < 8; col++ {
			sb.WriteString(b[row][col].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
