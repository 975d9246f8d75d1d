package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
// Only piece placement, side to move and the en passant square are used;
// the castling field and move counters are accepted and ignored. An en
// passant square that no double pawn step could have produced is dropped.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid FEN: need at least 2 fields, got %d", len(parts))
	}

	pos := NewEmptyPosition(White)

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse en passant square (field 3)
	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		if validEnPassant(pos, sq) {
			pos.EnPassant = sq
		}
	}

	return pos, nil
}

// validEnPassant reports whether sq can be the target of an en passant
// capture: an enemy pawn just passed over it with a double step, so sq and
// the pawn's starting square are empty and the pawn stands right behind sq.
func validEnPassant(pos *Position, sq Square) bool {
	row, pawnRow, startRow := 2, 3, 1
	if pos.SideToMove == Black {
		row, pawnRow, startRow = 5, 4, 6
	}
	enemyPawn := NewPiece(Pawn, pos.SideToMove.Other())

	return sq.Row == row &&
		pos.Board.At(sq).IsEmpty() &&
		pos.Board.At(NewSquare(startRow, sq.Col)).IsEmpty() &&
		pos.Board.At(NewSquare(pawnRow, sq.Col)) == enemyPawn
}

// parsePiecePlacement parses the piece placement section of a FEN string.
// The first FEN rank (rank 8) is board row 0.
func parsePiecePlacement(pos *Position, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(rows))
	}

	for row, rowStr := range rows {
		col := 0

		for _, c := range rowStr {
			if col > 7 {
				return fmt.Errorf("too many squares in rank %d", 8-row)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			pos.Board.Set(NewSquare(row, col), piece)
			col++
		}

		if col != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", 8-row, col)
		}
	}

	return nil
}

// FEN returns the FEN representation of the position. Castling is always
// "-" and the move counters are derived from the history length.
func (p *Position) FEN() string {
	var sb strings.Builder

	// Piece placement
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := p.Board[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteString(" - ")
	sb.WriteString(p.EnPassant.String())

	sb.WriteString(" 0 ")
	sb.WriteString(strconv.Itoa(len(p.History)/2 + 1))

	return sb.String()
}
