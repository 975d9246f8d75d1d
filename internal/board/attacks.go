package board

// IsSquareAttacked returns true if any piece of color by attacks sq.
// En passant is not considered; it never attacks a king.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	// Sliders: walk each ray to the first piece
	for _, d := range rookDirs {
		if t := p.firstPieceOnRay(sq, d); t.Color() == by && (t.Type() == Rook || t.Type() == Queen) {
			return true
		}
	}
	for _, d := range bishopDirs {
		if t := p.firstPieceOnRay(sq, d); t.Color() == by && (t.Type() == Bishop || t.Type() == Queen) {
			return true
		}
	}

	for _, d := range knightDirs {
		if p.PieceAt(sq.Offset(d[0], d[1])) == NewPiece(Knight, by) {
			return true
		}
	}
	for _, d := range kingDirs {
		if p.PieceAt(sq.Offset(d[0], d[1])) == NewPiece(King, by) {
			return true
		}
	}

	// A pawn attacks diagonally forward, so look one row behind sq from
	// the attacker's point of view.
	back := -pawnDirection(by)
	for _, dc := range [2]int{-1, 1} {
		if p.PieceAt(sq.Offset(back, dc)) == NewPiece(Pawn, by) {
			return true
		}
	}

	return false
}

func (p *Position) firstPieceOnRay(from Square, d [2]int) Piece {
	sq := from.Offset(d[0], d[1])
	for sq.OnBoard() {
		if piece := p.PieceAt(sq); !piece.IsEmpty() {
			return piece
		}
		sq = sq.Offset(d[0], d[1])
	}
	return NoPiece
}

// KingSquare returns the square of the king of color c, or NoSquare if the
// board has none.
func (p *Position) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p.Board[row][col] == king {
				return NewSquare(row, col)
			}
		}
	}
	return NoSquare
}

// InCheck returns true if the king of color c is attacked.
// A side without a king is never in check.
func (p *Position) InCheck(c Color) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}
