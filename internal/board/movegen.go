package board

// Direction tables, (row, col) deltas.
var (
	rookDirs   = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	knightDirs = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingDirs   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// PseudoLegalMoves generates every move of the side to move that obeys the
// piece movement rules. Moves that leave the mover's king attacked are
// included. Squares are scanned row by row, a8 first.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := p.Board[row][col]
			if piece.IsEmpty() || piece.Color() != p.SideToMove {
				continue
			}
			moves = p.appendPieceMoves(moves, NewSquare(row, col), piece)
		}
	}
	return moves
}

// ValidMoves is the move list used by the search at every node. It is
// deliberately the pseudo-legal list; see LegalMoves for king safety.
func (p *Position) ValidMoves() []Move {
	return p.PseudoLegalMoves()
}

// MovesFrom returns the pseudo-legal moves of the piece on sq.
// Squares that are empty or hold an enemy piece yield no moves.
func (p *Position) MovesFrom(sq Square) []Move {
	piece := p.PieceAt(sq)
	if piece.IsEmpty() || piece.Color() != p.SideToMove {
		return nil
	}
	return p.appendPieceMoves(nil, sq, piece)
}

func (p *Position) appendPieceMoves(moves []Move, from Square, piece Piece) []Move {
	switch piece.Type() {
	case Pawn:
		return p.appendPawnMoves(moves, from, piece.Color())
	case Knight:
		return p.appendStepMoves(moves, from, piece.Color(), knightDirs[:])
	case Bishop:
		return p.appendSlideMoves(moves, from, piece.Color(), bishopDirs[:])
	case Rook:
		return p.appendSlideMoves(moves, from, piece.Color(), rookDirs[:])
	case Queen:
		moves = p.appendSlideMoves(moves, from, piece.Color(), rookDirs[:])
		return p.appendSlideMoves(moves, from, piece.Color(), bishopDirs[:])
	case King:
		return p.appendStepMoves(moves, from, piece.Color(), kingDirs[:])
	default:
		return moves
	}
}

// pawnDirection returns the row delta of a pawn push for color c.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// pawnStartRow returns the row pawns of color c start on.
func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func (p *Position) appendPawnMoves(moves []Move, from Square, us Color) []Move {
	dir := pawnDirection(us)

	// Pushes
	one := from.Offset(dir, 0)
	if one.OnBoard() && p.IsEmpty(one) {
		moves = append(moves, NewMove(from, one, &p.Board))

		two := from.Offset(2*dir, 0)
		if from.Row == pawnStartRow(us) && two.OnBoard() && p.IsEmpty(two) {
			moves = append(moves, NewMove(from, two, &p.Board))
		}
	}

	// Captures, including en passant
	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.OnBoard() {
			continue
		}
		target := p.PieceAt(to)
		if !target.IsEmpty() && target.Color() != us {
			moves = append(moves, NewMove(from, to, &p.Board))
		} else if to == p.EnPassant && target.IsEmpty() {
			moves = append(moves, NewEnPassant(from, to, &p.Board))
		}
	}

	return moves
}

// appendStepMoves handles the single-step pieces (knight, king).
func (p *Position) appendStepMoves(moves []Move, from Square, us Color, dirs [][2]int) []Move {
	for _, d := range dirs {
		to := from.Offset(d[0], d[1])
		if !to.OnBoard() {
			continue
		}
		target := p.PieceAt(to)
		if target.IsEmpty() || target.Color() != us {
			moves = append(moves, NewMove(from, to, &p.Board))
		}
	}
	return moves
}

// appendSlideMoves walks each ray until the edge or the first occupied
// square, which is included only when it holds an enemy piece.
func (p *Position) appendSlideMoves(moves []Move, from Square, us Color, dirs [][2]int) []Move {
	for _, d := range dirs {
		to := from.Offset(d[0], d[1])
		for to.OnBoard() {
			target := p.PieceAt(to)
			if target.IsEmpty() {
				moves = append(moves, NewMove(from, to, &p.Board))
			} else {
				if target.Color() != us {
					moves = append(moves, NewMove(from, to, &p.Board))
				}
				break
			}
			to = to.Offset(d[0], d[1])
		}
	}
	return moves
}
