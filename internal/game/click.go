package game

import (
	"github.com/hailam/chessai/internal/board"
)

// ClickResult reports what a click did.
type ClickResult struct {
	// Selected is the square holding the selected piece, NoSquare when
	// nothing is selected after the click.
	Selected board.Square
	// Targets are the squares the selected piece can move to.
	Targets []board.Square
	// Move is the move played by the click, NoMove if none.
	Move board.Move
}

// Moved reports whether the click played a move.
func (r ClickResult) Moved() bool {
	return !r.Move.IsNone()
}

// Click handles a click on (row, col). The first click on an own piece
// selects it; a second click on one of its targets plays the move; a click
// on another own piece moves the selection; anything else clears it.
func (s *Session) Click(row, col int) (ClickResult, error) {
	if s.Over() {
		return s.selection(), ErrGameOver
	}
	if !s.humanToMove() {
		return s.selection(), ErrNotYourTurn
	}

	sq := board.NewSquare(row, col)
	if !sq.OnBoard() {
		s.clearSelection()
		return s.selection(), board.ErrOffBoard
	}

	if s.selected != board.NoSquare {
		for _, m := range s.targets {
			if m.To == sq {
				s.makeMove(m)
				res := s.selection()
				res.Move = m
				return res, nil
			}
		}
	}

	piece := s.pos.PieceAt(sq)
	if !piece.IsEmpty() && piece.Color() == s.pos.SideToMove && sq != s.selected {
		s.selectSquare(sq)
	} else {
		s.clearSelection()
	}
	return s.selection(), nil
}

// selectSquare selects the piece on sq and caches its legal moves.
func (s *Session) selectSquare(sq board.Square) {
	s.selected = sq
	s.targets = s.targets[:0]
	for _, m := range s.pos.LegalMoves() {
		if m.From == sq {
			s.targets = append(s.targets, m)
		}
	}
}

func (s *Session) clearSelection() {
	s.selected = board.NoSquare
	s.targets = nil
}

func (s *Session) selection() ClickResult {
	res := ClickResult{Selected: s.selected, Move: board.NoMove}
	for _, m := range s.targets {
		res.Targets = append(res.Targets, m.To)
	}
	return res
}

// Selected returns the selected square, or NoSquare.
func (s *Session) Selected() board.Square {
	return s.selected
}
