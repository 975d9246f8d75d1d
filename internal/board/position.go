package board

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned when a move is constructed from external coordinates.
var (
	ErrOffBoard = errors.New("square off board")
	ErrNoPiece  = errors.New("no piece on from square")
)

// UndoInfo stores the state a move cannot reconstruct on its own.
// One entry is kept per history entry.
type UndoInfo struct {
	EnPassant Square
	Checkmate bool
	Stalemate bool
}

// Position represents a complete game state.
type Position struct {
	Board      Board
	SideToMove Color

	// EnPassant is the square skipped by the last double pawn push,
	// NoSquare if the last move was anything else.
	EnPassant Square

	// History holds the applied moves, oldest first.
	History []Move

	// Set by the status detector (UpdateStatus) or an external collaborator.
	Checkmate bool
	Stalemate bool

	undo []UndoInfo
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	return &Position{
		Board:      StartingBoard(),
		SideToMove: White,
		EnPassant:  NoSquare,
	}
}

// NewEmptyPosition creates a position with no pieces.
func NewEmptyPosition(side Color) *Position {
	return &Position{
		Board:      EmptyBoard(),
		SideToMove: side,
		EnPassant:  NoSquare,
	}
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.History = append([]Move(nil), p.History...)
	newPos.undo = append([]UndoInfo(nil), p.undo...)
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board.At(sq)
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board.At(sq).IsEmpty()
}

// LastMove returns the most recent move, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.History) == 0 {
		return NoMove
	}
	return p.History[len(p.History)-1]
}

// NewMove builds a move between two squares on the current board,
// recognising en passant captures by their target square.
func (p *Position) NewMove(from, to Square) (Move, error) {
	if !from.OnBoard() || !to.OnBoard() {
		return NoMove, ErrOffBoard
	}
	piece := p.PieceAt(from)
	if piece.IsEmpty() {
		return NoMove, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if piece.Type() == Pawn && to == p.EnPassant && from.Col != to.Col && p.IsEmpty(to) {
		return NewEnPassant(from, to, &p.Board), nil
	}
	return NewMove(from, to, &p.Board), nil
}

// Apply plays a move on the board. Every Apply must be matched by one Undo
// in reverse order when used for search backtracking.
func (p *Position) Apply(m Move) {
	p.undo = append(p.undo, UndoInfo{
		EnPassant: p.EnPassant,
		Checkmate: p.Checkmate,
		Stalemate: p.Stalemate,
	})

	p.Board.Clear(m.From)
	p.Board.Set(m.To, m.PieceMoved)

	if m.Promotion {
		p.Board.Set(m.To, NewPiece(Queen, m.PieceMoved.Color()))
	}

	if m.EnPassant {
		p.Board.Clear(NewSquare(m.From.Row, m.To.Col))
	}

	if m.IsDoublePush() {
		p.EnPassant = NewSquare((m.From.Row+m.To.Row)/2, m.From.Col)
	} else {
		p.EnPassant = NoSquare
	}

	// Status describes the position before the move.
	p.Checkmate = false
	p.Stalemate = false

	p.History = append(p.History, m)
	p.SideToMove = p.SideToMove.Other()
}

// Undo reverts the most recent move. It is a no-op on an empty history.
func (p *Position) Undo() {
	if len(p.History) == 0 {
		return
	}

	m := p.History[len(p.History)-1]
	p.History = p.History[:len(p.History)-1]

	p.Board.Set(m.From, m.PieceMoved)
	p.Board.Set(m.To, m.PieceCaptured)

	if m.EnPassant {
		p.Board.Clear(m.To)
		p.Board.Set(NewSquare(m.From.Row, m.To.Col), m.PieceCaptured)
	}

	if n := len(p.undo); n > 0 {
		info := p.undo[n-1]
		p.undo = p.undo[:n-1]
		p.EnPassant = info.EnPassant
		p.Checkmate = info.Checkmate
		p.Stalemate = info.Stalemate
	} else if m.IsDoublePush() {
		// History was built without Apply (e.g. assigned directly).
		p.EnPassant = NoSquare
	}

	p.SideToMove = p.SideToMove.Other()
}

// Material returns the material balance in pawn units of 100 (positive favors white).
func (p *Position) Material() int {
	values := [7]int{100, 320, 330, 500, 900, 0, 0}
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := p.Board[row][col]
			if piece.IsEmpty() {
				continue
			}
			if piece.Color() == White {
				score += values[piece.Type()]
			} else {
				score -= values[piece.Type()]
			}
		}
	}
	return score
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(p.Board.String())
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Moves played: %d\n", len(p.History))
	return sb.String()
}
