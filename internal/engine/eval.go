// Package engine implements the chess AI: a static evaluation and a
// fixed-depth minimax search with alpha-beta pruning.
package engine

import (
	"github.com/hailam/chessai/internal/board"
)

// Score constants
const (
	Checkmate = 10000000
	Stalemate = 0
)

// Material values indexed by PieceType; the king and the empty square are 0.
var pieceScore = [7]int{100, 320, 330, 500, 900, 0, 0}

// Piece-square tables, written from White's point of view with row 0 = rank 8.
// Black reads them vertically mirrored.

// Pawns are worth more in the center and closer to promotion.
var pawnTable = [8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

// Knights are best in the center and poor on the edges.
var knightTable = [8][8]int{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopTable = [8][8]int{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

// Rooks like the seventh rank.
var rookTable = [8][8]int{
	{0, 0, 0, 5, 5, 0, 0, 0},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var queenTable = [8][8]int{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

// King safety table: stay tucked in the corner.
var kingTable = [8][8]int{
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{20, 30, 10, 0, 0, 10, 30, 20},
}

var pieceTables = [6]*[8][8]int{&pawnTable, &knightTable, &bishopTable, &rookTable, &queenTable, &kingTable}

// EvalMode selects which piece-square tables contribute to the score.
type EvalMode int

const (
	EvalKnightTables EvalMode = iota // material + knight table only
	EvalAllTables                    // material + every piece's table
)

// String returns the mode name used in options and preferences.
func (m EvalMode) String() string {
	if m == EvalAllTables {
		return "all"
	}
	return "knight"
}

// ParseEvalMode converts an option value to an EvalMode.
func ParseEvalMode(s string) (EvalMode, bool) {
	switch s {
	case "knight", "classic", "":
		return EvalKnightTables, true
	case "all", "tables":
		return EvalAllTables, true
	}
	return EvalKnightTables, false
}

// Evaluate returns the static score of the position from White's point of
// view using material and the knight table.
func Evaluate(pos *board.Position) int {
	return EvaluateWith(pos, EvalKnightTables)
}

// EvaluateWith returns the static score with the given table mode.
// A checkmate is scored against the side to move; a stalemate is 0.
func EvaluateWith(pos *board.Position, mode EvalMode) int {
	if pos.Checkmate {
		if pos.SideToMove == board.White {
			return -Checkmate
		}
		return Checkmate
	}
	if pos.Stalemate {
		return Stalemate
	}

	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := pos.Board[row][col]
			if piece.IsEmpty() {
				continue
			}
			pt := piece.Type()

			value := pieceScore[pt]
			if mode == EvalAllTables || pt == board.Knight {
				if piece.Color() == board.White {
					value += pieceTables[pt][row][col]
				} else {
					value += pieceTables[pt][7-row][col]
				}
			}

			if piece.Color() == board.White {
				score += value
			} else {
				score -= value
			}
		}
	}
	return score
}
