package game

import (
	"github.com/hailam/chessai/internal/board"
)

// Snapshot is the serializable view of a session sent to clients.
type Snapshot struct {
	FEN       string       `json:"fen"`
	Board     [8][8]string `json:"board"`
	Turn      string       `json:"turn"`
	Mode      string       `json:"mode"`
	Human     string       `json:"human"`
	History   []string     `json:"history"`
	LastMove  string       `json:"last_move,omitempty"`
	Check     bool         `json:"check"`
	Checkmate bool         `json:"checkmate"`
	Stalemate bool         `json:"stalemate"`
	Result    string       `json:"result"`
	Reason    string       `json:"reason,omitempty"`
	Selected  string       `json:"selected,omitempty"`
	Targets   []string     `json:"targets,omitempty"`
}

// Snapshot returns the current state. Board rows start at rank 8; empty
// squares are "".
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		FEN:       s.pos.FEN(),
		Turn:      colorName(s.pos.SideToMove),
		Mode:      s.cfg.Mode.String(),
		Human:     colorName(s.cfg.Human),
		History:   s.History(),
		Check:     s.pos.InCheck(s.pos.SideToMove),
		Checkmate: s.pos.Checkmate,
		Stalemate: s.pos.Stalemate,
		Result:    s.result.String(),
		Reason:    s.text,
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := s.pos.Board[row][col]; !piece.IsEmpty() {
				snap.Board[row][col] = piece.String()
			}
		}
	}

	if last := s.pos.LastMove(); !last.IsNone() {
		snap.LastMove = last.Notation()
	}
	if s.selected != board.NoSquare {
		snap.Selected = s.selected.String()
		for _, m := range s.targets {
			snap.Targets = append(snap.Targets, m.To.String())
		}
	}
	return snap
}

func colorName(c board.Color) string {
	if c == board.Black {
		return "black"
	}
	return "white"
}
