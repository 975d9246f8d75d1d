package server

import (
	"encoding/json"

	"github.com/hailam/chessai/internal/game"
)

// MessageType represents the kinds of WebSocket messages.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeClick     MessageType = "click"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is a WebSocket message.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CreateRequest is the body of POST /api/game.
type CreateRequest struct {
	Color      string `json:"color"`
	Difficulty string `json:"difficulty"`
	Mode       string `json:"mode"`
	EvalMode   string `json:"eval_mode"`
}

// MoveRequest is a move between two squares in algebraic notation.
type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ClickRequest is a click on a board cell, row 0 = rank 8.
type ClickRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ClickResponse reports the outcome of a click together with the state.
type ClickResponse struct {
	Selected string        `json:"selected,omitempty"`
	Targets  []string      `json:"targets"`
	Move     string        `json:"move,omitempty"`
	State    game.Snapshot `json:"state"`
}
