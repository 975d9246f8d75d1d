// Package game runs one chess game: human input through the click model or
// square pairs, computer replies from the engine, takebacks and the result.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/storage"
)

// Errors returned by Session operations.
var (
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNoPiece       = errors.New("no piece of the side to move on that square")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("no move to take back")
)

// Result is the outcome of a game.
type Result int

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns the PGN result token.
func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// ResultRecorder receives finished human-vs-computer games.
// *storage.Storage implements it.
type ResultRecorder interface {
	RecordGame(result storage.GameResult) error
}

// Config describes a new game.
type Config struct {
	Mode       storage.GameMode
	Human      board.Color
	Difficulty engine.Difficulty
	EvalMode   engine.EvalMode
	Parallel   bool
}

// DefaultConfig is a human-vs-computer game with the human as White.
func DefaultConfig() Config {
	return Config{
		Mode:       storage.ModeHumanVsComputer,
		Human:      board.White,
		Difficulty: engine.Medium,
	}
}

// ConfigFromPreferences builds a Config from stored preferences.
func ConfigFromPreferences(prefs *storage.UserPreferences) Config {
	cfg := DefaultConfig()
	cfg.Difficulty = prefs.Difficulty
	cfg.EvalMode = prefs.EvalMode
	cfg.Parallel = prefs.Parallel
	if prefs.PlayerColor == storage.ColorBlack {
		cfg.Human = board.Black
	}
	return cfg
}

// Session is one game. It is not safe for concurrent use.
type Session struct {
	pos  *board.Position
	eng  *engine.Engine
	cfg  Config
	text string // result description

	// Click model state
	selected board.Square
	targets  []board.Move

	result   Result
	started  time.Time
	recorder ResultRecorder
	recorded bool
}

// NewSession starts a game from the standard starting position.
func NewSession(cfg Config) *Session {
	return NewSessionFromPosition(board.NewPosition(), cfg)
}

// NewSessionFromPosition starts a game from pos, which the session takes
// ownership of.
func NewSessionFromPosition(pos *board.Position, cfg Config) *Session {
	eng := engine.NewEngine()
	eng.SetDifficulty(cfg.Difficulty)
	eng.SetEvalMode(cfg.EvalMode)
	eng.SetParallel(cfg.Parallel, 0)

	s := &Session{
		pos:      pos,
		eng:      eng,
		cfg:      cfg,
		selected: board.NoSquare,
		started:  time.Now(),
	}
	s.pos.UpdateStatus()
	s.checkGameEnd()
	return s
}

// SetRecorder sets where finished games are reported.
func (s *Session) SetRecorder(r ResultRecorder) {
	s.recorder = r
}

// Engine returns the session's engine for further configuration.
func (s *Session) Engine() *engine.Engine {
	return s.eng
}

// Config returns the game configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Position returns a copy of the current position.
func (s *Session) Position() *board.Position {
	return s.pos.Copy()
}

// History returns the moves played so far in notation.
func (s *Session) History() []string {
	history := make([]string, len(s.pos.History))
	for i, m := range s.pos.History {
		history[i] = m.Notation()
	}
	return history
}

// LastMove returns the most recent move, or NoMove.
func (s *Session) LastMove() board.Move {
	return s.pos.LastMove()
}

// Result returns the game result.
func (s *Session) Result() Result {
	return s.result
}

// ResultText describes how the game ended, empty while it is running.
func (s *Session) ResultText() string {
	return s.text
}

// Over reports whether the game has ended.
func (s *Session) Over() bool {
	return s.result != Ongoing
}

// Turn returns the side to move.
func (s *Session) Turn() board.Color {
	return s.pos.SideToMove
}

// EngineToMove reports whether the computer should move next.
func (s *Session) EngineToMove() bool {
	return s.cfg.Mode == storage.ModeHumanVsComputer && !s.Over() && s.pos.SideToMove != s.cfg.Human
}

// humanToMove reports whether input from the human is accepted.
func (s *Session) humanToMove() bool {
	return s.cfg.Mode == storage.ModeHumanVsHuman || s.pos.SideToMove == s.cfg.Human
}

// Play applies a human move between two squares. The move must be legal.
func (s *Session) Play(from, to board.Square) (board.Move, error) {
	if s.Over() {
		return board.NoMove, ErrGameOver
	}
	if !s.humanToMove() {
		return board.NoMove, ErrNotYourTurn
	}
	return s.play(from, to)
}

// PlayNotation applies a human move given as "e2e4". A promotion suffix is
// accepted; pawns always promote to a queen.
func (s *Session) PlayNotation(notation string) (board.Move, error) {
	if len(notation) != 4 && len(notation) != 5 {
		return board.NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, notation)
	}
	from, err := board.ParseSquare(notation[0:2])
	if err != nil {
		return board.NoMove, err
	}
	to, err := board.ParseSquare(notation[2:4])
	if err != nil {
		return board.NoMove, err
	}
	return s.Play(from, to)
}

func (s *Session) play(from, to board.Square) (board.Move, error) {
	if !from.OnBoard() || !to.OnBoard() {
		return board.NoMove, board.ErrOffBoard
	}

	piece := s.pos.PieceAt(from)
	if piece.IsEmpty() || piece.Color() != s.pos.SideToMove {
		return board.NoMove, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}

	m, err := s.pos.NewMove(from, to)
	if err != nil {
		return board.NoMove, err
	}

	legal, ok := s.findMove(m)
	if !ok {
		return board.NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, m.Notation())
	}

	s.makeMove(legal)
	return legal, nil
}

// findMove looks m up in the legal move list.
func (s *Session) findMove(m board.Move) (board.Move, bool) {
	for _, legal := range s.pos.LegalMoves() {
		if legal.Equal(m) {
			return legal, true
		}
	}
	return board.NoMove, false
}

// ComputerMove lets the engine play for the side to move. The engine
// chooses among the legal moves.
func (s *Session) ComputerMove(ctx context.Context) (board.Move, error) {
	if s.Over() {
		return board.NoMove, ErrGameOver
	}

	start := time.Now()
	m, err := s.eng.BestMoveFrom(ctx, s.pos, s.pos.LegalMoves())
	if err != nil {
		return board.NoMove, err
	}
	if m.IsNone() {
		return board.NoMove, ErrGameOver
	}

	log.Printf("[Game] Computer plays %s (depth %d, %v)", m, s.eng.Depth(), time.Since(start).Round(time.Millisecond))
	s.makeMove(m)
	return m, nil
}

// Respond plays the computer's move if it is the computer's turn.
func (s *Session) Respond(ctx context.Context) (board.Move, error) {
	if !s.EngineToMove() {
		return board.NoMove, nil
	}
	return s.ComputerMove(ctx)
}

func (s *Session) makeMove(m board.Move) {
	s.pos.Apply(m)
	s.pos.UpdateStatus()
	s.clearSelection()
	s.checkGameEnd()
}

// Takeback undoes the last move. Against the computer it also undoes the
// computer's reply so the human is to move again; if the only move played
// is the computer's opening there is nothing of the human's to take back.
func (s *Session) Takeback() error {
	undo := 1
	if s.cfg.Mode == storage.ModeHumanVsComputer && s.pos.SideToMove == s.cfg.Human {
		undo = 2
	}
	if len(s.pos.History) < undo {
		return ErrNothingToUndo
	}

	for i := 0; i < undo; i++ {
		s.pos.Undo()
	}

	s.clearSelection()
	s.result = Ongoing
	s.text = ""
	s.checkGameEnd()
	return nil
}

func (s *Session) checkGameEnd() {
	switch {
	case s.pos.Checkmate:
		if s.pos.SideToMove == board.White {
			s.result = BlackWins
			s.text = "Black wins by checkmate"
		} else {
			s.result = WhiteWins
			s.text = "White wins by checkmate"
		}
	case s.pos.Stalemate:
		s.result = Draw
		s.text = "Draw by stalemate"
	default:
		return
	}

	log.Printf("[Game] %s (%s)", s.text, s.result)
	s.record()
}

// record reports a finished human-vs-computer game once.
func (s *Session) record() {
	if s.recorder == nil || s.recorded || s.cfg.Mode != storage.ModeHumanVsComputer {
		return
	}
	s.recorded = true

	winner := board.White
	if s.result == BlackWins {
		winner = board.Black
	}
	result := storage.GameResult{
		Won:        s.result != Draw && winner == s.cfg.Human,
		Draw:       s.result == Draw,
		Mode:       s.cfg.Mode,
		Difficulty: s.cfg.Difficulty,
		EvalMode:   s.cfg.EvalMode,
		Duration:   time.Since(s.started),
		Moves:      len(s.pos.History),
	}
	if err := s.recorder.RecordGame(result); err != nil {
		log.Printf("[Game] Failed to record result: %v", err)
	}
}
