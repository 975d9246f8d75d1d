package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/game"
)

// ErrGameNotFound is returned for unknown game ids.
var ErrGameNotFound = errors.New("game not found")

// conn is the part of a WebSocket connection used for pushes.
type conn interface {
	WriteJSON(v any) error
}

// Game is a session shared by HTTP handlers and WebSocket connections.
type Game struct {
	ID string

	mu      sync.Mutex
	session *game.Session
	conns   map[conn]struct{}
}

// Manager holds the running games.
type Manager struct {
	games    map[string]*Game
	recorder game.ResultRecorder
	mu       sync.RWMutex
}

// NewManager creates a manager. recorder may be nil.
func NewManager(recorder game.ResultRecorder) *Manager {
	return &Manager{
		games:    make(map[string]*Game),
		recorder: recorder,
	}
}

// Create starts a new game. If the computer has the first move it is
// played before Create returns.
func (m *Manager) Create(ctx context.Context, cfg game.Config) (*Game, error) {
	session := game.NewSession(cfg)
	if m.recorder != nil {
		session.SetRecorder(m.recorder)
	}

	if _, err := session.Respond(ctx); err != nil {
		return nil, fmt.Errorf("opening move: %w", err)
	}

	g := &Game{
		ID:      uuid.New().String(),
		session: session,
		conns:   make(map[conn]struct{}),
	}

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()

	log.Printf("[Server] Created game %s (%s, human %s)", g.ID, cfg.Mode, cfg.Human)
	return g, nil
}

// Get returns the game with the given id.
func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Remove deletes a game.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(m.games, id)
	return nil
}

// Count returns the number of running games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// State returns the current snapshot.
func (g *Game) State() game.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Snapshot()
}

// Move plays a human move and, against the computer, the reply.
func (g *Game) Move(ctx context.Context, req MoveRequest) (game.Snapshot, error) {
	from, err := board.ParseSquare(req.From)
	if err != nil {
		return game.Snapshot{}, err
	}
	to, err := board.ParseSquare(req.To)
	if err != nil {
		return game.Snapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.session.Play(from, to); err != nil {
		return game.Snapshot{}, err
	}
	return g.respond(ctx)
}

// Click applies the click model and, if a move was played, the reply.
func (g *Game) Click(ctx context.Context, req ClickRequest) (ClickResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	res, err := g.session.Click(req.Row, req.Col)
	if err != nil {
		return ClickResponse{}, err
	}

	resp := ClickResponse{Targets: make([]string, 0, len(res.Targets))}
	if res.Selected != board.NoSquare {
		resp.Selected = res.Selected.String()
	}
	for _, sq := range res.Targets {
		resp.Targets = append(resp.Targets, sq.String())
	}

	if !res.Moved() {
		resp.State = g.session.Snapshot()
		g.broadcast(resp.State)
		return resp, nil
	}

	resp.Move = res.Move.Notation()
	resp.State, err = g.respond(ctx)
	return resp, err
}

// Undo takes back the last move (and the computer's reply).
func (g *Game) Undo() (game.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.session.Takeback(); err != nil {
		return game.Snapshot{}, err
	}
	snap := g.session.Snapshot()
	g.broadcast(snap)
	return snap, nil
}

// respond lets the computer move if it is its turn and pushes the new
// state. Must be called with g.mu held.
func (g *Game) respond(ctx context.Context) (game.Snapshot, error) {
	if _, err := g.session.Respond(ctx); err != nil {
		return game.Snapshot{}, err
	}
	snap := g.session.Snapshot()
	g.broadcast(snap)
	return snap, nil
}

// Attach registers a connection and sends it the current state.
func (g *Game) Attach(c conn) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.conns[c] = struct{}{}
	if err := send(c, MessageTypeGameState, g.session.Snapshot()); err != nil {
		log.Printf("[Server] Failed to send state to new connection in game %s: %v", g.ID, err)
		delete(g.conns, c)
	}
}

// Detach removes a connection.
func (g *Game) Detach(c conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, c)
}

// broadcast pushes the state to every connection, dropping the ones that
// fail. Must be called with g.mu held.
func (g *Game) broadcast(snap game.Snapshot) {
	for c := range g.conns {
		if err := send(c, MessageTypeGameState, snap); err != nil {
			log.Printf("[Server] Failed to push state in game %s: %v", g.ID, err)
			delete(g.conns, c)
		}
	}
}

func send(c conn, t MessageType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.WriteJSON(Message{Type: t, Payload: json.RawMessage(data)})
}
