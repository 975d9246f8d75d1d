package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// upgrade accepts only WebSocket upgrade requests for existing games and
// passes the game to the connection handler.
func (s *Server) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	g, err := s.manager.Get(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	c.Locals("game", g)
	return c.Next()
}

// handleConnection pushes state changes to the client and applies the
// moves it sends until the connection closes.
func (s *Server) handleConnection(c *websocket.Conn) {
	g, ok := c.Locals("game").(*Game)
	if !ok {
		c.Close()
		return
	}

	g.Attach(c)
	defer g.Detach(c)

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Server] Read error in game %s: %v", g.ID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[Server] Bad message in game %s: %v", g.ID, err)
			continue
		}

		if err := s.handleMessage(context.Background(), g, msg); err != nil {
			g.sendError(c, err)
		}
	}
}

// handleMessage applies one client message. State changes are pushed to
// every connection by the game itself.
func (s *Server) handleMessage(ctx context.Context, g *Game, msg Message) error {
	switch msg.Type {
	case MessageTypeMove:
		var req MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		_, err := g.Move(ctx, req)
		return err

	case MessageTypeClick:
		var req ClickRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		_, err := g.Click(ctx, req)
		return err

	case MessageTypeUndo:
		_, err := g.Undo()
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (g *Game) sendError(c conn, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if werr := send(c, MessageTypeError, map[string]string{"error": err.Error()}); werr != nil {
		log.Printf("[Server] Failed to send error in game %s: %v", g.ID, werr)
	}
}
