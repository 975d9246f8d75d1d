// Package server exposes games against the engine over HTTP and WebSocket.
package server

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/game"
	"github.com/hailam/chessai/internal/storage"
)

// Config configures the server.
type Config struct {
	// AllowOrigins is the comma-separated CORS origin list.
	AllowOrigins string
	// Recorder receives finished games; nil disables recording.
	Recorder game.ResultRecorder
	// Defaults fill in fields missing from create requests.
	Defaults game.Config
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	manager  *Manager
	defaults game.Config
}

// New creates a server with its routes registered.
func New(cfg Config) *Server {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.Defaults == (game.Config{}) {
		cfg.Defaults = game.DefaultConfig()
	}

	s := &Server{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		manager:  NewManager(cfg.Recorder),
		defaults: cfg.Defaults,
	}

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	s.app.Use(requestLogger())

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Post("/game", s.createGame)

	games := api.Group("/game")
	games.Get("/:gameId", s.getGame)
	games.Post("/:gameId/move", s.move)
	games.Post("/:gameId/click", s.click)
	games.Post("/:gameId/undo", s.undo)
	games.Delete("/:gameId", s.deleteGame)

	s.app.Get("/ws/game/:gameId", s.upgrade, websocket.New(s.handleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
}

// App returns the fiber application, for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

// Manager returns the game manager.
func (s *Server) Manager() *Manager {
	return s.manager
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting up to timeout for open requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	log.Printf("[Server] Shutting down")
	return s.app.ShutdownWithTimeout(timeout)
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Printf("[Server] %s %s %d %v", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start).Round(time.Microsecond))
		return err
	}
}

// configFromRequest fills a game config from a create request.
func (s *Server) configFromRequest(req CreateRequest) (game.Config, error) {
	cfg := s.defaults

	switch strings.ToLower(req.Color) {
	case "":
	case "white":
		cfg.Human = board.White
	case "black":
		cfg.Human = board.Black
	default:
		return cfg, errors.New("color must be white or black")
	}

	if req.Difficulty != "" {
		d, ok := engine.ParseDifficulty(strings.ToLower(req.Difficulty))
		if !ok {
			return cfg, errors.New("difficulty must be easy, medium or hard")
		}
		cfg.Difficulty = d
	}

	if req.Mode != "" {
		mode, ok := storage.ParseGameMode(strings.ToLower(req.Mode))
		if !ok {
			return cfg, errors.New("mode must be hvc or hvh")
		}
		cfg.Mode = mode
	}

	if req.EvalMode != "" {
		mode, ok := engine.ParseEvalMode(strings.ToLower(req.EvalMode))
		if !ok {
			return cfg, errors.New("eval_mode must be knight or all")
		}
		cfg.EvalMode = mode
	}

	return cfg, nil
}

func (s *Server) createGame(c *fiber.Ctx) error {
	var req CreateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	cfg, err := s.configFromRequest(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	g, err := s.manager.Create(c.UserContext(), cfg)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"game_id": g.ID,
		"state":   g.State(),
	})
}

func (s *Server) getGame(c *fiber.Ctx) error {
	g, err := s.manager.Get(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(g.State())
}

func (s *Server) move(c *fiber.Ctx) error {
	g, err := s.manager.Get(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	state, err := g.Move(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (s *Server) click(c *fiber.Ctx) error {
	g, err := s.manager.Get(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	var req ClickRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := g.Click(c.UserContext(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) undo(c *fiber.Ctx) error {
	g, err := s.manager.Get(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}

	state, err := g.Undo()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (s *Server) deleteGame(c *fiber.Ctx) error {
	if err := s.manager.Remove(c.Params("gameId")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// errorResponse maps domain errors to HTTP status codes.
func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("[Server] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNothingToUndo):
		return fiber.StatusConflict
	case errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrNoPiece),
		errors.Is(err, board.ErrOffBoard),
		errors.Is(err, board.ErrInvalidSquare):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
