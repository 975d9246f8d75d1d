package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessai/internal/game"
	"github.com/hailam/chessai/internal/server"
	"github.com/hailam/chessai/internal/storage"
)

var (
	addr    = flag.String("addr", ":8080", "listen address")
	dataDir = flag.String("data", "", "data directory (default: platform data dir)")
	origins = flag.String("origins", "*", "comma-separated CORS origins")
	noStore = flag.Bool("nostore", false, "do not record finished games")
)

func main() {
	flag.Parse()

	cfg := server.Config{
		AllowOrigins: *origins,
		Defaults:     game.DefaultConfig(),
	}

	if !*noStore {
		store, err := openStorage(*dataDir)
		if err != nil {
			log.Fatalf("[Server] Failed to open storage: %v", err)
		}
		defer store.Close()

		if prefs, err := store.LoadPreferences(); err == nil {
			cfg.Defaults = game.ConfigFromPreferences(prefs)
		} else {
			log.Printf("[Server] Using default preferences: %v", err)
		}
		cfg.Recorder = store
	}

	srv := server.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(*addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(5 * time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[Server] %v", err)
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	dbDir, err := storage.DatabaseDir(dir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dbDir)
}
