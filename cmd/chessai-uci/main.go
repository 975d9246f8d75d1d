package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/storage"
	"github.com/hailam/chessai/internal/uci"
)

var (
	depth      = flag.Int("depth", 0, "search depth (0 uses the difficulty default)")
	parallel   = flag.Bool("parallel", false, "search root moves in parallel")
	evalMode   = flag.String("eval", "", "evaluation tables: knight or all")
	usePrefs   = flag.Bool("prefs", false, "apply the saved user preferences")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	eng := engine.NewEngine()

	if *usePrefs {
		if err := applyPreferences(eng); err != nil {
			log.Printf("Warning: preferences not loaded: %v", err)
		}
	}
	if *depth > 0 {
		eng.SetDepth(*depth)
	}
	if *parallel {
		eng.SetParallel(true, 0)
	}
	if *evalMode != "" {
		mode, ok := engine.ParseEvalMode(*evalMode)
		if !ok {
			log.Fatalf("unknown evaluation mode %q", *evalMode)
		}
		eng.SetEvalMode(mode)
	}

	protocol := uci.New(eng, os.Stdin, os.Stdout)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		if err := protocol.StartProfile(profilePath); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
	}

	if err := protocol.Run(); err != nil {
		log.Fatal(err)
	}
}

// applyPreferences configures the engine from the stored preferences.
// The database is closed again so a running GUI can still open it.
func applyPreferences(eng *engine.Engine) error {
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return err
	}
	prefs.Apply(eng)
	log.Printf("[UCI] Using preferences: %s difficulty, %s tables", prefs.Difficulty, prefs.EvalMode)
	return nil
}
