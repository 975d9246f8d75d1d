package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hailam/chessai/internal/engine"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != engine.Medium {
			t.Errorf("Expected medium difficulty")
		}
		if prefs.EvalMode != engine.EvalKnightTables {
			t.Errorf("Expected knight-table eval mode")
		}
		if prefs.Parallel {
			t.Errorf("Expected sequential search by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Difficulty != engine.Medium {
		t.Errorf("missing preferences should load defaults, got %+v", prefs)
	}

	prefs.Username = "alice"
	prefs.Difficulty = engine.Hard
	prefs.EvalMode = engine.EvalAllTables
	prefs.PlayerColor = ColorBlack
	prefs.Parallel = true
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Username != "alice" || got.Difficulty != engine.Hard || got.EvalMode != engine.EvalAllTables ||
		got.PlayerColor != ColorBlack || !got.Parallel {
		t.Errorf("loaded %+v", got)
	}

	eng := engine.NewEngine()
	got.Apply(eng)
	if eng.Depth() != 4 || eng.EvalMode() != engine.EvalAllTables || !eng.Parallel() {
		t.Errorf("Apply: depth %d mode %s parallel %v", eng.Depth(), eng.EvalMode(), eng.Parallel())
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v; want true", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatalf("MarkFirstLaunchComplete: %v", err)
	}
	first, err = s.IsFirstLaunch()
	if err != nil || first {
		t.Errorf("IsFirstLaunch = %v, %v; want false", first, err)
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	results := []GameResult{
		{Won: true, Mode: ModeHumanVsComputer, Difficulty: engine.Easy, Duration: time.Minute, Moves: 40},
		{Won: true, Mode: ModeHumanVsComputer, Difficulty: engine.Hard, Duration: time.Minute, Moves: 20},
		{Draw: true, Mode: ModeHumanVsComputer, Difficulty: engine.Hard, Moves: 60},
		{Mode: ModeHumanVsComputer, Difficulty: engine.Medium, Moves: 10},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}

	if stats.GamesPlayed != 4 || stats.Wins != 2 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("counts: %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks: longest %d current %d", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByMode["hvc"] != 2 || stats.WinsByDiff["easy"] != 1 || stats.WinsByDiff["hard"] != 1 {
		t.Errorf("breakdown: %v %v", stats.WinsByMode, stats.WinsByDiff)
	}
	if stats.TotalPlayTime != 2*time.Minute || stats.TotalMoves != 130 {
		t.Errorf("totals: %v %d", stats.TotalPlayTime, stats.TotalMoves)
	}
	if stats.GetWinRate() != 50 {
		t.Errorf("win rate = %.2f, want 50", stats.GetWinRate())
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		t.Fatalf("DatabaseDir: %v", err)
	}
	if dbDir != filepath.Join(dir, "db") {
		t.Errorf("DatabaseDir = %s", dbDir)
	}

	s, err := Open(dbDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordGame(GameResult{Won: true}); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}
	s.Close()

	// Reopen and check the data survived.
	s, err = Open(dbDir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 {
		t.Errorf("stats after reopen: %+v", stats)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(DataDirEnv, filepath.Join(t.TempDir(), "data"))

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != os.Getenv(DataDirEnv) {
		t.Errorf("GetDataDir = %s, want %s", dataDir, os.Getenv(DataDirEnv))
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestParseGameMode(t *testing.T) {
	for _, m := range []GameMode{ModeHumanVsHuman, ModeHumanVsComputer} {
		got, ok := ParseGameMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseGameMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseGameMode("cvc"); ok {
		t.Error("ParseGameMode accepted cvc")
	}
}
