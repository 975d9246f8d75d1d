// Package storage provides persistent storage for user preferences and game
// statistics. Positions and game records are never stored.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessai"

// DataDirEnv overrides the platform data directory when set.
const DataDirEnv = "CHESSAI_DATA_DIR"

// GetDataDir returns the platform-specific data directory for the application.
// - $CHESSAI_DATA_DIR when set
// - macOS: ~/Library/Application Support/chessai/
// - Linux: $XDG_DATA_HOME/chessai/ or ~/.local/share/chessai/
// - Windows: %APPDATA%/chessai/
func GetDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return ensureDir(dir)
	}

	baseDir, err := platformBaseDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(baseDir, appName))
}

func platformBaseDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "Library", "Application Support"), nil

	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, "AppData", "Roaming"), nil

	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, ".local", "share"), nil
	}
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return DatabaseDir(dataDir)
}

// DatabaseDir returns (and creates) the database directory under dataDir.
func DatabaseDir(dataDir string) (string, error) {
	dbDir, err := ensureDir(filepath.Join(dataDir, "db"))
	if err != nil {
		return "", err
	}
	log.Printf("[Storage] Database directory: %s", dbDir)
	return dbDir, nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
