package logging

import (
	"os"
	"path/filepath"
)

// LogFileName is the name of the active log file.
const LogFileName = "catcrawler.log"

// LogDir returns the log directory under dataDir.
// An empty dataDir falls back to ~/.catcrawler, or the temp directory when the
// home directory is unavailable.
func LogDir(dataDir string) string {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), ".catcrawler", "logs")
		}
		dataDir = filepath.Join(home, ".catcrawler")
	}
	return filepath.Join(dataDir, "logs")
}

// LogPath returns the active log file path under dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(LogDir(dataDir), LogFileName)
}
