package xdg

import (
	"os"
	"path/filepath"
)

// Dirs resolves XDG Base Directory Specification paths. Only the
// directories the grader actually stores things in are exposed.
type Dirs struct {
	cacheHome string
	stateHome string
}

// NewDirs reads the XDG environment variables and falls back to the
// spec defaults under the user's home directory.
func NewDirs() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp"
		}
	}

	d := &Dirs{}

	d.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if d.cacheHome == "" {
		d.cacheHome = filepath.Join(homeDir, ".cache")
	}

	d.stateHome = os.Getenv("XDG_STATE_HOME")
	if d.stateHome == "" {
		d.stateHome = filepath.Join(homeDir, ".local", "state")
	}

	return d
}

// CacheHome returns the base directory for user-specific cached data.
func (d *Dirs) CacheHome() string {
	return d.cacheHome
}

// StateHome returns the base directory for user-specific state files.
func (d *Dirs) StateHome() string {
	return d.stateHome
}

// AppCacheDir returns the application-specific cache directory.
func (d *Dirs) AppCacheDir(appName string) string {
	return filepath.Join(d.cacheHome, appName)
}

// AppStateDir returns the application-specific state directory.
func (d *Dirs) AppStateDir(appName string) string {
	return filepath.Join(d.stateHome, appName)
}

// EnsureDir creates the directory with appropriate permissions if it
// doesn't exist.
func (d *Dirs) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
