package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".jarvis"

// Paths holds resolved filesystem paths for Jarvis data.
type Paths struct {
	Base   string // ~/.jarvis
	Config string // ~/.jarvis/config.yaml
	DB     string // ~/.jarvis/jarvis.db
	Logs   string // ~/.jarvis/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If JARVIS_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("JARVIS_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		DB:     filepath.Join(base, "jarvis.db"),
		Logs:   filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
