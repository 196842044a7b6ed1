package adb

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/aretw0/adbpilot/pkg/domain"
)

// Config describes how to reach the bridge.
type Config struct {
	Binary  string        `yaml:"binary" json:"binary"`
	Serial  string        `yaml:"serial" json:"serial"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	WorkDir string        `yaml:"workdir" json:"workdir"`
}

// DefaultConfig returns the bridge defaults: "adb" from PATH, 30s per command.
func DefaultConfig() Config {
	return Config{
		Binary:  "adb",
		Timeout: domain.DefaultCommandTimeout,
	}
}

// Options converts the config into channel options.
func (c Config) Options() []Option {
	return []Option{
		WithBinary(c.Binary),
		WithSerial(c.Serial),
		WithTimeout(c.Timeout),
		WithBaseDir(c.WorkDir),
	}
}

// LookPath resolves the configured binary, reporting a helpful error when adb is not installed.
func (c Config) LookPath() (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = "adb"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("adb binary %q not found (install Android platform-tools or set adb.binary): %w", bin, err)
	}
	return path, nil
}
