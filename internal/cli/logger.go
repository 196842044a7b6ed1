package cli

import (
	"io"
	"log/slog"

	"github.com/aretw0/adbpilot/internal/config"
	"github.com/aretw0/adbpilot/internal/logging"
)

// NewLogger configures the application logger from cfg.
// Logs go to w (normally Stderr) so they never mix with reports or JSON-RPC on Stdout.
func NewLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, cfg.Format), nil
}
