package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/adbpilot/internal/logging"
	"github.com/aretw0/adbpilot/pkg/domain"
)

// Channel implements ports.CommandChannel by running the adb binary.
type Channel struct {
	binary  string
	serial  string
	timeout time.Duration
	baseDir string
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the channel.
type Option func(*Channel)

// WithBinary sets the bridge executable (default "adb").
func WithBinary(path string) Option {
	return func(c *Channel) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithSerial targets a specific device ("-s <serial>").
func WithSerial(serial string) Option {
	return func(c *Channel) {
		c.serial = serial
	}
}

// WithTimeout bounds every invocation (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBaseDir sets the working directory for the bridge process.
// Relative paths in "pull" commands resolve against it.
func WithBaseDir(dir string) Option {
	return func(c *Channel) {
		c.baseDir = dir
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Channel) {
		c.hooks = hooks
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChannel creates a new adb command channel.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		binary:  "adb",
		timeout: domain.DefaultCommandTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Serial returns the targeted device serial ("" means the bridge default).
func (c *Channel) Serial() string {
	return c.serial
}

// Run executes `adb [-s serial] <command>` and captures its output.
// It never returns an error: failures are reported in the result.
func (c *Channel) Run(ctx context.Context, command string) domain.CommandResult {
	start := time.Now()
	res, timedOut := c.run(ctx, command)
	elapsed := time.Since(start)

	if res.Success {
		c.logger.DebugContext(ctx, "adb command finished", "command", command, "duration", elapsed)
	} else {
		c.logger.WarnContext(ctx, "adb command failed", "command", command, "duration", elapsed, "error", res.Error)
	}

	if c.hooks.OnCommand != nil {
		c.hooks.OnCommand(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventCommand},
			Command:   command,
			Duration:  elapsed,
			Success:   res.Success,
			TimedOut:  timedOut,
		})
	}
	return res
}

func (c *Channel) run(ctx context.Context, command string) (domain.CommandResult, bool) {
	args, err := Split(command)
	if err != nil {
		return domain.Failure(err.Error()), false
	}
	if len(args) == 0 {
		return domain.Failure(domain.ErrEmptyCommand.Error()), false
	}
	if c.serial != "" {
		args = append([]string{"-s", c.serial}, args...)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = c.baseDir
	// Do not wait forever on children that keep the pipes open after a kill.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.CommandResult{
			Success: false,
			Output:  stdout.String(),
			Error:   domain.TimeoutMessage,
		}, true
	}

	res := domain.CommandResult{
		Output: stdout.String(),
		Error:  stderr.String(),
	}
	if runErr != nil {
		res.Success = false
		if strings.TrimSpace(res.Error) == "" {
			res.Error = fmt.Sprintf("execution failed: %v", runErr)
		}
		return res, false
	}

	res.Success = true
	return res, false
}
