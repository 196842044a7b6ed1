package ports

import (
	"context"

	"github.com/aretw0/adbpilot/pkg/domain"
)

// CommandChannel executes a single device bridge command.
// Implementations never return Go errors: every failure (timeout, non-zero exit, missing
// binary) is reported as a CommandResult with Success=false.
type CommandChannel interface {
	Run(ctx context.Context, command string) domain.CommandResult
}

// CommandFunc adapts a function to CommandChannel.
type CommandFunc func(ctx context.Context, command string) domain.CommandResult

// Run calls f(ctx, command).
func (f CommandFunc) Run(ctx context.Context, command string) domain.CommandResult {
	return f(ctx, command)
}
