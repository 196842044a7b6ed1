package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
)

type prefixRule struct {
	prefix string
	result domain.CommandResult
}

// Channel is a ports.CommandChannel that never touches a device.
// It records every command and answers from a script: exact matches first, then the
// longest matching prefix, then the default result (success with empty output).
type Channel struct {
	mu       sync.Mutex
	commands []string
	exact    map[string]domain.CommandResult
	prefixes []prefixRule
	fallback domain.CommandResult
}

var _ ports.CommandChannel = (*Channel)(nil)

// NewChannel creates a channel where every command succeeds.
func NewChannel() *Channel {
	return &Channel{
		exact:    make(map[string]domain.CommandResult),
		fallback: domain.CommandResult{Success: true},
	}
}

// On scripts the result for an exact command.
func (c *Channel) On(command string, result domain.CommandResult) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exact[command] = result
	return c
}

// OnPrefix scripts the result for every command starting with prefix.
func (c *Channel) OnPrefix(prefix string, result domain.CommandResult) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefixRule{prefix: prefix, result: result})
	return c
}

// Default sets the result for unscripted commands.
func (c *Channel) Default(result domain.CommandResult) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = result
	return c
}

// Run records command and returns its scripted result.
func (c *Channel) Run(_ context.Context, command string) domain.CommandResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.commands = append(c.commands, command)
	if res, ok := c.exact[command]; ok {
		return res
	}
	best := -1
	var res domain.CommandResult
	for _, rule := range c.prefixes {
		if strings.HasPrefix(command, rule.prefix) && len(rule.prefix) > best {
			best = len(rule.prefix)
			res = rule.result
		}
	}
	if best >= 0 {
		return res
	}
	return c.fallback
}

// Commands returns the commands received so far, in order.
func (c *Channel) Commands() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.commands...)
}

// Reset forgets recorded commands. Scripted results are kept.
func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = nil
}
