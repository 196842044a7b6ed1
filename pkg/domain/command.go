package domain

import "time"

// CommandResult is the outcome of a single device bridge invocation.
type CommandResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error"`
}

// DefaultCommandTimeout bounds a single bridge invocation.
const DefaultCommandTimeout = 30 * time.Second

// TimeoutMessage is reported when a command exceeds its bounded wait.
const TimeoutMessage = "Command timed out"

// Failure builds a failed CommandResult carrying msg.
func Failure(msg string) CommandResult {
	return CommandResult{Success: false, Error: msg}
}
