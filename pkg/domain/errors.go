package domain

import (
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run ID cannot be found in the journal.
var ErrRunNotFound = errors.New("run not found")

// ErrEmptyCommand is returned when a raw command is blank.
var ErrEmptyCommand = errors.New("empty command")

// ErrMissingField is returned when a request lacks a required field.
var ErrMissingField = errors.New("missing required field")

// ErrContactNotFound is returned when no contact matches a query.
var ErrContactNotFound = errors.New("contact not found")

// ErrUnknownAction is wrapped by step failures for undeclared action kinds.
var ErrUnknownAction = errors.New("unknown action")

// StepFailure describes why a step could not be carried out.
type StepFailure struct {
	Action ActionKind
	Reason string
	Err    error
}

func (f *StepFailure) Error() string {
	switch {
	case f.Reason != "":
		return f.Reason
	case f.Err != nil:
		return f.Err.Error()
	}
	return fmt.Sprintf("%s failed", f.Action)
}

func (f *StepFailure) Unwrap() error {
	return f.Err
}

// UnknownAction is the failure recorded for a kind outside the declared set.
func UnknownAction(kind ActionKind) *StepFailure {
	return &StepFailure{Action: kind, Reason: "Unknown action: " + string(kind), Err: ErrUnknownAction}
}

// Failf builds a StepFailure with a formatted reason.
func Failf(action ActionKind, format string, args ...any) *StepFailure {
	return &StepFailure{Action: action, Reason: fmt.Sprintf(format, args...)}
}

// CommandError is returned by handlers when a bridge command reported failure.
type CommandError struct {
	Command string
	Result  CommandResult
}

func (e *CommandError) Error() string {
	if e.Result.Error != "" {
		return e.Result.Error
	}
	return fmt.Sprintf("command failed: %s", e.Command)
}
