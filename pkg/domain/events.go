package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCommand   EventType = "command"
	EventStepStart EventType = "step_start"
	EventStepEnd   EventType = "step_end"
	EventPlanEnd   EventType = "plan_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// CommandEvent reports one bridge invocation.
type CommandEvent struct {
	EventBase
	Command  string        `json:"command"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	TimedOut bool          `json:"timed_out,omitempty"`
}

// StepEvent reports entry into or exit from a plan step.
type StepEvent struct {
	EventBase
	Index    int           `json:"index"`
	Action   ActionKind    `json:"action"`
	Success  bool          `json:"success,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// PlanEvent reports a finished plan.
type PlanEvent struct {
	EventBase
	Steps    int           `json:"steps"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnCommand   func(context.Context, *CommandEvent)
	OnStepStart func(context.Context, *StepEvent)
	OnStepEnd   func(context.Context, *StepEvent)
	OnPlanEnd   func(context.Context, *PlanEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCommand:   chain(h.OnCommand, other.OnCommand),
		OnStepStart: chain(h.OnStepStart, other.OnStepStart),
		OnStepEnd:   chain(h.OnStepEnd, other.OnStepEnd),
		OnPlanEnd:   chain(h.OnPlanEnd, other.OnPlanEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
