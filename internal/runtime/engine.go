package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/adbpilot/internal/logging"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
)

// Executor turns a plan into a timed series of bridge commands.
// Steps run strictly in order on the calling goroutine; a failed step never stops the plan.
type Executor struct {
	channel ports.CommandChannel
	pacer   ports.Pacer
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	profile MessagingProfile
	stepGap time.Duration
	now     func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPacer replaces the default FixedDelay pacing policy.
func WithPacer(p ports.Pacer) Option {
	return func(e *Executor) {
		if p != nil {
			e.pacer = p
		}
	}
}

// WithLifecycleHooks registers step and plan callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithProfile configures the messaging app driven by the messaging-send action.
// Zero fields keep their defaults.
func WithProfile(p MessagingProfile) Option {
	return func(e *Executor) {
		e.profile = p.withDefaults()
	}
}

// WithStepGap inserts a pause between consecutive steps.
func WithStepGap(d time.Duration) Option {
	return func(e *Executor) {
		e.stepGap = d
	}
}

// NewExecutor creates an executor issuing commands through channel.
func NewExecutor(channel ports.CommandChannel, opts ...Option) *Executor {
	e := &Executor{
		channel: channel,
		pacer:   FixedDelay{},
		logger:  logging.NewNop(),
		profile: DefaultMessagingProfile(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every step of plan and returns one result per step, in order.
//
// The caller's cancellation is ignored: once started, a plan runs to completion. Each
// bridge command is still bounded by the channel timeout.
func (e *Executor) Execute(ctx context.Context, plan domain.Plan) domain.PlanReport {
	ctx = context.WithoutCancel(ctx)
	runID := RunID(ctx)
	logger := e.logger.With("run_id", runID)
	started := e.now()

	report := domain.PlanReport{
		Success: true,
		Results: make([]domain.StepResult, 0, len(plan.Steps)),
		RunID:   runID,
	}

	logger.Info("Executing plan", "steps", len(plan.Steps))
	for i, step := range plan.Steps {
		if i > 0 && e.stepGap > 0 {
			e.pacer.Settle(ctx, PhaseStepGap, e.stepGap)
		}
		report.Results = append(report.Results, e.executeStep(ctx, logger, i, step))
	}

	failed := report.Failed()
	logger.Info("Plan finished", "steps", len(plan.Steps), "failed", failed)
	if e.hooks.OnPlanEnd != nil {
		e.hooks.OnPlanEnd(ctx, &domain.PlanEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventPlanEnd, RunID: runID},
			Steps:     len(plan.Steps),
			Failed:    failed,
			Duration:  e.now().Sub(started),
		})
	}
	return report
}

func (e *Executor) executeStep(ctx context.Context, logger *slog.Logger, index int, step domain.Step) domain.StepResult {
	runID := RunID(ctx)
	started := e.now()
	if e.hooks.OnStepStart != nil {
		e.hooks.OnStepStart(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: started, Type: domain.EventStepStart, RunID: runID},
			Index:     index,
			Action:    step.Action,
		})
	}

	var (
		outcome domain.StepOutcome
		err     error
	)
	if step.Rejected != nil {
		err = step.Rejected
	} else {
		outcome, err = e.safeDispatch(ctx, step)
	}

	result := domain.StepResult{
		Step:      step.Action,
		Reasoning: step.Reasoning,
		Success:   err == nil,
		Output:    outcome.Output,
	}
	if err != nil {
		result.Error = err.Error()
		logger.Warn("Step failed", "index", index, "action", step.Action, "error", err)
	} else {
		logger.Debug("Step succeeded", "index", index, "action", step.Action)
	}

	if e.hooks.OnStepEnd != nil {
		e.hooks.OnStepEnd(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventStepEnd, RunID: runID},
			Index:     index,
			Action:    step.Action,
			Success:   result.Success,
			Error:     result.Error,
			Duration:  e.now().Sub(started),
		})
	}
	return result
}

// safeDispatch converts a handler panic into a step failure.
func (e *Executor) safeDispatch(ctx context.Context, step domain.Step) (outcome domain.StepOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.StepOutcome{}
			err = &domain.StepFailure{Action: step.Action, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return e.dispatch(ctx, step)
}

// dispatch routes a step to its handler. Every ActionKind declared in pkg/domain has a case.
func (e *Executor) dispatch(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	switch step.Action {
	case domain.ActionMessagingSend:
		return e.sendMessage(ctx, step)
	case domain.ActionWait:
		return e.wait(ctx, step)
	case domain.ActionTap:
		return e.tap(ctx, step)
	case domain.ActionOpenURL:
		return e.openURL(ctx, step)
	case domain.ActionOpenApp:
		return e.openApp(ctx, step)
	case domain.ActionCall:
		return e.call(ctx, step)
	case domain.ActionEmail:
		return e.email(ctx, step)
	case domain.ActionType:
		return e.typeText(ctx, step)
	case domain.ActionKey:
		return e.key(ctx, step)
	default:
		return domain.StepOutcome{}, domain.UnknownAction(step.Action)
	}
}

// command runs one bridge command, turning a failed result into a CommandError.
func (e *Executor) command(ctx context.Context, command string) (domain.CommandResult, error) {
	res := e.channel.Run(ctx, command)
	if !res.Success {
		return res, &domain.CommandError{Command: command, Result: res}
	}
	return res, nil
}
