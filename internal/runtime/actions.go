package runtime

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
)

// DefaultWait is used by a wait step without a target.
const DefaultWait = 2000 * time.Millisecond

// MaxWaitMillis is the longest wait a time.Duration can hold.
const MaxWaitMillis = math.MaxInt64 / int64(time.Millisecond)

// run issues a single command and reports its output as the step outcome.
func (e *Executor) run(ctx context.Context, command string) (domain.StepOutcome, error) {
	res, err := e.command(ctx, command)
	return domain.StepOutcome{Output: res.Output}, err
}

func (e *Executor) wait(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	d := DefaultWait
	if target := strings.TrimSpace(step.Target); target != "" {
		ms, err := strconv.Atoi(target)
		if err != nil {
			return domain.StepOutcome{}, domain.Failf(step.Action, "invalid wait duration %q: expected milliseconds", step.Target)
		}
		if ms < 0 {
			return domain.StepOutcome{}, domain.Failf(step.Action, "invalid wait duration %q: must not be negative", step.Target)
		}
		if int64(ms) > MaxWaitMillis {
			return domain.StepOutcome{}, domain.Failf(step.Action, "invalid wait duration %q: exceeds %dms", step.Target, MaxWaitMillis)
		}
		d = time.Duration(ms) * time.Millisecond
	}
	e.pacer.Settle(ctx, PhaseWait, d)
	return domain.StepOutcome{Output: fmt.Sprintf("Waited %dms", d.Milliseconds())}, nil
}

func (e *Executor) tap(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	p, err := device.ParsePoint(step.Target)
	if err != nil {
		return domain.StepOutcome{}, &domain.StepFailure{Action: step.Action, Err: err}
	}
	return e.run(ctx, device.Tap(p.X, p.Y))
}

func (e *Executor) openURL(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	if step.Target == "" {
		return domain.StepOutcome{}, domain.Failf(step.Action, "open_url requires a target URL")
	}
	return e.run(ctx, device.OpenURL(step.Target, step.Browser))
}

func (e *Executor) openApp(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	if step.Target == "" {
		return domain.StepOutcome{}, domain.Failf(step.Action, "open_app requires a package name")
	}
	return e.run(ctx, device.LaunchApp(step.Target))
}

func (e *Executor) call(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	if step.Target == "" {
		return domain.StepOutcome{}, domain.Failf(step.Action, "call requires a number or contact name")
	}
	number := step.Target
	if !device.IsPhoneNumber(number) {
		number = e.resolveContact(ctx, step.Target)
	}
	number = device.CleanNumber(number)
	if number == "" {
		return domain.StepOutcome{}, domain.Failf(step.Action, "no number found for %q", step.Target)
	}
	return e.run(ctx, device.Call(number))
}

// resolveContact returns the number of the first contact matching name, or name itself.
func (e *Executor) resolveContact(ctx context.Context, name string) string {
	res := e.channel.Run(ctx, device.CmdContacts)
	if !res.Success {
		e.logger.Warn("Contact lookup failed", "query", name, "error", res.Error)
		return name
	}
	matches := device.SearchContacts(device.ParseContacts(res.Output), name)
	if len(matches) == 0 {
		return name
	}
	e.logger.Debug("Resolved contact", "query", name, "number", matches[0].Number)
	return matches[0].Number
}

func (e *Executor) email(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	if step.Target == "" {
		return domain.StepOutcome{}, domain.Failf(step.Action, "email requires a recipient address")
	}
	return e.run(ctx, device.Email(step.Target, step.Subject, step.Text))
}

func (e *Executor) typeText(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	return e.run(ctx, device.InputText(step.Text))
}

func (e *Executor) key(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	code, err := strconv.Atoi(strings.TrimSpace(step.Target))
	if err != nil {
		return domain.StepOutcome{}, domain.Failf(step.Action, "invalid keycode %q", step.Target)
	}
	return e.run(ctx, device.KeyEvent(strconv.Itoa(code)))
}
