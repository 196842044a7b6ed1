package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/adbpilot/internal/runtime"
	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
)

// Issue is a problem found in one step of a plan.
type Issue struct {
	Index  int
	Action domain.ActionKind
	Reason string
}

func (i *Issue) Error() string {
	return fmt.Sprintf("step %d (%s): %s", i.Index+1, i.Action, i.Reason)
}

// ValidatePlan reports every step that would fail before touching the device.
// Problems that depend on device state (missing contacts, absent controls) are not detected.
// The returned error joins one *Issue per offending step, or is nil.
func ValidatePlan(plan domain.Plan) error {
	var issues []error
	for i, step := range plan.Steps {
		if reason := checkStep(step); reason != "" {
			issues = append(issues, &Issue{Index: i, Action: step.Action, Reason: reason})
		}
	}
	return errors.Join(issues...)
}

// Issues unpacks the error returned by ValidatePlan.
func Issues(err error) []*Issue {
	if err == nil {
		return nil
	}
	var out []*Issue
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Issues(e)...)
		}
		return out
	}
	var issue *Issue
	if errors.As(err, &issue) {
		out = append(out, issue)
	}
	return out
}

func checkStep(step domain.Step) string {
	target := strings.TrimSpace(step.Target)

	switch step.Action {
	case domain.ActionWait:
		if target == "" {
			return ""
		}
		ms, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Sprintf("wait duration %q is not a number of milliseconds", step.Target)
		}
		if ms < 0 {
			return fmt.Sprintf("wait duration %q is negative", step.Target)
		}
		if int64(ms) > runtime.MaxWaitMillis {
			return fmt.Sprintf("wait duration %q is too long", step.Target)
		}
	case domain.ActionTap:
		if _, err := device.ParsePoint(step.Target); err != nil {
			return err.Error()
		}
	case domain.ActionKey:
		if _, err := strconv.Atoi(target); err != nil {
			return fmt.Sprintf("keycode %q is not numeric", step.Target)
		}
	case domain.ActionOpenURL, domain.ActionOpenApp, domain.ActionCall, domain.ActionEmail, domain.ActionMessagingSend:
		if step.Target == "" {
			return "target is required"
		}
	case domain.ActionType:
		if step.Text == "" {
			return "text is empty"
		}
	default:
		return domain.UnknownAction(step.Action).Error()
	}
	return ""
}
