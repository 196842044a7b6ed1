package runtime

import (
	"context"
	"time"

	"github.com/aretw0/adbpilot/pkg/ports"
)

// Phases passed to the Pacer.
const (
	PhaseWait             = "wait"
	PhaseStepGap          = "step_gap"
	PhaseAppLaunching     = "app_launching"
	PhaseSearchOpen       = "search_open"
	PhaseRecipientEntered = "recipient_entered"
	PhaseResultSelected   = "result_selected"
	PhaseMessageTyped     = "message_typed"
)

// FixedDelay sleeps for the nominal delay of every phase.
// It returns early only when ctx is done.
type FixedDelay struct{}

// Settle blocks for d.
func (FixedDelay) Settle(ctx context.Context, _ string, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// NoDelay never waits. Useful for dry runs against fakes.
type NoDelay struct{}

// Settle returns immediately.
func (NoDelay) Settle(context.Context, string, time.Duration) {}

var (
	_ ports.Pacer = FixedDelay{}
	_ ports.Pacer = NoDelay{}
)
