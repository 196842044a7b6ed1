package ports

import (
	"context"
	"time"
)

// Pacer decides how the engine waits for the device between interactions.
// phase names the UI state being waited on (e.g. "app_launching"); d is the nominal delay.
// Settle blocks the calling goroutine: steps never overlap.
type Pacer interface {
	Settle(ctx context.Context, phase string, d time.Duration)
}
