package ports

import (
	"context"
	"time"

	"github.com/aretw0/adbpilot/pkg/domain"
)

// Engine is the surface adapters (HTTP, MCP, CLI) drive.
type Engine interface {
	// ExecutePlan runs every step in order and returns one result per step.
	ExecutePlan(ctx context.Context, plan domain.Plan) domain.PlanReport

	// Do runs a single step exactly as a one-step plan would, without journaling it.
	Do(ctx context.Context, step domain.Step) domain.StepResult

	// Exec runs a raw bridge command. A failed result is returned together with a
	// *domain.CommandError.
	Exec(ctx context.Context, command string) (domain.CommandResult, error)

	// Status reports bridge connectivity and attached devices.
	Status(ctx context.Context) domain.DeviceStatus

	// ScreenSize reports the display size, falling back to domain.DefaultScreenSize.
	ScreenSize(ctx context.Context) (domain.ScreenSize, error)

	// Contacts reads the device address book.
	Contacts(ctx context.Context) ([]domain.Contact, error)

	// SearchContact finds the first contact whose name contains query.
	// Returns domain.ErrContactNotFound, with suggestions, on a miss.
	SearchContact(ctx context.Context, query string) (domain.ContactSearch, error)

	// Swipe drags between two screen points over d.
	Swipe(ctx context.Context, from, to domain.Point, d time.Duration) (domain.CommandResult, error)

	// UIDump returns the current UI hierarchy as XML.
	UIDump(ctx context.Context) (string, error)

	// Screenshot returns the current screen as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Run returns a journaled plan report.
	Run(ctx context.Context, runID string) (*domain.RunRecord, error)

	// Runs lists journaled run IDs.
	Runs(ctx context.Context) ([]string, error)
}
