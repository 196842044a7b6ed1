package adbpilot

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/adbpilot/internal/logging"
	"github.com/aretw0/adbpilot/internal/runtime"
	"github.com/aretw0/adbpilot/pkg/adapters/adb"
	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
	"github.com/google/uuid"
)

// Version is the release version of adbpilot.
//
//go:embed VERSION
var Version string

// DefaultDevice names the lock key and journal device when no serial is configured.
const DefaultDevice = "default"

// Pilot is the high-level entry point for the adbpilot library.
// It wires the command channel, the plan executor, the run journal and the optional device lock.
type Pilot struct {
	channel  ports.CommandChannel
	adb      adb.Config
	executor *runtime.Executor
	store    ports.RunStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	device   string
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	runtimeOpts []runtime.Option
	newID       func() string
	now         func() time.Time
}

var _ ports.Engine = (*Pilot)(nil)

// Option defines a functional option for configuring the Pilot.
type Option func(*Pilot)

// WithChannel injects a custom command channel, bypassing the default adb channel.
func WithChannel(ch ports.CommandChannel) Option {
	return func(p *Pilot) {
		p.channel = ch
	}
}

// WithADB configures the default adb channel.
func WithADB(cfg adb.Config) Option {
	return func(p *Pilot) {
		if cfg.Serial != "" {
			p.device = cfg.Serial
		}
		p.adb = cfg
	}
}

// WithDevice sets the device name used for locking and journaling.
func WithDevice(serial string) Option {
	return func(p *Pilot) {
		if serial != "" {
			p.device = serial
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pilot) {
		p.hooks = p.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pilot) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPacer replaces the fixed-delay pacing policy.
func WithPacer(pacer ports.Pacer) Option {
	return func(p *Pilot) {
		p.runtimeOpts = append(p.runtimeOpts, runtime.WithPacer(pacer))
	}
}

// WithProfile configures the messaging app.
func WithProfile(profile runtime.MessagingProfile) Option {
	return func(p *Pilot) {
		p.runtimeOpts = append(p.runtimeOpts, runtime.WithProfile(profile))
	}
}

// WithStepGap inserts a pause between plan steps.
func WithStepGap(d time.Duration) Option {
	return func(p *Pilot) {
		p.runtimeOpts = append(p.runtimeOpts, runtime.WithStepGap(d))
	}
}

// WithRunStore enables the run journal.
func WithRunStore(store ports.RunStore) Option {
	return func(p *Pilot) {
		p.store = store
	}
}

// WithLocker serializes device work across requests. ttl bounds how long one holder may keep
// the device.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(p *Pilot) {
		p.locker = locker
		p.lockTTL = ttl
	}
}

// New initializes a Pilot. Without WithChannel or WithADB it drives "adb" from PATH.
func New(opts ...Option) *Pilot {
	p := &Pilot{
		device:  DefaultDevice,
		adb:     adb.DefaultConfig(),
		logger:  logging.NewNop(),
		lockTTL: 10 * time.Minute,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.channel == nil {
		p.channel = adb.NewChannel(append(p.adb.Options(),
			adb.WithLogger(p.logger),
			adb.WithLifecycleHooks(p.hooks),
		)...)
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLogger(p.logger),
		runtime.WithLifecycleHooks(p.hooks),
	}
	runtimeOpts = append(runtimeOpts, p.runtimeOpts...)
	p.executor = runtime.NewExecutor(p.channel, runtimeOpts...)
	return p
}

// Logger returns the structured logger the pilot was built with.
func (p *Pilot) Logger() *slog.Logger {
	return p.logger
}

// Device returns the device name used for locking and journaling.
func (p *Pilot) Device() string {
	return p.device
}

// withDevice runs fn while holding the device lock, if one is configured.
func (p *Pilot) withDevice(ctx context.Context, fn func()) error {
	if p.locker == nil {
		fn()
		return nil
	}
	unlock, err := p.locker.Lock(ctx, p.device, p.lockTTL)
	if err != nil {
		return fmt.Errorf("device %s busy: %w", p.device, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			p.logger.Warn("Failed to release device lock", "device", p.device, "error", err)
		}
	}()
	fn()
	return nil
}

// ExecutePlan runs every step in order and journals the report when a run store is set.
// The report always has one result per step; if the device lock cannot be acquired every
// step is reported as failed.
func (p *Pilot) ExecutePlan(ctx context.Context, plan domain.Plan) domain.PlanReport {
	runID := p.newID()
	started := p.now()
	ctx = runtime.WithRunID(ctx, runID)

	var report domain.PlanReport
	err := p.withDevice(ctx, func() {
		report = p.executor.Execute(ctx, plan)
	})
	if err != nil {
		p.logger.Warn("Plan not started", "run_id", runID, "error", err)
		report = failedReport(runID, plan, err)
	}

	p.journal(ctx, &domain.RunRecord{
		ID:         runID,
		Device:     p.device,
		StartedAt:  started,
		FinishedAt: p.now(),
		Steps:      len(plan.Steps),
		Failed:     report.Failed(),
		Report:     report,
	})
	return report
}

func failedReport(runID string, plan domain.Plan, err error) domain.PlanReport {
	report := domain.PlanReport{Success: true, RunID: runID, Results: make([]domain.StepResult, 0, len(plan.Steps))}
	for _, step := range plan.Steps {
		report.Results = append(report.Results, domain.StepResult{
			Step:      step.Action,
			Reasoning: step.Reasoning,
			Error:     err.Error(),
		})
	}
	return report
}

func (p *Pilot) journal(ctx context.Context, record *domain.RunRecord) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(context.WithoutCancel(ctx), record); err != nil {
		p.logger.Error("Failed to journal run", "run_id", record.ID, "error", err)
	}
}

// Do executes a single step outside the journal. Device endpoints use it so they behave
// exactly like the equivalent plan step.
func (p *Pilot) Do(ctx context.Context, step domain.Step) domain.StepResult {
	plan := domain.Plan{Steps: []domain.Step{step}}
	var report domain.PlanReport
	if err := p.withDevice(ctx, func() {
		report = p.executor.Execute(ctx, plan)
	}); err != nil {
		report = failedReport("", plan, err)
	}
	return report.Results[0]
}

// Exec runs a raw bridge command while holding the device lock.
func (p *Pilot) Exec(ctx context.Context, command string) (domain.CommandResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return domain.Failure(domain.ErrEmptyCommand.Error()), domain.ErrEmptyCommand
	}
	var (
		res domain.CommandResult
		err error
	)
	if lockErr := p.withDevice(ctx, func() { res, err = p.exec(ctx, command) }); lockErr != nil {
		return domain.Failure(lockErr.Error()), lockErr
	}
	return res, err
}

// exec runs command without taking the device lock. Callers already holding it use this.
func (p *Pilot) exec(ctx context.Context, command string) (domain.CommandResult, error) {
	res := p.channel.Run(ctx, command)
	if !res.Success {
		return res, &domain.CommandError{Command: command, Result: res}
	}
	return res, nil
}

// locked runs fn under the device lock. A lock failure is returned in place of fn's error.
func (p *Pilot) locked(ctx context.Context, fn func() error) error {
	var err error
	if lockErr := p.withDevice(ctx, func() { err = fn() }); lockErr != nil {
		return lockErr
	}
	return err
}

// Status reports bridge connectivity and attached devices.
// It only queries the host bridge, so it never waits for the device lock.
func (p *Pilot) Status(ctx context.Context) domain.DeviceStatus {
	return device.Status(p.channel.Run(ctx, device.CmdDevices))
}

// ScreenSize returns the reported display size, or domain.DefaultScreenSize when the
// device does not report one. Only a lock failure is returned as an error.
func (p *Pilot) ScreenSize(ctx context.Context) (domain.ScreenSize, error) {
	var size domain.ScreenSize
	err := p.withDevice(ctx, func() {
		size, _ = device.ParseScreenSize(p.channel.Run(ctx, device.CmdScreenSize).Output)
	})
	if err != nil {
		return domain.DefaultScreenSize, err
	}
	return size, nil
}

// Contacts reads the device address book.
func (p *Pilot) Contacts(ctx context.Context) ([]domain.Contact, error) {
	var res domain.CommandResult
	err := p.locked(ctx, func() (err error) {
		res, err = p.exec(ctx, device.CmdContacts)
		return err
	})
	if err != nil {
		return []domain.Contact{}, err
	}
	return device.ParseContacts(res.Output), nil
}

// SearchContact returns the first contact whose name contains query. On a miss, the first
// five contact names are returned as suggestions together with domain.ErrContactNotFound.
func (p *Pilot) SearchContact(ctx context.Context, query string) (domain.ContactSearch, error) {
	if strings.TrimSpace(query) == "" {
		return domain.ContactSearch{}, fmt.Errorf("%w: query", domain.ErrMissingField)
	}
	contacts, err := p.Contacts(ctx)
	if err != nil {
		return domain.ContactSearch{}, err
	}
	matches := device.SearchContacts(contacts, query)
	if len(matches) == 0 {
		suggestions := []string{}
		for i, c := range contacts {
			if i == 5 {
				break
			}
			suggestions = append(suggestions, c.Name)
		}
		return domain.ContactSearch{Suggestions: suggestions},
			fmt.Errorf("%w matching %q", domain.ErrContactNotFound, query)
	}
	return domain.ContactSearch{Contact: &matches[0], Matches: matches}, nil
}

// DefaultSwipeDuration is used when Swipe is given a non-positive duration.
const DefaultSwipeDuration = 300 * time.Millisecond

// Swipe drags from (x1, y1) to (x2, y2).
func (p *Pilot) Swipe(ctx context.Context, from, to domain.Point, d time.Duration) (domain.CommandResult, error) {
	if d <= 0 {
		d = DefaultSwipeDuration
	}
	var (
		res domain.CommandResult
		err error
	)
	lockErr := p.withDevice(ctx, func() {
		res, err = p.exec(ctx, device.Swipe(from.X, from.Y, to.X, to.Y, int(d.Milliseconds())))
	})
	if lockErr != nil {
		return domain.Failure(lockErr.Error()), lockErr
	}
	return res, err
}

// UIDump asks uiautomator for the current hierarchy and returns the XML.
// The dump and the read happen under one hold of the device lock.
func (p *Pilot) UIDump(ctx context.Context) (string, error) {
	var xml string
	err := p.locked(ctx, func() error {
		if _, err := p.exec(ctx, device.CmdUIDump); err != nil {
			return fmt.Errorf("ui dump failed: %w", err)
		}
		res, err := p.exec(ctx, device.Cat(device.DumpPath))
		if err != nil {
			return fmt.Errorf("reading ui dump failed: %w", err)
		}
		xml = res.Output
		return nil
	})
	return xml, err
}

// Screenshot captures the screen and returns PNG bytes.
func (p *Pilot) Screenshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "adbpilot-screenshot-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	local := filepath.Join(dir, "screenshot.png")
	err = p.locked(ctx, func() error {
		if _, err := p.exec(ctx, device.Screencap(device.ScreenshotPath)); err != nil {
			return fmt.Errorf("screencap failed: %w", err)
		}
		if _, err := p.exec(ctx, device.Pull(device.ScreenshotPath, strconv.Quote(local))); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	return data, nil
}

// Run returns a journaled plan report.
func (p *Pilot) Run(ctx context.Context, runID string) (*domain.RunRecord, error) {
	if p.store == nil {
		return nil, domain.ErrRunNotFound
	}
	return p.store.Load(ctx, runID)
}

// Runs lists journaled run IDs, most recent first.
func (p *Pilot) Runs(ctx context.Context) ([]string, error) {
	if p.store == nil {
		return []string{}, nil
	}
	return p.store.List(ctx)
}
