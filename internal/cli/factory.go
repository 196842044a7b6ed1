package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/adbpilot"
	"github.com/aretw0/adbpilot/internal/config"
	"github.com/aretw0/adbpilot/internal/metrics"
	"github.com/aretw0/adbpilot/pkg/adapters/memory"
	"github.com/aretw0/adbpilot/pkg/adapters/redis"
	"github.com/aretw0/adbpilot/pkg/adapters/sqlite"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/persistence/middleware"
	"github.com/aretw0/adbpilot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// App is a Pilot wired from configuration, together with the resources it owns.
type App struct {
	Pilot   *adbpilot.Pilot
	Metrics *metrics.Metrics
	// DryRun is set when the pilot drives a recording channel instead of adb.
	DryRun *memory.Channel

	closers []io.Closer
}

// Close releases stores and connections opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// NewApp builds a Pilot from cfg.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{}
	opts := []adbpilot.Option{
		adbpilot.WithLogger(logger),
		adbpilot.WithADB(cfg.ADB),
		adbpilot.WithProfile(cfg.Profile),
		adbpilot.WithStepGap(cfg.Executor.StepGap),
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, adbpilot.WithLifecycleHooks(createDebugHooks(logger)))
	}

	if cfg.Metrics.Enabled {
		app.Metrics = metrics.New()
		opts = append(opts, adbpilot.WithLifecycleHooks(app.Metrics.Hooks()))
	}

	if cfg.Executor.DryRun {
		app.DryRun = memory.NewChannel()
		opts = append(opts, adbpilot.WithChannel(app.DryRun))
		logger.Warn("Dry run: commands are recorded, not sent to a device")
	}

	// Redis is shared between the run store and the device lock.
	var rdb *backend.Client
	redisClient := func() *backend.Client {
		if rdb == nil {
			rdb = backend.NewClient(&backend.Options{
				Addr:     cfg.Store.Redis.Addr,
				Password: cfg.Store.Redis.Password,
				DB:       cfg.Store.Redis.DB,
			})
			app.closers = append(app.closers, rdb)
		}
		return rdb
	}

	store, err := newRunStore(cfg.Store, redisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	if store != nil {
		if c, ok := store.(io.Closer); ok && cfg.Store.Backend == config.StoreSQLite {
			app.closers = append(app.closers, c)
		}
		mws, err := storeMiddleware(cfg.Store)
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, adbpilot.WithRunStore(middleware.Chain(store, mws...)))
	}

	if cfg.Lock.Enabled {
		var locker ports.DistributedLocker
		switch cfg.Lock.Backend {
		case config.StoreRedis:
			locker = redis.NewLocker(redisClient(), cfg.Store.Redis.Prefix)
		default:
			locker = memory.NewLocker()
		}
		opts = append(opts, adbpilot.WithLocker(locker, cfg.Lock.TTL))
	}

	app.Pilot = adbpilot.New(opts...)
	return app, nil
}

func newRunStore(cfg config.StoreConfig, redisClient func() *backend.Client) (ports.RunStore, error) {
	switch cfg.Backend {
	case config.StoreNone:
		return nil, nil
	case config.StoreMemory, "":
		return memory.NewStore(), nil
	case config.StoreRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		return redis.NewFromClient(redisClient(), opts...), nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// storeMiddleware builds the journal middleware. Redaction runs before encryption.
func storeMiddleware(cfg config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	active, fallback, err := cfg.Encryption.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.Debug("Command", "command", e.Command, "success", e.Success, "duration", e.Duration)
		},
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Enter Step", "run_id", e.RunID, "index", e.Index, "action", e.Action)
		},
		OnStepEnd: func(ctx context.Context, e *domain.StepEvent) {
			if e.Success {
				logger.Debug("Leave Step", "run_id", e.RunID, "index", e.Index, "duration", e.Duration)
			} else {
				logger.Debug("Leave Step (Error)", "run_id", e.RunID, "index", e.Index, "err", e.Error)
			}
		},
	}
}
