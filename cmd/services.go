package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/adapters/notification"
	"github.com/xvierd/focus/internal/adapters/sensor"
	"github.com/xvierd/focus/internal/adapters/storage"
	"github.com/xvierd/focus/internal/adapters/wikipedia"
	"github.com/xvierd/focus/internal/config"
	"github.com/xvierd/focus/internal/events"
	"github.com/xvierd/focus/internal/logger"
	"github.com/xvierd/focus/internal/ports"
	"github.com/xvierd/focus/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config *config.Config
	logger *zap.Logger
	clock  clockwork.Clock
	bus    *events.MemoryEventBus

	storage    ports.Storage
	settings   *services.SettingsService
	timer      *services.TimerService
	statistics *services.StatisticsService
	history    *services.HistoryService
	state      *services.StateService
	notifier   *notification.Notifier

	shakeSensor       *sensor.Shake
	orientationSensor *sensor.Orientation
	shake             *services.ShakePolicy
	orientation       *services.OrientationPolicy

	settingsSub ports.Subscription
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// newClock is replaced in tests.
var newClock = func() clockwork.Clock { return clockwork.NewRealClock() }

// loadConfig is replaced in tests.
var loadConfig = config.Load

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = loadConfig()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
		app.config.Logging.OutputPath = "stderr"
	}
	cfg := app.config

	// Determine database path
	resolvedDB := dbPath
	if resolvedDB == "" {
		resolvedDB = config.GetDBPath(cfg)
	}
	if err := os.MkdirAll(filepath.Dir(resolvedDB), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.logger, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log := app.logger

	app.clock = newClock()
	app.bus = events.NewMemoryEventBus(log.Named("events"))

	app.storage, err = storage.New(resolvedDB,
		storage.WithEventBus(app.bus),
		storage.WithLogger(log.Named("storage")),
		storage.WithDefaultSettings(cfg.ToSettings()),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	app.settings = services.NewSettingsService(app.storage.Settings(), log.Named("settings"))

	app.notifier = notification.New(&cfg.Notifications)
	app.timer = services.NewTimerService(ctx, app.storage.Settings(), app.storage.Sessions(), app.clock, log.Named("timer"))
	app.timer.SetNotifier(app.notifier)
	app.settingsSub, err = app.timer.WatchSettings(app.bus)
	if err != nil {
		return fmt.Errorf("failed to watch settings: %w", err)
	}

	app.statistics = services.NewStatisticsService(app.storage.Sessions(), app.storage.Goals(), app.clock, cfg.WeekStart(), log.Named("statistics"))
	if err := app.statistics.Watch(app.bus); err != nil {
		return fmt.Errorf("failed to watch statistics sources: %w", err)
	}

	provider := wikipedia.NewClient(cfg.History.BaseURL, cfg.History.Language, log.Named("wikipedia"))
	app.history = services.NewHistoryService(provider, app.storage.History(), app.clock, cfg.HistoryServiceConfig(), log.Named("history"))

	app.state = services.NewStateService(app.timer, app.statistics, app.settings)
	app.state.SetHistoryService(app.history)

	app.shakeSensor = sensor.NewShake()
	app.orientationSensor = sensor.NewOrientation()
	app.shake = services.NewShakePolicy(app.shakeSensor, app.timer, log.Named("shake"))
	app.orientation = services.NewOrientationPolicy(app.orientationSensor, app.timer, app.clock, cfg.OrientationCadence(), log.Named("orientation"))

	return nil
}

// cleanupServices stops background work and closes all resources.
func cleanupServices() error {
	if app.shake != nil {
		app.shake.Disable()
	}
	if app.orientation != nil {
		app.orientation.Disable()
	}
	if app.settingsSub != nil {
		_ = app.settingsSub.Unsubscribe()
	}
	if app.timer != nil {
		app.timer.Close()
	}
	if app.statistics != nil {
		app.statistics.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}

	var err error
	if app.storage != nil {
		err = app.storage.Close()
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	app = appDeps{}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
