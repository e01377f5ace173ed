package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/cli"
	"github.com/alexanderramin/agileplanner/internal/config"
	"github.com/alexanderramin/agileplanner/internal/db"
	"github.com/alexanderramin/agileplanner/internal/events"
	"github.com/alexanderramin/agileplanner/internal/repository"
	"github.com/alexanderramin/agileplanner/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	snapshots := repository.NewSQLiteSnapshotRepo(database)

	// Observability stays quiet unless AGILEPLANNER_LOG is set.
	var fetchObserver backlog.Observer = backlog.NoopObserver{}
	var useCaseObservers []service.UseCaseObserver
	bus := events.NewBus()
	if cfg.LogEnabled {
		fetchObserver = backlog.NewLogObserver(os.Stderr)
		useCaseObservers = append(useCaseObservers, service.NewLogUseCaseObserver(os.Stderr))
		defer events.NewLogSubscriber(bus, os.Stderr)()
	}

	online := backlog.NewHTTPClient(cfg.Backlog(), fetchObserver)
	offline := repository.NewSnapshotSource(snapshots)

	app := &cli.App{
		Online:   newBackend(online, bus, useCaseObservers),
		Offline:  newBackend(offline, bus, useCaseObservers),
		Sync:     service.NewSyncService(online, cfg.BaseURL, uow, useCaseObservers...),
		Bus:      bus,
		Defaults: cfg.PlanningSettings(time.Now()),
		Now:      time.Now,

		PinSnapshot: offline.Pin,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
		IsTerminal: cli.IsTerminal,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func newBackend(client backlog.Client, bus *events.Bus, observers []service.UseCaseObserver) *cli.Backend {
	return &cli.Backend{
		Settings: service.NewSettingsService(client, bus, observers...),
		Velocity: service.NewVelocityService(client, observers...),
		Burnup:   service.NewBurnupService(client, observers...),
	}
}
