package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/config"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/events"
	"github.com/alexanderramin/agileplanner/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Backend groups the services that read backlog data. The online backend
// talks to the backlog API, the offline one replays a stored snapshot.
type Backend struct {
	Settings service.SettingsService
	Velocity service.VelocityService
	Burnup   service.BurnupService
}

// App holds references to all services used by CLI commands.
type App struct {
	Online  *Backend
	Offline *Backend
	Sync    service.SyncService
	Bus     *events.Bus

	// PinSnapshot points the offline backend at one stored snapshot.
	PinSnapshot func(id string)

	// Defaults seeds the planning settings; flags override them.
	Defaults domain.PlanningSettings

	Now           func() time.Time
	IsInteractive func() bool
	IsTerminal    func(w io.Writer) bool

	flags rootFlags
}

type rootFlags struct {
	offline     bool
	snapshot    string
	start       string
	sprintWeeks int
	apiSprints  bool
}

// NewRootCmd creates the top-level "agileplanner" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "agileplanner",
		Short:         "Release planning from sprint velocity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&a.flags.offline, "offline", false, "plan from the latest stored snapshot instead of the backlog API")
	pf.StringVar(&a.flags.snapshot, "snapshot", "", "plan from the stored snapshot with this ID or ID prefix (implies --offline)")
	pf.StringVar(&a.flags.start, "start", "", "planning start date (YYYY-MM-DD)")
	pf.IntVar(&a.flags.sprintWeeks, "sprint-weeks", 0, "sprint length in weeks")
	pf.BoolVar(&a.flags.apiSprints, "api-sprints", false, "select from the backlog's sprint list instead of the projection")

	root.AddCommand(
		newSprintsCmd(a),
		newVelocityCmd(a),
		newProjectCmd(a),
		newScopeCmd(a),
		newBurnupCmd(a),
		newSyncCmd(a),
		newSnapshotsCmd(a),
		newPlanCmd(a),
	)

	return root
}

func (a *App) backend(ctx context.Context) (*Backend, error) {
	if a.flags.offline || a.flags.snapshot != "" {
		if a.Offline == nil {
			return nil, errors.New("offline mode is not available")
		}
		if a.flags.snapshot != "" {
			if a.Sync == nil || a.PinSnapshot == nil {
				return nil, errors.New("snapshot store is not configured")
			}
			info, err := a.Sync.Resolve(ctx, a.flags.snapshot)
			if err != nil {
				return nil, err
			}
			a.PinSnapshot(info.ID)
		}
		return a.Offline, nil
	}
	if a.Online == nil {
		return nil, errors.New("backlog API is not configured")
	}
	return a.Online, nil
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) terminal(w io.Writer) bool {
	if a.IsTerminal != nil {
		return a.IsTerminal(w)
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadRequest builds the Load request from the defaults and flags.
func (a *App) loadRequest(endSprint string) (app.LoadPlanRequest, error) {
	settings := a.Defaults
	if a.flags.start != "" {
		start, err := time.Parse(config.DateLayout, a.flags.start)
		if err != nil {
			return app.LoadPlanRequest{}, fmt.Errorf("--start %q: expected YYYY-MM-DD", a.flags.start)
		}
		settings.StartDate = start
	}
	if a.flags.sprintWeeks != 0 {
		if a.flags.sprintWeeks < 0 {
			return app.LoadPlanRequest{}, fmt.Errorf("--sprint-weeks: %w", domain.ErrInvalidSprintLength)
		}
		settings.SprintLengthWeeks = a.flags.sprintWeeks
	}
	if settings.StartDate.IsZero() {
		settings.StartDate = config.StartOfWeek(a.now())
	}
	settings.EndSprintName = endSprint

	now := a.now()
	return app.LoadPlanRequest{
		Settings:      settings,
		Now:           &now,
		UseAPISprints: a.flags.apiSprints,
	}, nil
}

// loadPlan loads the plan through the active backend.
func (a *App) loadPlan(cmd *cobra.Command, endSprint string) (*Backend, *app.PlanState, error) {
	b, err := a.backend(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	req, err := a.loadRequest(endSprint)
	if err != nil {
		return nil, nil, err
	}
	state, err := b.Settings.Load(cmd.Context(), req)
	if err != nil {
		return b, nil, err
	}
	return b, state, nil
}
