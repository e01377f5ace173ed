package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/agileplanner/internal/cli/formatter"
	"github.com/alexanderramin/agileplanner/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newSprintsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sprints",
		Short: "List past and projected sprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, state, err := a.loadPlan(cmd, "")
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSprints(state.Available, a.now(), state.Settings.EndSprintName))
			return nil
		},
	}
}

func newVelocityCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "velocity",
		Short: "Show min, average and max velocity of completed sprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			report, err := b.Velocity.Velocity(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatVelocity(report))
			return nil
		},
	}
}

func newProjectCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Project the sprints needed to finish the remaining backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, state, err := a.loadPlan(cmd, "")
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjection(state, a.now()))
			return nil
		},
	}
}

func newScopeCmd(a *App) *cobra.Command {
	var end string

	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Choose the release end sprint and show the deliverable story points",
		Long: `Choose the release end sprint and show the deliverable story points.

Without --end an interactive terminal offers the available sprints; otherwise
the first sprint is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, state, err := a.loadPlan(cmd, end)
			if err != nil {
				if b != nil && service.IsSelectionError(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatSprintChoices(b.Settings.AvailableSprints()))
				}
				return err
			}
			result := state.Scope
			if result == nil {
				return fmt.Errorf("cannot build a release scope: no sprints to choose from")
			}

			if end == "" && a.interactive() {
				choice := result.Scope.EndSprint.Name
				if err := selectEndSprintForm(b.Settings.AvailableSprints(), &choice).Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
				if result, err = b.Settings.SelectEndSprint(cmd.Context(), choice); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScope(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "name of the release end sprint, e.g. \"Sprint 4\"")
	return cmd
}
