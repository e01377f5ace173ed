package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/agileplanner/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Store a snapshot of the backlog for offline planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.offline || a.flags.snapshot != "" {
				return errors.New("sync reads the backlog API and cannot run with --offline or --snapshot")
			}
			if a.Sync == nil {
				return errors.New("snapshot store is not configured")
			}

			stop := func() {}
			if errOut := cmd.ErrOrStderr(); a.terminal(errOut) {
				stop = formatter.StartSpinner(errOut, "Fetching backlog...")
			}
			snap, err := a.Sync.Sync(cmd.Context())
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotStored(snap))
			return nil
		},
	}
}

func newSnapshotsCmd(a *App) *cobra.Command {
	var deleteID string
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored backlog snapshots, or delete one with --delete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Sync == nil {
				return errors.New("snapshot store is not configured")
			}
			if cmd.Flags().Changed("delete") {
				info, err := a.Sync.Delete(cmd.Context(), deleteID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotDeleted(info))
				return nil
			}
			infos, err := a.Sync.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotList(infos, a.now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&deleteID, "delete", "", "delete the snapshot with this ID or ID prefix")
	return cmd
}
