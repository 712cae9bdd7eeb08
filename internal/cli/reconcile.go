package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one saga reconciliation pass and exit",
		Long: `Re-applies owed stock decrements of partially committed sales.
Entries that keep failing are moved to manual resolution.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Release()
			rep, err := a.Reconciler().RunOnce(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, confirmed %d, written %d, manual %d, failed %d\n",
				rep.Scanned, rep.Confirmed, rep.Written, rep.Manual, rep.Failed)
			return nil
		},
	}
}
