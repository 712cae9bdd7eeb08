package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var track bool
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the database tables",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Release()
			if err := a.MigrateDB(track); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database migrated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&track, "track", false, "log the migration SQL")
	return cmd
}

// NewInitDBCommand creates the initdb command.
func NewInitDBCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:          "initdb",
		Short:        "Drop and recreate every table, then seed defaults",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("initdb erases all data, rerun with --yes to confirm")
			}
			a, err := loadApp(rootOpts)
			if err != nil {
				return err
			}
			defer a.Release()
			a.InitDb()
			fmt.Fprintln(cmd.OutOrStdout(), "database initialized")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm that all data is erased")
	return cmd
}
