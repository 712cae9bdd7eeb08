// Package cli implements the stockledger command line.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand creates the root command. Without a subcommand it serves
// the admin API.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	serve := NewServeCommand(opts)
	cmd := &cobra.Command{
		Use:   "stockledger",
		Short: "StockLedger - shop sales and inventory",
		Long: `StockLedger records point of sale transactions and keeps product
stock consistent with the sales ledger.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default ./stockledger.yml, then /etc/stockledger.yml)")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewInitDBCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// loadApp reads the config and initializes the application.
func loadApp(opts *RootOptions) (*app.Application, error) {
	cfg, err := config.LoadConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	a := app.NewApplication(cfg)
	if err := a.Init(cfg); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}
