package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/talkincode/stockledger/internal/report"
	"github.com/talkincode/stockledger/internal/store"
)

// ExportOptions holds flags of the export command.
type ExportOptions struct {
	Format string
	Output string
	Range  string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}
	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Export the sales history as CSV or XLSX",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Format = report.NormalizeFormat(opts.Format)
			if opts.Format != report.FormatCSV && opts.Format != report.FormatXLSX {
				return fmt.Errorf("invalid format %q: must be csv or xlsx", opts.Format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", report.FormatCSV, "output format (csv|xlsx)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default sales-report-<date>.<format> in the export dir, - for stdout)")
	cmd.Flags().StringVar(&opts.Range, "range", report.RangeAll, "date range (today|week|month|quarter|all)")
	return cmd
}

func runExport(rootOpts *RootOptions, opts *ExportOptions, stdout io.Writer) error {
	a, err := loadApp(rootOpts)
	if err != nil {
		return err
	}
	defer a.Release()

	now := time.Now().In(a.Location())
	from, err := report.ResolveRange(opts.Range, now)
	if err != nil {
		return err
	}
	sales, err := a.Ledger().ListSales(context.Background(), store.SaleFilter{From: from})
	if err != nil {
		return err
	}

	if opts.Output == "-" {
		return report.Export(stdout, opts.Format, sales, a.Location())
	}
	path := opts.Output
	if path == "" {
		path = a.Config().GetExportDir() + "/" + report.ExportFilename(opts.Format, now)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Export(f, opts.Format, sales, a.Location()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported %d sales to %s\n", len(sales), path)
	return nil
}
