package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/talkincode/stockledger/internal/adminapi"
	"github.com/talkincode/stockledger/internal/webserver"
	"go.uber.org/zap"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the admin API with the background jobs",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts)
		},
	}
}

func runServe(opts *RootOptions) error {
	a, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer a.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.StartBackgroundJobs(ctx)
	adminapi.Init()
	server := webserver.NewAdminServer(a.Config(), a)

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	zap.L().Info("shutting down", zap.String("namespace", "main"))
	return server.Shutdown(context.Background())
}
