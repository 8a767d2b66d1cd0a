package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goNexus/internal/server"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := o.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			srv := server.New(o.engine, o.logger)
			// requests answer 503 until the session is restored
			go o.engine.Start(ctx)
			return srv.Run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
