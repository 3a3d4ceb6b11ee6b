package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazario/config"
	"github.com/shashiranjanraj/bazario/internal/daemon"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in the background: periodic cart refresh, order updates, local status API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d := daemon.New(app.client, app.sessions, app.cart, app.reconciler,
			config.DaemonAddr(), config.WSBaseURL())
		return d.Run(ctx)
	},
}
