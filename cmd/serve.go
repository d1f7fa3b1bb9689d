package main

import (
	"github.com/spf13/cobra"

	"marketlens/internal/bootstrap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the batch worker with health and metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := bootstrap.NewContainer()
			c.MustInit()

			if err := c.Start(); err != nil {
				c.Log.Errorw("Startup failed", "error", err)
				c.Shutdown()
				return err
			}

			select {
			case <-cmd.Context().Done():
				c.Log.Info("Shutdown signal received")
			case <-c.Context.Done():
				c.Log.Warn("Application context cancelled")
			}

			c.Shutdown()
			return nil
		},
	}
}
