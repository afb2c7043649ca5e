package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swarm-console/internal/display"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that swarm-core is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			status, err := a.client.Health(cmd.Context())
			if err != nil {
				a.log.Warn("Health check failed", zap.Error(err))
				fmt.Fprintf(cmd.ErrOrStderr(), "SYSTEM OFFLINE: %v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SYSTEM ONLINE (%s, %s) at %s\n", status, display.FormatDuration(time.Since(start)), a.client.BaseURL())
			return nil
		},
	}
}
