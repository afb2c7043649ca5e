package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"swarm-console/internal/display"
	"swarm-console/internal/tui"
)

func newSwarmsCmd(a *app) *cobra.Command {
	var plain bool
	var width int

	cmd := &cobra.Command{
		Use:   "swarms",
		Short: "List the swarms available for hire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), display.FormatSwarmCatalog(c))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCatalog(c, width))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text without styling")
	cmd.Flags().IntVar(&width, "width", 100, "terminal width used to lay out the cards")
	return cmd
}
