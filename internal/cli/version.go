package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/fabricalc/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "FabriCalc %s\n", version.String())
			return nil
		},
	}
}
