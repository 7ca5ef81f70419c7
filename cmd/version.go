package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set during build.
var Version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "crosshair %s\n", Version)
		},
	}
}
