package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rello/pkg/rello"
)

const modulePath = "github.com/mesh-intelligence/rello"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rello version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "rello v%s\nmodule: %s\n", rello.Version, modulePath)
			return nil
		},
	}
}
