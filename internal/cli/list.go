package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rello/internal/command"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the board",
		Long:    "Print every column and its items in insertion order.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, command.List{JSON: asJSON})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the board as JSON")
	return cmd
}
