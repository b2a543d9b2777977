package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rello/internal/command"
)

func newColumnCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add or remove columns",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Append an empty column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, command.AddColumn{Title: args[0]})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <title>",
		Aliases: []string{"rm"},
		Short:   "Remove the first column with the title, and its items",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCommand(cmd, command.RemoveColumn{Title: args[0]})
		},
	})

	return cmd
}
