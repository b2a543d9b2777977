package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rello/internal/shell"
	"github.com/mesh-intelligence/rello/pkg/types"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long:  "Read commands line by line against one board until exit, quit, or end of input.\nThe board is saved once when the session ends.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
			return a.withBoard(func(b *types.Board) (bool, error) {
				changed, err := sh.Run(ctx, b)
				if err != nil {
					return changed, sysError(err)
				}
				return changed, nil
			})
		},
	}
}
