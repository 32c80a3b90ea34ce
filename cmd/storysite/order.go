package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kerbaras/storysite/pkg/app"
)

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Rearrange the story order interactively",
		Long:  "Open an editor to move stories up and down and save the order file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder(cmd.OutOrStdout(), opts, nil)
			if err != nil {
				return err
			}
			return app.NewApp(builder).Run()
		},
	}
}
