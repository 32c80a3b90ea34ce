package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kerbaras/storysite/pkg/sources"
)

func newNewCmd(opts *rootOptions) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "new [folder]",
		Short: "Start a new story",
		Long: "Create a story folder under the source directory, copying the story\n" +
			"template folder when there is one. Existing files are left untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			tree := sources.NewTree(opts.cfg)

			created, err := tree.Scaffold(args[0], title)
			if err != nil {
				return err
			}

			slug := sources.Slug(filepath.Clean(args[0]))
			if len(created) == 0 {
				fmt.Fprintf(w, "📁 %s already has every file, nothing to do\n", slug)
				return nil
			}
			for _, path := range created {
				rel, err := filepath.Rel(opts.cfg.Root, path)
				if err != nil {
					rel = path
				}
				fmt.Fprintf(w, "✨ Created %s\n", rel)
			}
			fmt.Fprintf(w, "📝 Story %q will be added to the order on the next build\n", slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title written into skeleton files")
	return cmd
}
