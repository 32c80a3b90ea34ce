package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kerbaras/storysite/pkg/app/components"
	"github.com/kerbaras/storysite/pkg/services"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Generate story data and pages",
		Long: "Reconcile the story order, write the story data file and render\n" +
			"every story page plus the landing page.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), opts)
		},
	}
}

func runBuild(w io.Writer, opts *rootOptions) error {
	log := components.NewBuildLog(opts.cfg.Root)
	log.Verbose = opts.verbose

	builder, err := newBuilder(w, opts, log)
	if err != nil {
		return err
	}

	result, err := builder.Build()
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, log.Summary(result))
	return nil
}

// newBuilder wires a builder whose progress is printed through log.
func newBuilder(w io.Writer, opts *rootOptions, log *components.BuildLog) (*services.Builder, error) {
	return services.NewBuilder(opts.cfg,
		services.WithLogger(opts.logger),
		services.WithProgress(func(p services.BuildProgress) {
			if log == nil {
				return
			}
			if line := log.Update(p); line != "" {
				fmt.Fprintln(w, line)
			}
		}),
	)
}
