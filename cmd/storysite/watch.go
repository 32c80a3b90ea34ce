package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kerbaras/storysite/pkg/app/components"
	"github.com/kerbaras/storysite/pkg/services"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the site whenever stories or templates change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "👀 Watching for changes (ctrl+c to stop)")
			return runWatcher(ctx, w, opts, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", services.DefaultDebounce, "Quiet period before rebuilding")
	return cmd
}

// runWatcher blocks until ctx is done, printing a summary after every build.
func runWatcher(ctx context.Context, w io.Writer, opts *rootOptions, debounce time.Duration) error {
	var log *components.BuildLog
	builder, err := services.NewBuilder(opts.cfg,
		services.WithLogger(opts.logger),
		services.WithProgress(func(p services.BuildProgress) {
			if line := log.Update(p); line != "" {
				fmt.Fprintln(w, line)
			}
		}),
	)
	if err != nil {
		return err
	}

	// Every build starts with a fresh log so the summary covers that run.
	log = components.NewBuildLog(opts.cfg.Root)
	log.Verbose = opts.verbose
	watcher, err := services.NewWatcher(builder, func(result *services.BuildResult, err error) {
		if err != nil {
			printError(w, err)
		} else {
			fmt.Fprintln(w, log.Summary(result))
		}
		fmt.Fprintf(w, "\n⏳ %s waiting for changes...\n", time.Now().Format("15:04:05"))
		log = components.NewBuildLog(opts.cfg.Root)
		log.Verbose = opts.verbose
	})
	if err != nil {
		return err
	}
	watcher.SetDebounce(debounce)

	return watcher.Run(ctx)
}
