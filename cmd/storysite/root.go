package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kerbaras/storysite/pkg/app/styles"
	"github.com/kerbaras/storysite/pkg/config"
)

type rootOptions struct {
	root    string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "storysite",
		Short: "Build a bilingual story website",
		Long: "Build a static English/Persian story site from stories-source/.\n" +
			"Running without a subcommand builds the site.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.root, "root", "C", ".", "Project directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print diagnostics to stderr")

	rootCmd.AddCommand(newBuildCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newOrderCmd(opts))
	rootCmd.AddCommand(newNewCmd(opts))
	rootCmd.AddCommand(newEpubCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

func (o *rootOptions) setup() error {
	o.logger = zap.NewNop()
	if o.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		o.logger = logger
	}

	cfg, err := config.Load(o.root)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger.Debug("loaded config",
		zap.String("root", cfg.Root),
		zap.String("source", cfg.SourceDir),
		zap.String("output", cfg.OutputDir),
		zap.Strings("languages", cfg.LanguageCodes()))
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, styles.StatusError.Render("❌ "+err.Error()))
}
