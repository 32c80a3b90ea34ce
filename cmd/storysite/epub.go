package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/storysite/pkg/config"
	"github.com/kerbaras/storysite/pkg/data"
	"github.com/kerbaras/storysite/pkg/integrations"
	"github.com/kerbaras/storysite/pkg/services"
)

func newEpubCmd(opts *rootOptions) *cobra.Command {
	var (
		langs  []string
		outDir string
		title  string
		author string
	)

	cmd := &cobra.Command{
		Use:   "epub",
		Short: "Export the stories as EPUB books",
		Long: "Compile the stories of each language into an EPUB, one chapter per story\n" +
			"in presentation order. The story data file is generated first if missing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			selected, err := selectLanguages(opts.cfg, langs)
			if err != nil {
				return err
			}

			builder, err := newBuilder(w, opts, nil)
			if err != nil {
				return err
			}

			bundle, err := data.ReadBundle(builder.DataFile())
			if errors.Is(err, data.ErrMissingFile) {
				fmt.Fprintln(w, "📦 No story data yet, collecting stories...")
				var result *services.BuildResult
				if result, err = builder.Collect(); err == nil {
					bundle = result.Bundle
				}
			}
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = opts.cfg.Path(opts.cfg.OutputDir)
			}
			exporter := integrations.NewEPubBuilder(outDir, author)
			for _, lang := range selected {
				path, err := exporter.CreateEPub(bundle, lang, title)
				if err != nil {
					return fmt.Errorf("EPUB generation failed for %s: %w", lang.Name, err)
				}
				fmt.Fprintf(w, "📖 EPUB created: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "Language codes to export (default: all)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: the site output directory)")
	cmd.Flags().StringVar(&title, "title", "Stories", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	return cmd
}

func selectLanguages(cfg *config.Config, codes []string) ([]config.Language, error) {
	if len(codes) == 0 {
		return cfg.Languages, nil
	}
	var selected []config.Language
	for _, code := range codes {
		found := false
		for _, lang := range cfg.Languages {
			if lang.Code == code {
				selected = append(selected, lang)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown language %q (configured: %v)", code, cfg.LanguageCodes())
		}
	}
	return selected, nil
}
