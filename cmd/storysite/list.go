package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kerbaras/storysite/pkg/data"
	"github.com/kerbaras/storysite/pkg/services"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the story order",
		Long:  "Display the story order the next build will use, with the status of every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			builder, err := newBuilder(w, opts, nil)
			if err != nil {
				return err
			}
			entries, err := builder.Plan()
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintf(w, "📚 No stories yet. Use 'storysite new <slug>' to start one.\n")
				return nil
			}

			titles := map[string]string{}
			bundle, err := data.ReadBundle(builder.DataFile())
			if err != nil && !errors.Is(err, data.ErrMissingFile) {
				return err
			}
			if bundle != nil {
				lang := opts.cfg.Primary().Code
				for _, story := range bundle.Stories {
					titles[story.Slug] = story.Get(lang).Title
				}
			}

			columns := []table.Column{
				{Title: "#", Width: 4},
				{Title: "Slug", Width: 30},
				{Title: "Title", Width: 34},
				{Title: "Status", Width: 16},
				{Title: "Folder", Width: 30},
			}

			rows := []table.Row{}
			for _, entry := range entries {
				folder := ""
				if entry.Dir != "" {
					folder, _ = filepath.Rel(opts.cfg.Root, entry.Dir)
				}
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", entry.Position),
					truncateString(entry.Slug, 28),
					truncateString(titles[entry.Slug], 32),
					string(entry.Status),
					truncateString(folder, 28),
				})
			}

			t := table.New(
				table.WithColumns(columns),
				table.WithRows(rows),
				table.WithFocused(false),
				table.WithHeight(len(rows)),
			)

			s := table.DefaultStyles()
			s.Header = s.Header.
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				BorderBottom(true).
				Bold(true)
			s.Selected = s.Cell
			t.SetStyles(s)

			fmt.Fprintf(w, "\n📚 Story order (%d stories%s)\n\n", len(entries), summarizeStatus(entries))
			fmt.Fprintln(w, t.View())
			return nil
		},
	}
}

func summarizeStatus(entries []services.PlanEntry) string {
	counts := map[services.EntryStatus]int{}
	for _, e := range entries {
		counts[e.Status]++
	}
	summary := ""
	for _, status := range []services.EntryStatus{services.EntryNew, services.EntryMissing} {
		if counts[status] > 0 {
			summary += fmt.Sprintf(", %d %s", counts[status], status)
		}
	}
	return summary
}

func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
