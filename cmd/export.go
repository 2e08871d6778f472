package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the focus history",
	Long:  "Export the logged focus sessions in markdown or CSV format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md or csv")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "all", "Time period: week, month, or all")
}

func runExport(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var days int
	switch exportPeriod {
	case "week":
		days = 7
	case "month":
		days = 30
	case "all":
	default:
		return fmt.Errorf("%w: period %q must be week, month or all", domain.ErrInvalidSetting, exportPeriod)
	}

	entries, err := app.metrics.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch sessions: %w", err)
	}
	if days > 0 {
		since := domain.ShiftDateKey(app.clock.Now(), -(days - 1))
		kept := entries[:0:0]
		for _, e := range entries {
			if e.Date >= since {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	switch exportFormat {
	case "csv":
		return exportCSV(out, entries)
	case "md", "markdown":
		report := exportMarkdown(entries)
		if tui.IsTerminal(out) {
			report = tui.RenderMarkdown(report, tui.TerminalWidth())
		}
		_, err := io.WriteString(out, report)
		return err
	default:
		return fmt.Errorf("%w: format %q must be md or csv", domain.ErrInvalidSetting, exportFormat)
	}
}

func exportMarkdown(entries domain.SessionLog) string {
	var b strings.Builder
	b.WriteString("# Focus Session Export\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", app.clock.Now().Format("2006-01-02 15:04"))

	if len(entries) == 0 {
		b.WriteString("No focus sessions logged.\n")
		return b.String()
	}

	// Entries are in append order, so each date forms one run.
	total := 0
	for i := 0; i < len(entries); {
		date := entries[i].Date
		j := i
		minutes := 0
		for j < len(entries) && entries[j].Date == date {
			minutes += entries[j].Minutes
			j++
		}
		fmt.Fprintf(&b, "## %s (%s)\n", date, domain.FormatMinutes(minutes))
		for _, e := range entries[i:j] {
			if e.Branch != "" {
				fmt.Fprintf(&b, "- %s on `%s`\n", domain.FormatMinutes(e.Minutes), e.Branch)
			} else {
				fmt.Fprintf(&b, "- %s\n", domain.FormatMinutes(e.Minutes))
			}
		}
		b.WriteString("\n")
		total += minutes
		i = j
	}
	fmt.Fprintf(&b, "**Total:** %s in %d %s\n", domain.FormatMinutes(total), len(entries), pluralize(len(entries), "session", "sessions"))
	return b.String()
}

func exportCSV(out io.Writer, entries domain.SessionLog) error {
	w := csv.NewWriter(out)
	_ = w.Write([]string{"date", "minutes", "branch"})
	for _, e := range entries {
		_ = w.Write([]string{e.Date, strconv.Itoa(e.Minutes), e.Branch})
	}
	w.Flush()
	return w.Error()
}
