package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pulse/internal/report"
	"pulse/internal/services"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the cached intelligence report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			loaded, err := report.NewCache(cfg.Paths.CacheFile).Load()
			if err != nil {
				marker := report.DegradationMarker(err)
				switch {
				case errors.Is(err, services.ErrNotFound):
					fmt.Fprintf(out, "No cached report (%s). Run `pulse run` or start the daemon with `pulsed`.\n", marker)
					return nil
				case errors.Is(err, services.ErrValidation):
					fmt.Fprintf(out, "Report cache is unreadable (%s); the next refresh rewrites it.\n", marker)
					return nil
				default:
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, loaded)
			}

			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Intelligence Report", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Generated", statusInfo, loaded.Timestamp, colorize))
			fmt.Fprintln(out, renderStatusLine("Weather", statusInfo, loaded.RawInputs.Weather, colorize))
			fmt.Fprintln(out)
			fmt.Fprintln(out, loaded.Intelligence.ContextSummary)
			fmt.Fprintln(out)

			if len(loaded.Intelligence.Signals) == 0 {
				fmt.Fprintln(out, "No marketable signals in this report")
				return nil
			}

			rows := make([][]string, 0, len(loaded.Intelligence.Signals))
			for _, signal := range loaded.Intelligence.Signals {
				rows = append(rows, []string{
					string(signal.Type),
					clip(signal.Title, 48),
					clip(signal.Hook, 72),
				})
			}
			table := renderTable(
				[]string{"Type", "Title", "Marketing Hook"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "Raw inputs: %d feed items, %d selected, %d holidays, %d school breaks\n",
				loaded.RawInputs.NewsItemCount,
				loaded.RawInputs.NewsCount,
				loaded.RawInputs.HolidayCount,
				loaded.RawInputs.SchoolBreakCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the cached report as JSON")
	return cmd
}
