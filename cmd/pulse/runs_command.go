package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pulse/internal/api"
	"pulse/internal/config"
	"pulse/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded refresh runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				runs, err := st.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}

				if jsonOut {
					summaries := make([]api.RunSummary, 0, len(runs))
					for _, run := range runs {
						summaries = append(summaries, *api.NewRunSummary(run))
					}
					return writeJSON(cmd, api.RunListResponse{Runs: summaries})
				}

				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No refresh runs recorded yet")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.RunID),
						string(run.Status),
						formatLocalTime(run.StartedAt),
						runDuration(run),
						strconv.Itoa(run.ItemCount),
						strconv.Itoa(run.SignalCount),
						yesNo(run.FallbackUsed),
					})
				}
				table := renderTable(
					[]string{"Run", "Status", "Started", "Duration", "Items", "Signals", "Fallback"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run list as JSON")
	return cmd
}
