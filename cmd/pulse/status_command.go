package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pulse/internal/api"
	"pulse/internal/config"
	"pulse/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and data status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp api.StatusResponse
			apiErr := ctx.apiGet(cmd.Context(), "/api/status", &resp)
			daemonUp := apiErr == nil
			if apiErr != nil && !isDaemonDown(apiErr) {
				return apiErr
			}
			if !daemonUp {
				// No daemon listening; answer from the store directly.
				if err := ctx.withStore(func(cfg *config.Config, st *store.Store) error {
					local, err := localStatus(cmd, cfg, st)
					if err != nil {
						return err
					}
					resp = local
					return nil
				}); err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			if resp.Daemon.Running {
				detail := fmt.Sprintf("running (pid %d)", resp.Daemon.PID)
				if resp.Daemon.StartedAt != "" {
					detail = fmt.Sprintf("running (pid %d, since %s)", resp.Daemon.PID, resp.Daemon.StartedAt)
				}
				fmt.Fprintln(out, renderStatusLine("State", statusOK, detail, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("State", statusWarn, "not running (start it with `pulsed`)", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Database", statusInfo, resp.DatabasePath, colorize))
			fmt.Fprintln(out, renderStatusLine("Report cache", statusInfo, resp.CachePath, colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Data", colorize) {
				fmt.Fprintln(out, line)
			}
			table := renderTable(
				[]string{"Records", "Count"},
				[][]string{
					{"Customers", strconv.FormatInt(resp.Customers, 10)},
					{"Products", strconv.FormatInt(resp.Products, 10)},
					{"Opportunities", strconv.FormatInt(resp.Opportunities, 10)},
				},
				[]columnAlignment{alignLeft, alignRight},
			)
			fmt.Fprintln(out, table)

			for _, line := range renderSectionHeader("Latest Run", colorize) {
				fmt.Fprintln(out, line)
			}
			if resp.LatestRun == nil {
				fmt.Fprintln(out, "No refresh runs recorded yet")
				return nil
			}
			run := resp.LatestRun
			kind := statusOK
			detail := fmt.Sprintf("%d signals from %d items (fallback: %s)", run.SignalCount, run.ItemCount, yesNo(run.FallbackUsed))
			switch run.Status {
			case string(store.RunStatusFailed):
				kind = statusError
				detail = run.Error
			case string(store.RunStatusRunning):
				kind = statusInfo
				detail = "in progress"
			}
			fmt.Fprintln(out, renderStatusLine(run.Status, kind, detail, colorize))
			fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt, colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the status as JSON")
	return cmd
}

func localStatus(cmd *cobra.Command, cfg *config.Config, st *store.Store) (api.StatusResponse, error) {
	resp := api.StatusResponse{
		DatabasePath: cfg.DatabasePath(),
		CachePath:    cfg.Paths.CacheFile,
	}

	reqCtx := cmd.Context()
	var err error
	if resp.Customers, err = st.CountCustomers(reqCtx); err != nil {
		return resp, err
	}
	if resp.Products, err = st.CountProducts(reqCtx); err != nil {
		return resp, err
	}
	if resp.Opportunities, err = st.CountOpportunities(reqCtx); err != nil {
		return resp, err
	}
	latest, err := st.LatestRun(reqCtx)
	if err != nil {
		return resp, err
	}
	if latest != nil {
		resp.LatestRun = api.NewRunSummary(latest)
	}
	return resp, nil
}
