package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/pipeline"
	"pulse/internal/store"
)

type runOutput struct {
	RunID        string `json:"run_id"`
	ItemCount    int    `json:"item_count"`
	SignalCount  int    `json:"signal_count"`
	FallbackUsed bool   `json:"fallback_used"`
	CachePath    string `json:"cache_path"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one agenda refresh cycle in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				gateway, err := ctx.newGateway()
				if err != nil {
					return err
				}
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				p, err := pipeline.New(cfg, st, gateway, logger)
				if err != nil {
					return err
				}
				result, err := p.Refresh(signalCtx)
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, runOutput{
						RunID:        result.RunID,
						ItemCount:    result.ItemCount,
						SignalCount:  result.SignalCount,
						FallbackUsed: result.FallbackUsed,
						CachePath:    cfg.Paths.CacheFile,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Refresh complete: %d signals from %d items (run %s)\n",
					result.SignalCount, result.ItemCount, shortRunID(result.RunID))
				if result.FallbackUsed {
					fmt.Fprintln(out, "Gateway was unavailable; the report carries the deterministic digest.")
				}
				fmt.Fprintf(out, "Report cached at %s\n", cfg.Paths.CacheFile)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run result as JSON")
	return cmd
}
