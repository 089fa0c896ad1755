package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pulse/internal/logging"
	"pulse/internal/logs"
)

const followPollInterval = 500 * time.Millisecond

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lineCount int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := logging.FilePath(cfg)
			if path == "" {
				return errors.New("file logging is disabled (set [logging] directory)")
			}

			out := cmd.OutOrStdout()
			lines, offset, err := logs.Tail(path, lineCount)
			if err != nil {
				return err
			}
			if len(lines) == 0 && !follow {
				fmt.Fprintf(out, "No log lines at %s\n", path)
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			ticker := time.NewTicker(followPollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-followCtx.Done():
					return nil
				case <-ticker.C:
					fresh, next, err := logs.ReadFrom(path, offset)
					if err != nil {
						return err
					}
					offset = next
					for _, line := range fresh {
						fmt.Fprintln(out, line)
					}
				}
			}
		},
	}

	cmd.Flags().IntVarP(&lineCount, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	return cmd
}
