package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/retrieval"
	"pulse/internal/sales"
	"pulse/internal/store"
)

type salesOutput struct {
	Processed int `json:"processed"`
}

func newSalesCommand(ctx *commandContext) *cobra.Command {
	var batchSize int
	var maxCustomers int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Run the sales flow against the cached report",
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
				index, err := retrieval.Open(cfg)
				if err != nil {
					return fmt.Errorf("open product index: %w", err)
				}

				if index.Count() == 0 {
					products, err := st.ActiveProducts(signalCtx)
					if err != nil {
						return err
					}
					if len(products) == 0 {
						return errors.New("catalog is empty; run `pulse catalog seed` first")
					}
					indexed, err := index.Rebuild(signalCtx, products)
					if err != nil {
						return fmt.Errorf("index catalog: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products\n", indexed)
				}

				flow := sales.NewFlow(cfg, st, index, gateway, logger)
				processed, err := flow.Run(signalCtx, sales.RunOptions{
					BatchSize:    batchSize,
					MaxCustomers: maxCustomers,
				})
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, salesOutput{Processed: processed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sales flow complete: stored opportunities for %d customers\n", processed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Customers fetched per batch (defaults to configuration)")
	cmd.Flags().IntVar(&maxCustomers, "max-customers", 0, "Upper bound on customers processed (defaults to configuration)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
