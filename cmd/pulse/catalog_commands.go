package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pulse/internal/config"
	"pulse/internal/retrieval"
	"pulse/internal/store"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the demo catalog and the product index",
	}

	catalogCmd.AddCommand(newCatalogSeedCommand(ctx))
	catalogCmd.AddCommand(newCatalogIndexCommand(ctx))

	return catalogCmd
}

func newCatalogSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo customers and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				customers, products, err := st.SeedDemo(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d demo customers and %d products\n", customers, products)
				return nil
			})
		},
	}
}

func newCatalogIndexCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the product embedding index from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				products, err := st.ActiveProducts(cmd.Context())
				if err != nil {
					return err
				}
				if len(products) == 0 {
					return errors.New("catalog is empty; run `pulse catalog seed` first")
				}

				index, err := retrieval.Open(cfg)
				if err != nil {
					return fmt.Errorf("open product index: %w", err)
				}
				indexed, err := index.Rebuild(cmd.Context(), products)
				if err != nil {
					return fmt.Errorf("index catalog: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products into collection %q\n", indexed, cfg.Retrieval.Collection)
				return nil
			})
		},
	}
}
