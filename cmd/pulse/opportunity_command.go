package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pulse/internal/api"
	"pulse/internal/config"
	"pulse/internal/store"
)

func newOpportunityCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "opportunity <customer-id>",
		Short: "Show the stored sales opportunity for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("customer id must be an integer, got %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				opportunity, err := st.OpportunityByCustomerID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if opportunity == nil {
					return fmt.Errorf("no sales opportunity stored for customer %d", id)
				}

				if jsonOut {
					return writeJSON(cmd, api.NewOpportunityResponse(opportunity))
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Sales Opportunity", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Customer", statusInfo, strconv.FormatInt(opportunity.CustomerID, 10), colorize))
				fmt.Fprintln(out, renderStatusLine("Persona", statusInfo, opportunity.PersonaLabel, colorize))
				fmt.Fprintln(out, renderStatusLine("Intent", statusInfo, opportunity.CurrentIntent, colorize))
				fmt.Fprintln(out, renderStatusLine("Product", statusOK, opportunity.SuggestedProduct, colorize))
				fmt.Fprintln(out, renderStatusLine("Headline", statusInfo, opportunity.MarketingHeadline, colorize))
				fmt.Fprintln(out, renderStatusLine("Created", statusInfo, formatLocalTime(opportunity.CreatedAt), colorize))
				fmt.Fprintln(out)
				fmt.Fprintln(out, opportunity.MarketingContent)

				if reasoning := formatReasoning(opportunity.Reasoning); reasoning != "" {
					fmt.Fprintln(out)
					for _, line := range renderSectionHeader("Reasoning", colorize) {
						fmt.Fprintln(out, line)
					}
					fmt.Fprintln(out, reasoning)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the opportunity as JSON")
	return cmd
}

// formatReasoning pretty-prints the stored reasoning blob; non-JSON blobs
// pass through untouched.
func formatReasoning(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return trimmed
	}
	return buf.String()
}
