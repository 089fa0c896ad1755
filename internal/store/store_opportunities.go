package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertOpportunity inserts a sales opportunity or replaces the existing one
// for the same customer. Each customer holds at most one current opportunity.
func (s *Store) UpsertOpportunity(ctx context.Context, opportunity *Opportunity) (*Opportunity, error) {
	if opportunity == nil {
		return nil, errors.New("opportunity is nil")
	}
	if opportunity.CustomerID == 0 {
		return nil, errors.New("opportunity customer id is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO sales_opportunities (
            customer_id, persona_label, current_intent, suggested_product,
            marketing_headline, marketing_content, reasoning, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(customer_id) DO UPDATE SET
            persona_label = excluded.persona_label,
            current_intent = excluded.current_intent,
            suggested_product = excluded.suggested_product,
            marketing_headline = excluded.marketing_headline,
            marketing_content = excluded.marketing_content,
            reasoning = excluded.reasoning,
            updated_at = excluded.updated_at`,
		opportunity.CustomerID,
		nullableString(opportunity.PersonaLabel),
		nullableString(opportunity.CurrentIntent),
		nullableString(opportunity.SuggestedProduct),
		nullableString(opportunity.MarketingHeadline),
		nullableString(opportunity.MarketingContent),
		nullableString(opportunity.Reasoning),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert opportunity: %w", err)
	}

	return s.OpportunityByCustomerID(ctx, opportunity.CustomerID)
}

// OpportunityByCustomerID fetches the current opportunity for a customer.
func (s *Store) OpportunityByCustomerID(ctx context.Context, customerID int64) (*Opportunity, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+opportunityColumns+` FROM sales_opportunities WHERE customer_id = ?`,
		customerID,
	)
	opportunity, err := scanOpportunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return opportunity, nil
}

// ListOpportunities returns opportunities ordered by most recent update.
func (s *Store) ListOpportunities(ctx context.Context, limit int) ([]*Opportunity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+opportunityColumns+` FROM sales_opportunities ORDER BY updated_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []*Opportunity
	for rows.Next() {
		opportunity, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opportunities = append(opportunities, opportunity)
	}
	return opportunities, rows.Err()
}

// CountOpportunities returns the number of stored opportunities.
func (s *Store) CountOpportunities(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sales_opportunities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count opportunities: %w", err)
	}
	return count, nil
}
