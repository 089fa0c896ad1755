package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertCustomer inserts a customer or replaces the existing row with the
// same MSISDN. Used by seeding; the pipeline never mutates customers.
func (s *Store) UpsertCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if customer.MSISDN == "" {
		return nil, errors.New("customer msisdn is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	persona := customer.PersonaLabel
	if persona == "" {
		persona = PersonaUnprocessed
	}

	err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO customers (
            msisdn, name, age, city, tariff_segment, subscription_type,
            device_model, persona_label, churn_risk, interests, current_intent,
            remaining_data_gb, bill_status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(msisdn) DO UPDATE SET
            name = excluded.name,
            age = excluded.age,
            city = excluded.city,
            tariff_segment = excluded.tariff_segment,
            subscription_type = excluded.subscription_type,
            device_model = excluded.device_model,
            persona_label = excluded.persona_label,
            churn_risk = excluded.churn_risk,
            interests = excluded.interests,
            current_intent = excluded.current_intent,
            remaining_data_gb = excluded.remaining_data_gb,
            bill_status = excluded.bill_status,
            updated_at = excluded.updated_at`,
		customer.MSISDN,
		customer.Name,
		customer.Age,
		nullableString(customer.City),
		nullableString(customer.TariffSegment),
		nullableString(customer.SubscriptionType),
		nullableString(customer.DeviceModel),
		persona,
		customer.ChurnRisk,
		encodeStringList(customer.Interests),
		nullableString(customer.CurrentIntent),
		customer.RemainingDataGB,
		nullableString(customer.BillStatus),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	// LastInsertId is stale when the conflict branch ran, so refetch by key.
	return s.GetCustomerByMSISDN(ctx, customer.MSISDN)
}

// GetCustomerByMSISDN fetches a customer by phone number.
func (s *Store) GetCustomerByMSISDN(ctx context.Context, msisdn string) (*Customer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE msisdn = ?`, msisdn)
	customer, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer by msisdn: %w", err)
	}
	return customer, nil
}

// GetCustomerByID fetches a customer by identifier.
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*Customer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	customer, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return customer, nil
}

// CustomerBatch returns persona-processed customers ordered by identifier.
// Rows still carrying the unprocessed persona marker are excluded; limit and
// offset page through the remainder.
func (s *Store) CustomerBatch(ctx context.Context, limit, offset int) ([]*Customer, error) {
	if limit <= 0 {
		return nil, nil
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+customerColumns+` FROM customers
         WHERE persona_label IS NOT NULL AND persona_label != ?
         ORDER BY id ASC LIMIT ? OFFSET ?`,
		PersonaUnprocessed,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query customer batch: %w", err)
	}
	defer rows.Close()

	var customers []*Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// CountCustomers returns the total number of customer rows.
func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}
