package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const customerColumns = "id, msisdn, name, age, city, tariff_segment, subscription_type, device_model, persona_label, churn_risk, interests, current_intent, remaining_data_gb, bill_status, created_at, updated_at"

const productColumns = "id, product_code, name, category, price, currency, specs, is_active"

const opportunityColumns = "id, customer_id, persona_label, current_intent, suggested_product, marketing_headline, marketing_content, reasoning, created_at, updated_at"

const runColumns = "id, run_id, started_at, finished_at, status, item_count, signal_count, fallback_used, error"

func scanCustomer(scanner interface{ Scan(dest ...any) error }) (*Customer, error) {
	var (
		id            int64
		msisdn        string
		name          string
		age           sql.NullInt64
		city          sql.NullString
		segment       sql.NullString
		subscription  sql.NullString
		device        sql.NullString
		persona       sql.NullString
		churnRisk     sql.NullInt64
		interestsRaw  sql.NullString
		currentIntent sql.NullString
		remainingData sql.NullFloat64
		billStatus    sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&msisdn,
		&name,
		&age,
		&city,
		&segment,
		&subscription,
		&device,
		&persona,
		&churnRisk,
		&interestsRaw,
		&currentIntent,
		&remainingData,
		&billStatus,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	customer := &Customer{
		ID:               id,
		MSISDN:           msisdn,
		Name:             name,
		Age:              int(age.Int64),
		City:             city.String,
		TariffSegment:    segment.String,
		SubscriptionType: subscription.String,
		DeviceModel:      device.String,
		PersonaLabel:     persona.String,
		ChurnRisk:        int(churnRisk.Int64),
		CurrentIntent:    currentIntent.String,
		RemainingDataGB:  remainingData.Float64,
		BillStatus:       billStatus.String,
	}
	customer.Interests = decodeStringList(interestsRaw.String)

	if created, err := parseTimeString(createdRaw.String); err == nil {
		customer.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		customer.UpdatedAt = updated
	}
	return customer, nil
}

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*Product, error) {
	var (
		id       int64
		code     string
		name     string
		category string
		price    sql.NullFloat64
		currency sql.NullString
		specsRaw sql.NullString
		isActive sql.NullInt64
	)

	if err := scanner.Scan(
		&id,
		&code,
		&name,
		&category,
		&price,
		&currency,
		&specsRaw,
		&isActive,
	); err != nil {
		return nil, err
	}

	product := &Product{
		ID:       id,
		Code:     code,
		Name:     name,
		Category: category,
		Price:    price.Float64,
		Currency: currency.String,
		IsActive: isActive.Int64 != 0,
	}
	if specsRaw.Valid && specsRaw.String != "" {
		var specs map[string]any
		if err := json.Unmarshal([]byte(specsRaw.String), &specs); err == nil {
			product.Specs = specs
		}
	}
	return product, nil
}

func scanOpportunity(scanner interface{ Scan(dest ...any) error }) (*Opportunity, error) {
	var (
		id         int64
		customerID int64
		persona    sql.NullString
		intent     sql.NullString
		product    sql.NullString
		headline   sql.NullString
		content    sql.NullString
		reasoning  sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&customerID,
		&persona,
		&intent,
		&product,
		&headline,
		&content,
		&reasoning,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	opportunity := &Opportunity{
		ID:                id,
		CustomerID:        customerID,
		PersonaLabel:      persona.String,
		CurrentIntent:     intent.String,
		SuggestedProduct:  product.String,
		MarketingHeadline: headline.String,
		MarketingContent:  content.String,
		Reasoning:         reasoning.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		opportunity.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		opportunity.UpdatedAt = updated
	}
	return opportunity, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          int64
		runID       string
		startedRaw  sql.NullString
		finishedRaw sql.NullString
		statusStr   string
		itemCount   sql.NullInt64
		signalCount sql.NullInt64
		fallback    sql.NullInt64
		errMessage  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&startedRaw,
		&finishedRaw,
		&statusStr,
		&itemCount,
		&signalCount,
		&fallback,
		&errMessage,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:          id,
		RunID:       runID,
		Status:      RunStatus(statusStr),
		ItemCount:   int(itemCount.Int64),
		SignalCount: int(signalCount.Int64),
		Error:       errMessage.String,
	}
	if fallback.Valid {
		run.FallbackUsed = fallback.Int64 != 0
	}

	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func encodeStringList(values []string) any {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(data)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
