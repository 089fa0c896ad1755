package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pulse/internal/store"
	"pulse/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	customer, err := st.UpsertCustomer(ctx, &store.Customer{
		MSISDN:       "5421112233",
		Name:         "Test Müşteri",
		PersonaLabel: "[Test] Persona özeti.",
	})
	if err != nil {
		t.Fatalf("UpsertCustomer failed: %v", err)
	}
	if customer.ID == 0 {
		t.Fatal("expected customer ID to be assigned")
	}

	fetched, err := st.GetCustomerByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetCustomerByID failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Test Müşteri" {
		t.Fatalf("unexpected fetched customer: %#v", fetched)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	ctx := context.Background()
	if _, err := first.UpsertCustomer(ctx, &store.Customer{MSISDN: "5420000001", Name: "Kalıcı Kayıt"}); err != nil {
		t.Fatalf("UpsertCustomer failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	customer, err := second.GetCustomerByMSISDN(ctx, "5420000001")
	if err != nil {
		t.Fatalf("GetCustomerByMSISDN failed: %v", err)
	}
	if customer == nil || customer.Name != "Kalıcı Kayıt" {
		t.Fatalf("expected persisted customer, got %#v", customer)
	}
}

func TestUpsertCustomerReplacesByMSISDN(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	original, err := st.UpsertCustomer(ctx, &store.Customer{
		MSISDN:        "5425556677",
		Name:          "Eski Ad",
		PersonaLabel:  "[Eski] Persona.",
		Interests:     []string{"Müzik"},
		CurrentIntent: "Eski niyet",
	})
	if err != nil {
		t.Fatalf("UpsertCustomer failed: %v", err)
	}

	updated, err := st.UpsertCustomer(ctx, &store.Customer{
		MSISDN:        "5425556677",
		Name:          "Yeni Ad",
		PersonaLabel:  "[Yeni] Persona.",
		Interests:     []string{"Oyun", "Dizi/Film"},
		CurrentIntent: "Yeni niyet",
	})
	if err != nil {
		t.Fatalf("second UpsertCustomer failed: %v", err)
	}

	if updated.ID != original.ID {
		t.Fatalf("expected same row to be updated, got id %d vs %d", updated.ID, original.ID)
	}
	if updated.Name != "Yeni Ad" || updated.CurrentIntent != "Yeni niyet" {
		t.Fatalf("unexpected updated customer: %#v", updated)
	}
	if len(updated.Interests) != 2 || updated.Interests[0] != "Oyun" {
		t.Fatalf("expected interests replaced, got %v", updated.Interests)
	}

	count, err := st.CountCustomers(ctx)
	if err != nil {
		t.Fatalf("CountCustomers failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single customer row, got %d", count)
	}
}

func TestCustomerBatchSkipsUnprocessedPersona(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := st.UpsertCustomer(ctx, &store.Customer{
			MSISDN:       fmt.Sprintf("542000010%d", i),
			Name:         fmt.Sprintf("İşlenmiş %d", i),
			PersonaLabel: "[Persona] Hazır.",
		}); err != nil {
			t.Fatalf("UpsertCustomer failed: %v", err)
		}
	}
	if _, err := st.UpsertCustomer(ctx, &store.Customer{
		MSISDN: "5420000999",
		Name:   "Bekleyen",
	}); err != nil {
		t.Fatalf("UpsertCustomer failed: %v", err)
	}

	batch, err := st.CustomerBatch(ctx, 10, 0)
	if err != nil {
		t.Fatalf("CustomerBatch failed: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 processed customers, got %d", len(batch))
	}
	for _, customer := range batch {
		if customer.PersonaLabel == store.PersonaUnprocessed {
			t.Fatalf("unprocessed customer leaked into batch: %#v", customer)
		}
	}

	paged, err := st.CustomerBatch(ctx, 2, 2)
	if err != nil {
		t.Fatalf("CustomerBatch with offset failed: %v", err)
	}
	if len(paged) != 1 {
		t.Fatalf("expected 1 customer on second page, got %d", len(paged))
	}
}

func TestUpsertProductRoundTripsSpecs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	product, err := st.UpsertProduct(ctx, &store.Product{
		Code:     "TRF-9001",
		Name:     "Test Tarife 10GB",
		Category: "Tariff",
		Price:    249,
		IsActive: true,
		Specs:    map[string]any{"segment": "FreeZone", "contract_months": 12},
	})
	if err != nil {
		t.Fatalf("UpsertProduct failed: %v", err)
	}
	if product.Currency != "TRY" {
		t.Fatalf("expected TRY currency default, got %q", product.Currency)
	}
	if product.Specs["segment"] != "FreeZone" {
		t.Fatalf("expected specs to round-trip, got %#v", product.Specs)
	}

	product.IsActive = false
	if _, err := st.UpsertProduct(ctx, product); err != nil {
		t.Fatalf("deactivating UpsertProduct failed: %v", err)
	}

	active, err := st.ActiveProducts(ctx)
	if err != nil {
		t.Fatalf("ActiveProducts failed: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active products, got %d", len(active))
	}
}

func TestUpsertOpportunityReplacesPerCustomer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	customer, err := st.UpsertCustomer(ctx, &store.Customer{
		MSISDN:       "5427778899",
		Name:         "Fırsat Müşterisi",
		PersonaLabel: "[Persona] Hazır.",
	})
	if err != nil {
		t.Fatalf("UpsertCustomer failed: %v", err)
	}

	first, err := st.UpsertOpportunity(ctx, &store.Opportunity{
		CustomerID:        customer.ID,
		PersonaLabel:      customer.PersonaLabel,
		SuggestedProduct:  "Test Paket",
		MarketingHeadline: "İlk manşet",
		Reasoning:         `{"why":["ilk"]}`,
	})
	if err != nil {
		t.Fatalf("UpsertOpportunity failed: %v", err)
	}

	second, err := st.UpsertOpportunity(ctx, &store.Opportunity{
		CustomerID:        customer.ID,
		PersonaLabel:      customer.PersonaLabel,
		SuggestedProduct:  "Yeni Paket",
		MarketingHeadline: "Yeni manşet",
		Reasoning:         `{"why":["yeni"]}`,
	})
	if err != nil {
		t.Fatalf("second UpsertOpportunity failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected opportunity row reuse, got id %d vs %d", second.ID, first.ID)
	}
	if second.SuggestedProduct != "Yeni Paket" {
		t.Fatalf("unexpected opportunity: %#v", second)
	}

	count, err := st.CountOpportunities(ctx)
	if err != nil {
		t.Fatalf("CountOpportunities failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one opportunity row, got %d", count)
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	run, err := st.StartRun(ctx, "run-123")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.Status != store.RunStatusRunning {
		t.Fatalf("expected running status, got %s", run.Status)
	}
	if run.StartedAt.IsZero() {
		t.Fatal("expected started timestamp")
	}

	run.Status = store.RunStatusCompleted
	run.ItemCount = 42
	run.SignalCount = 14
	run.FallbackUsed = true
	if err := st.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	stored, err := st.GetRun(ctx, "run-123")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if stored.Status != store.RunStatusCompleted || stored.SignalCount != 14 || !stored.FallbackUsed {
		t.Fatalf("unexpected stored run: %#v", stored)
	}
	if stored.FinishedAt == nil || stored.FinishedAt.Before(stored.StartedAt.Add(-time.Second)) {
		t.Fatalf("unexpected finished timestamp: %#v", stored.FinishedAt)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := st.StartRun(ctx, fmt.Sprintf("run-%d", i)); err != nil {
			t.Fatalf("StartRun failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" || runs[1].RunID != "run-1" {
		t.Fatalf("unexpected run order: %s, %s", runs[0].RunID, runs[1].RunID)
	}

	latest, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest == nil || latest.RunID != "run-2" {
		t.Fatalf("unexpected latest run: %#v", latest)
	}
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	customers, products, err := st.SeedDemo(ctx)
	if err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if customers == 0 || products == 0 {
		t.Fatalf("expected demo rows, got customers=%d products=%d", customers, products)
	}

	if _, _, err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("second SeedDemo failed: %v", err)
	}

	customerCount, err := st.CountCustomers(ctx)
	if err != nil {
		t.Fatalf("CountCustomers failed: %v", err)
	}
	if customerCount != int64(customers) {
		t.Fatalf("reseed duplicated customers: %d vs %d", customerCount, customers)
	}

	batch, err := st.CustomerBatch(ctx, 100, 0)
	if err != nil {
		t.Fatalf("CustomerBatch failed: %v", err)
	}
	if len(batch) != customers-1 {
		t.Fatalf("expected one unprocessed demo customer, batch=%d total=%d", len(batch), customers)
	}
}
