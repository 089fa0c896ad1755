package sales

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"pulse/internal/config"
	"pulse/internal/grounding"
	"pulse/internal/logging"
	"pulse/internal/report"
	"pulse/internal/retrieval"
	"pulse/internal/services"
	"pulse/internal/services/llm"
	"pulse/internal/store"
	"pulse/internal/textutil"
)

const (
	strategistTemperature = 0.4
	brainTemperature      = 0.35

	// noNewsSelected is the strategist's own marker for "no agenda fit".
	noNewsSelected = "YOK"

	// defaultSuggestedProduct fills the opportunity when neither the
	// generator nor the candidates produced a product name.
	defaultSuggestedProduct = "Size Özel Fırsat"

	maxStrategistTitles = 25
	maxBrainCandidates  = 8
	maxCandidateDocLen  = 700

	maxPersonaLen   = 600
	maxIntentLen    = 120
	maxProductLen   = 200
	maxHeadlineLen  = 140
	maxContentLen   = 900
	maxReasoningLen = 6000
)

// Flow wires the per-customer sales stages together.
type Flow struct {
	cfg     *config.Config
	store   *store.Store
	index   *retrieval.Index
	gateway *llm.Client
	logger  *slog.Logger
}

// NewFlow builds a sales flow over the given collaborators.
func NewFlow(cfg *config.Config, st *store.Store, index *retrieval.Index, gateway *llm.Client, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Flow{
		cfg:     cfg,
		store:   st,
		index:   index,
		gateway: gateway,
		logger:  logging.WithComponent(logger, "sales"),
	}
}

// RunOptions bound one sales run. Zero values fall back to configuration.
type RunOptions struct {
	BatchSize    int
	MaxCustomers int
}

// Run processes persona-ready customers in batches and upserts one
// opportunity per customer. Per-customer failures are logged and skipped;
// the returned count is the number of customers that produced an
// opportunity.
func (f *Flow) Run(ctx context.Context, opts RunOptions) (int, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = f.cfg.Sales.BatchSize
	}
	maxCustomers := opts.MaxCustomers
	if maxCustomers <= 0 {
		maxCustomers = f.cfg.Sales.MaxCustomers
	}

	world := LoadWorldContext(report.NewCache(f.cfg.Paths.CacheFile))
	if world.Degraded() {
		f.logger.Warn("sales running without agenda context",
			logging.String("context_state", world.ContextSummary))
	} else {
		f.logger.Info("agenda context loaded",
			logging.Int("news_titles", len(world.NewsTitles)))
	}

	processed := 0
	seen := 0
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if seen >= maxCustomers {
			break
		}

		batch, err := f.store.CustomerBatch(ctx, batchSize, offset)
		if err != nil {
			return processed, services.Wrap(services.ErrExternal, "sales", "customer batch", "", err)
		}
		if len(batch) == 0 {
			break
		}
		f.logger.Info("processing customer batch", logging.Int("customers", len(batch)))

		for _, customer := range batch {
			if err := ctx.Err(); err != nil {
				return processed, err
			}
			if seen >= maxCustomers {
				break
			}
			seen++

			customerCtx := services.WithCustomerID(ctx, customer.ID)
			if err := f.processCustomer(customerCtx, customer, world); err != nil {
				logging.WithContext(customerCtx, f.logger).Warn("customer skipped", logging.Error(err))
				continue
			}
			processed++
		}

		offset += batchSize
	}

	f.logger.Info("sales run finished",
		logging.Int("processed", processed),
		logging.Int("seen", seen))
	return processed, nil
}

func (f *Flow) processCustomer(ctx context.Context, customer *store.Customer, world WorldContext) error {
	logger := logging.WithContext(ctx, f.logger)
	strategy := f.decideStrategy(ctx, customer, world)

	candidates, err := f.index.Search(ctx, strategy.SearchQuery, f.cfg.Retrieval.CandidateCount)
	if err != nil {
		return services.Wrap(services.ErrExternal, "sales", "candidate retrieval", strategy.SearchQuery, err)
	}

	decision, err := f.runBrain(ctx, customer, world, strategy, candidates)
	if err != nil {
		return err
	}

	grounded := grounding.Validate(decision.ChosenProductCode, decision.SuggestedProduct, candidates)
	evidence := grounding.NewEvidence(strategy.SelectedNews, strategy.SearchQuery, grounded, candidates)
	if grounded.Fallback {
		logger.Debug("grounding fallback",
			logging.String("proposed_code", decision.ChosenProductCode),
			logging.String("chosen_code", grounded.ChosenCode))
	}

	suggested := safeStr(decision.SuggestedProduct, maxProductLen)
	if suggested == "" {
		suggested = safeStr(grounded.ChosenName, maxProductLen)
	}
	if suggested == "" {
		suggested = defaultSuggestedProduct
	}

	reasoning := buildReasoning(decision.Reasoning, strategy.Reasoning, evidence)

	opportunity := &store.Opportunity{
		CustomerID:        customer.ID,
		PersonaLabel:      safeStr(customer.PersonaLabel, maxPersonaLen),
		CurrentIntent:     safeStr(customer.CurrentIntent, maxIntentLen),
		SuggestedProduct:  suggested,
		MarketingHeadline: safeStr(decision.MarketingHeadline, maxHeadlineLen),
		MarketingContent:  safeStr(decision.MarketingContent, maxContentLen),
		Reasoning:         reasoning,
	}
	if _, err := f.store.UpsertOpportunity(ctx, opportunity); err != nil {
		return services.Wrap(services.ErrExternal, "sales", "persist opportunity", "", err)
	}

	logger.Info("opportunity stored",
		logging.String("product", suggested),
		logging.Bool("grounding_fallback", grounded.Fallback))
	return nil
}

// Strategy is the strategist stage's output.
type Strategy struct {
	SelectedNews string `json:"selected_news_title"`
	Reasoning    string `json:"strategy_reasoning"`
	SearchQuery  string `json:"search_query"`
}

type customerView struct {
	ID               int64    `json:"id"`
	FullName         string   `json:"full_name"`
	FirstName        string   `json:"first_name"`
	Age              int      `json:"age"`
	City             string   `json:"city"`
	TariffSegment    string   `json:"tariff_segment"`
	SubscriptionType string   `json:"subscription_type"`
	DeviceModel      string   `json:"device_model"`
	Persona          string   `json:"persona"`
	Risk             int      `json:"risk"`
	Interests        []string `json:"interests"`
	Intent           string   `json:"intent"`
	DataLeftGB       float64  `json:"data_left_gb"`
	BillStatus       string   `json:"bill_status"`
}

func newCustomerView(customer *store.Customer) customerView {
	return customerView{
		ID:               customer.ID,
		FullName:         customer.Name,
		FirstName:        customer.FirstName(),
		Age:              customer.Age,
		City:             customer.City,
		TariffSegment:    customer.TariffSegment,
		SubscriptionType: customer.SubscriptionType,
		DeviceModel:      customer.DeviceModel,
		Persona:          customer.PersonaLabel,
		Risk:             customer.ChurnRisk,
		Interests:        customer.Interests,
		Intent:           customer.CurrentIntent,
		DataLeftGB:       customer.RemainingDataGB,
		BillStatus:       customer.BillStatus,
	}
}

// decideStrategy runs the strategist stage. It never fails the customer:
// any gateway or decode error degrades to a segment-derived catalog query.
func (f *Flow) decideStrategy(ctx context.Context, customer *store.Customer, world WorldContext) Strategy {
	fallback := Strategy{
		SelectedNews: noNewsSelected,
		SearchQuery:  strings.TrimSpace(customer.TariffSegment + " paket"),
		Reasoning:    "Fallback",
	}

	view := newCustomerView(customer)
	payload := map[string]any{
		"customer_analysis_data": map[string]any{
			"demographics": map[string]any{
				"age":     view.Age,
				"segment": view.TariffSegment,
				"persona": view.Persona,
				"device":  view.DeviceModel,
			},
			"interests": view.Interests,
			"behavior": map[string]any{
				"current_intent": view.Intent,
				"data_left_gb":   view.DataLeftGB,
				"churn_risk":     view.Risk,
			},
		},
		"available_agenda_items": headOf(world.NewsTitles, maxStrategistTitles),
	}
	userPrompt, err := json.Marshal(payload)
	if err != nil {
		return fallback
	}

	content, err := f.gateway.CompleteJSON(ctx, strategistSystemPrompt, string(userPrompt), strategistTemperature)
	if err != nil {
		logging.WithContext(ctx, f.logger).Warn("strategist failed, using fallback query", logging.Error(err))
		return fallback
	}

	var strategy Strategy
	if err := llm.DecodeLLMJSON(content, &strategy); err != nil {
		logging.WithContext(ctx, f.logger).Warn("strategist returned undecodable payload", logging.Error(err))
		return fallback
	}

	strategy.SelectedNews = strings.TrimSpace(strategy.SelectedNews)
	strategy.SearchQuery = strings.TrimSpace(strategy.SearchQuery)
	if strategy.SearchQuery == "" {
		strategy.SearchQuery = fallback.SearchQuery
	}
	return strategy
}

// brainDecision is the sales brain stage's output. Reasoning stays raw so
// the stored JSON keeps whatever structure the generator produced.
type brainDecision struct {
	SelectedNewsTitles []string        `json:"selected_news_titles"`
	ChosenProductCode  string          `json:"chosen_product_code"`
	SuggestedProduct   string          `json:"suggested_product"`
	MarketingHeadline  string          `json:"marketing_headline"`
	MarketingContent   string          `json:"marketing_content"`
	Reasoning          json.RawMessage `json:"ai_reasoning"`
}

func (f *Flow) runBrain(ctx context.Context, customer *store.Customer, world WorldContext, strategy Strategy, candidates []retrieval.Candidate) (brainDecision, error) {
	selectedNews := ""
	if strategy.SelectedNews != "" && strategy.SelectedNews != noNewsSelected {
		selectedNews = strategy.SelectedNews
	}

	candidateViews := make([]map[string]any, 0, maxBrainCandidates)
	for _, candidate := range candidates {
		if len(candidateViews) >= maxBrainCandidates {
			break
		}
		candidateViews = append(candidateViews, map[string]any{
			"product_code": candidate.Code,
			"product_name": candidate.Name,
			"distance":     candidate.Distance,
			"category":     candidate.Category,
			"segment":      candidate.Metadata["segment"],
			"doc":          textutil.Truncate(candidate.Doc, maxCandidateDocLen),
		})
	}

	payload := map[string]any{
		"world": map[string]any{
			"selected_news":   selectedNews,
			"context_summary": world.ContextSummary,
		},
		"customer":           newCustomerView(customer),
		"product_candidates": candidateViews,
	}
	userPrompt, err := json.Marshal(payload)
	if err != nil {
		return brainDecision{}, services.Wrap(services.ErrValidation, "sales", "encode brain payload", "", err)
	}

	content, err := f.gateway.CompleteJSON(ctx, brainSystemPrompt, string(userPrompt), brainTemperature)
	if err != nil {
		return brainDecision{}, services.Wrap(services.ErrExternal, "sales", "sales brain", "", err)
	}

	var decision brainDecision
	if err := llm.DecodeLLMJSON(content, &decision); err != nil {
		return brainDecision{}, services.Wrap(services.ErrValidation, "sales", "decode brain payload", "", err)
	}
	return decision, nil
}

// buildReasoning embeds the strategist rationale and the grounding evidence
// into the generator's own reasoning object, then caps the stored blob.
func buildReasoning(raw json.RawMessage, strategistReasoning string, evidence grounding.Evidence) string {
	reasoning := map[string]any{}
	if len(raw) > 0 {
		// Non-object reasoning from the generator is discarded.
		_ = json.Unmarshal(raw, &reasoning)
	}
	reasoning["strategist_reasoning"] = strategistReasoning
	reasoning["grounding"] = evidence

	data, err := json.Marshal(reasoning)
	if err != nil {
		return ""
	}
	return textutil.Truncate(string(data), maxReasoningLen)
}

func safeStr(value string, maxLen int) string {
	return textutil.Truncate(strings.TrimSpace(value), maxLen)
}

func headOf(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
