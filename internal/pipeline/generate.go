package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"pulse/internal/curation"
	"pulse/internal/intel"
	"pulse/internal/logging"
	"pulse/internal/services/llm"
	"pulse/internal/textutil"
)

const (
	generationTemperature = 0.4

	maxContextHolidays = 4
	maxContextBreaks   = 3
	maxContextTrends   = 8
	maxContextTitles   = 10
	maxFallbackSignals = 10

	fallbackSummary = "LLM yanıt veremediği için deterministik özet üretildi."
)

// newsItemView is the minimal item projection the generator sees. Summaries
// are deliberately excluded to keep the context small.
type newsItemView struct {
	Title     string `json:"title"`
	Published string `json:"published"`
	Source    string `json:"source"`
}

// generationContext is the bounded context document handed to the generator.
type generationContext struct {
	Date             string         `json:"date"`
	Weather          string         `json:"weather"`
	OfficialHolidays []string       `json:"official_holidays"`
	SchoolBreaks     []string       `json:"school_breaks"`
	Trends           []string       `json:"trends"`
	NewsTitles       []string       `json:"news_titles"`
	NewsItems        []newsItemView `json:"news_items"`
}

func (p *Pipeline) buildContext(now time.Time, mats materials, trends []string, selected []curation.ScoredItem) generationContext {
	titles := make([]string, 0, len(selected))
	for _, item := range selected {
		titles = append(titles, item.Title)
	}

	limit := p.cfg.Curation.MaxGeneratorItems
	views := make([]newsItemView, 0, min(limit, len(selected)))
	for _, item := range headOf(selected, limit) {
		views = append(views, newsItemView{
			Title:     item.Title,
			Published: item.Published,
			Source:    item.Source,
		})
	}

	return generationContext{
		Date:             now.Format("2006-01-02 15:04:05"),
		Weather:          mats.weather,
		OfficialHolidays: headOf(mats.holidays, maxContextHolidays),
		SchoolBreaks:     headOf(mats.schoolBreaks, maxContextBreaks),
		Trends:           headOf(trends, maxContextTrends),
		NewsTitles:       headOf(titles, maxContextTitles),
		NewsItems:        views,
	}
}

// generate asks the gateway for curated intelligence and sanitizes the
// result. Every failure mode degrades to the deterministic digest, so the
// second return value reports whether the fallback was used.
func (p *Pipeline) generate(ctx context.Context, logger *slog.Logger, genCtx generationContext) (intel.Intelligence, bool) {
	encoded, err := json.Marshal(genCtx)
	if err != nil {
		logger.Warn("context encoding failed, using deterministic digest", logging.Error(err))
		return p.fallbackIntelligence(genCtx), true
	}

	minSignals := p.cfg.Curation.SignalCountMin
	maxSignals := p.cfg.Curation.SignalCountMax
	content, err := p.gateway.CompleteJSON(ctx,
		generationSystemPrompt(minSignals, maxSignals),
		generationUserPrompt(string(encoded), minSignals, maxSignals),
		generationTemperature)
	if err != nil {
		logger.Warn("generation failed, using deterministic digest", logging.Error(err))
		return p.fallbackIntelligence(genCtx), true
	}

	var generated intel.Intelligence
	if err := llm.DecodeLLMJSON(content, &generated); err != nil {
		logger.Warn("generation returned undecodable payload, using deterministic digest", logging.Error(err))
		return p.fallbackIntelligence(genCtx), true
	}
	return p.sanitizer.Intelligence(generated), false
}

// fallbackIntelligence turns the context's news items into a neutral digest:
// each title becomes an OTHER signal carrying its detected intent's hook.
// The items already passed curation, so no further sanitization is applied.
func (p *Pipeline) fallbackIntelligence(genCtx generationContext) intel.Intelligence {
	out := intel.Intelligence{ContextSummary: fallbackSummary}
	for _, item := range headOf(genCtx.NewsItems, maxFallbackSignals) {
		title := textutil.Clean(item.Title, 180)
		if title == "" {
			continue
		}
		intent, _ := p.rules.DetectIntent(title, item.Source)
		out.Signals = append(out.Signals, intel.Signal{
			Type:        intel.TypeOther,
			Title:       title,
			Description: title + " gündemde.",
			Source:      textutil.Clean(item.Source, 80),
			Published:   textutil.Clean(item.Published, 80),
			Hook:        textutil.Truncate(p.rules.Hook(intent), 180),
		})
	}
	return out
}

// trendTitles pulls the titles contributed by trend aggregation feeds.
func trendTitles(items []curation.ScoredItem) []string {
	var titles []string
	for _, item := range items {
		if item.IsTrend() {
			titles = append(titles, item.Title)
		}
	}
	return titles
}

func headOf[T any](values []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(values) <= n {
		return values
	}
	return values[:n]
}
