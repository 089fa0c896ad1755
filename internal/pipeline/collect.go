package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pulse/internal/agenda"
	"pulse/internal/feeds"
	"pulse/internal/logging"
	"pulse/internal/services/openmeteo"
)

// materials is everything one refresh collects before curation: feed items,
// the weather summary, and the calendar lookahead.
type materials struct {
	items        []feeds.Item
	weather      string
	holidays     []string
	schoolBreaks []string
	weekendHint  string
}

// collect gathers the raw inputs. Feeds and weather run concurrently; the
// calendar is computed locally. Collection never fails: broken sources
// contribute nothing and the weather degrades to its unknown marker.
func (p *Pipeline) collect(ctx context.Context, logger *slog.Logger, now time.Time) materials {
	done := p.stageStart(logger, "collect")
	defer done()

	var (
		wg      sync.WaitGroup
		items   []feeds.Item
		weather string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		items = p.fetcher.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		summary, err := p.weather.Summary(ctx)
		if err != nil {
			logger.Warn("weather lookup failed", logging.Error(err))
			summary = openmeteo.SummaryUnknown
		}
		weather = summary
	}()

	holidays := agenda.Holidays(now, p.cfg.Agenda.HolidayLookaheadDays)
	breaks := agenda.SchoolBreaks(now, p.cfg.Agenda.BreakLookaheadDays, p.cfg.Agenda.SchoolBreaks)
	weekendHint, _ := agenda.WeekendHint(now, p.cfg.Agenda.WeekendLookaheadDays)
	wg.Wait()

	logger.Info("materials collected",
		logging.Int("items", len(items)),
		logging.String("weather", weather),
		logging.Int("holidays", len(holidays)),
		logging.Int("school_breaks", len(breaks)))

	return materials{
		items:        items,
		weather:      weather,
		holidays:     holidays,
		schoolBreaks: breaks,
		weekendHint:  weekendHint,
	}
}
