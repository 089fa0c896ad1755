package agenda

import (
	"strings"
	"time"

	"pulse/internal/curation"
	"pulse/internal/intel"
	"pulse/internal/services/openmeteo"
	"pulse/internal/textutil"
)

const (
	maxChartPicks     = 8
	maxHookPicks      = 6
	maxCalendarCards  = 2
	maxHookRunes      = 180
	maxPickTitleRunes = 90
)

func newCard(signalType intel.SignalType, title, description, source, published, intent string, rules *curation.Rules) intel.Signal {
	return intel.Signal{
		Type:        signalType,
		Title:       textutil.Clean(title, 180),
		Description: textutil.Clean(description, 240),
		Source:      textutil.Clean(source, 80),
		Published:   textutil.Clean(published, 80),
		Hook:        textutil.Truncate(rules.Hook(intent), maxHookRunes),
	}
}

// MusicCard condenses the Turkish chart feed into a single MUSIC signal whose
// hook samples the top chart titles. Returns false when no usable titles
// remain after cleaning.
func MusicCard(now time.Time, chartTitles []string, rules *curation.Rules) (intel.Signal, bool) {
	var picks []string
	for i, title := range chartTitles {
		if i == maxChartPicks {
			break
		}
		cleaned := textutil.Clean(title, maxPickTitleRunes)
		if cleaned == "" {
			continue
		}
		picks = append(picks, cleaned)
	}
	if len(picks) == 0 {
		return intel.Signal{}, false
	}
	if len(picks) > maxHookPicks {
		picks = picks[:maxHookPicks]
	}

	hook := rules.Hook(curation.IntentMusic) + " | Örnek başlıklar: " + strings.Join(picks, "; ")
	return intel.Signal{
		Type:        intel.TypeMusic,
		Title:       "Spotify TR: Bugünün öne çıkan şarkıları",
		Description: "Türkiye’de Spotify listelerinde öne çıkan şarkılar gündemde.",
		Source:      "spotifycharts.com",
		Published:   now.Format("2006-01-02"),
		Hook:        textutil.Truncate(hook, maxHookRunes),
	}, true
}

// CalendarCards builds the deterministic lifestyle signals for upcoming
// school breaks, official holidays, the next weekend, and today's weather.
// A weather of SummaryUnknown is suppressed rather than surfaced.
func CalendarCards(now time.Time, holidays, schoolBreaks []string, weekendHint, weather string, rules *curation.Rules) []intel.Signal {
	today := now.Format("2006-01-02")
	var cards []intel.Signal

	for i, event := range schoolBreaks {
		if i == maxCalendarCards {
			break
		}
		cards = append(cards, newCard(
			intel.TypeLifestyle,
			"Okul tatili yaklaşıyor: "+event,
			"Okul tatili dönemlerinde ailelerde seyahat ve evde içerik tüketimi artabilir.",
			"meb-calendar",
			today,
			curation.IntentEducation,
			rules,
		))
	}

	for i, event := range holidays {
		if i == maxCalendarCards {
			break
		}
		cards = append(cards, newCard(
			intel.TypeLifestyle,
			"Yaklaşan resmi tatil: "+event,
			"Resmi tatil dönemlerinde seyahat, ziyaret ve yoğun iletişim ihtiyacı artabilir.",
			"official-holidays",
			today,
			curation.IntentTravel,
			rules,
		))
	}

	if weekendHint != "" {
		cards = append(cards, newCard(
			intel.TypeLifestyle,
			"Hafta sonu yaklaşıyor: "+weekendHint,
			"Hafta sonu içerik tüketimi (dizi/film/müzik) ve oyun aktiviteleri artabilir.",
			"calendar",
			today,
			curation.IntentEntertainment,
			rules,
		))
	}

	if weather != "" && weather != openmeteo.SummaryUnknown {
		intent := curation.IntentOther
		if weather == openmeteo.SummaryRainy {
			intent = curation.IntentEntertainment
		}
		cards = append(cards, newCard(
			intel.TypeLifestyle,
			"İstanbul hava durumu: "+weather,
			"Hava koşulları dışarı/evde kalma dengesini etkileyebilir; evde içerik tüketimi artabilir.",
			"open-meteo",
			today,
			intent,
			rules,
		))
	}

	return cards
}
