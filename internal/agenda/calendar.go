package agenda

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"

	"pulse/internal/config"
)

type feastStart struct {
	month time.Month
	day   int
}

// First days of the religious feasts per the published Diyanet calendar. The
// feasts move with the lunar year, so they cannot be expressed as fixed
// month/day holidays.
var (
	ramadanFeastStarts = map[int]feastStart{
		2025: {time.March, 30},
		2026: {time.March, 20},
		2027: {time.March, 9},
		2028: {time.February, 26},
	}
	sacrificeFeastStarts = map[int]feastStart{
		2025: {time.June, 6},
		2026: {time.May, 27},
		2027: {time.May, 16},
		2028: {time.May, 5},
	}
)

func feastDay(name string, starts map[int]feastStart, offset int) *cal.Holiday {
	return &cal.Holiday{
		Name:   name,
		Type:   cal.ObservancePublic,
		Offset: offset,
		Func: func(h *cal.Holiday, year int) time.Time {
			start, ok := starts[year]
			if !ok {
				return time.Time{}
			}
			return time.Date(year, start.month, start.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, h.Offset)
		},
	}
}

// Official Turkish public holidays observed nationwide.
var officialHolidays = []*cal.Holiday{
	{Name: "Yılbaşı", Type: cal.ObservancePublic, Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Ulusal Egemenlik ve Çocuk Bayramı", Type: cal.ObservancePublic, Month: time.April, Day: 23, Func: cal.CalcDayOfMonth},
	{Name: "Emek ve Dayanışma Günü", Type: cal.ObservancePublic, Month: time.May, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Atatürk'ü Anma, Gençlik ve Spor Bayramı", Type: cal.ObservancePublic, Month: time.May, Day: 19, Func: cal.CalcDayOfMonth},
	{Name: "Demokrasi ve Millî Birlik Günü", Type: cal.ObservancePublic, Month: time.July, Day: 15, Func: cal.CalcDayOfMonth},
	{Name: "Zafer Bayramı", Type: cal.ObservancePublic, Month: time.August, Day: 30, Func: cal.CalcDayOfMonth},
	{Name: "Cumhuriyet Bayramı", Type: cal.ObservancePublic, Month: time.October, Day: 29, Func: cal.CalcDayOfMonth},
	feastDay("Ramazan Bayramı (1. Gün)", ramadanFeastStarts, 0),
	feastDay("Ramazan Bayramı (2. Gün)", ramadanFeastStarts, 1),
	feastDay("Ramazan Bayramı (3. Gün)", ramadanFeastStarts, 2),
	feastDay("Kurban Bayramı (1. Gün)", sacrificeFeastStarts, 0),
	feastDay("Kurban Bayramı (2. Gün)", sacrificeFeastStarts, 1),
	feastDay("Kurban Bayramı (3. Gün)", sacrificeFeastStarts, 2),
	feastDay("Kurban Bayramı (4. Gün)", sacrificeFeastStarts, 3),
}

// Holidays lists the official holidays falling inside the lookahead window,
// formatted for the generation context and the holiday cards.
func Holidays(now time.Time, lookaheadDays int) []string {
	calendar := &cal.Calendar{Name: "tr-resmi-tatiller"}
	calendar.AddHoliday(officialHolidays...)

	var events []string
	day := dateOnly(now)
	for i := 0; i < lookaheadDays; i++ {
		if actual, _, holiday := calendar.IsHoliday(day); actual && holiday != nil {
			events = append(events, fmt.Sprintf("%s: %s (Resmi Tatil)", day.Format("2006-01-02"), holiday.Name))
		}
		day = day.AddDate(0, 0, 1)
	}
	return events
}

// SchoolBreaks lists the configured school break windows overlapping the
// lookahead window. Break dates are ISO strings, which order lexically.
func SchoolBreaks(now time.Time, lookaheadDays int, breaks []config.SchoolBreak) []string {
	today := now.Format("2006-01-02")
	horizon := now.AddDate(0, 0, lookaheadDays).Format("2006-01-02")

	var events []string
	for _, window := range breaks {
		if window.End < today || window.Start > horizon {
			continue
		}
		events = append(events, fmt.Sprintf("%s - %s: %s (MEB)", window.Start, window.End, window.Name))
	}
	return events
}

// WeekendHint reports the next Saturday within the lookahead window.
func WeekendHint(now time.Time, lookaheadDays int) (string, bool) {
	day := dateOnly(now)
	for i := 0; i < lookaheadDays; i++ {
		if day.Weekday() == time.Saturday {
			return day.Format("2006-01-02") + ": Hafta sonu başlıyor (Cumartesi)", true
		}
		day = day.AddDate(0, 0, 1)
	}
	return "", false
}

func dateOnly(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
