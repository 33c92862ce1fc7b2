package parse

import (
	"regexp"
	"time"

	"github.com/ashureev/wattwise/internal/domain"
)

const dateLayout = "02.01.2006"

// The locale-specific connectives are part of the accepted grammar:
// "с 01.01.2026 по 31.01.2026".
var dateRangeRe = regexp.MustCompile(`(?i)^\s*с\s*(\d{2}\.\d{2}\.\d{4})\s*по\s*(\d{2}\.\d{2}\.\d{4})\s*$`)

// CustomPeriod parses a "с dd.mm.yyyy по dd.mm.yyyy" date range. The end
// date is inclusive of its whole calendar day, so it is advanced by one day
// before the duration is computed. Fails when the end is not strictly after
// the start.
func CustomPeriod(text string) (domain.Period, bool) {
	m := dateRangeRe.FindStringSubmatch(text)
	if m == nil {
		return domain.Period{}, false
	}

	start, err := time.ParseInLocation(dateLayout, m[1], time.UTC)
	if err != nil {
		return domain.Period{}, false
	}
	end, err := time.ParseInLocation(dateLayout, m[2], time.UTC)
	if err != nil {
		return domain.Period{}, false
	}

	end = end.AddDate(0, 0, 1)
	if !end.After(start) {
		return domain.Period{}, false
	}

	days := int(end.Sub(start).Hours() / 24)
	return domain.Period{Start: start, End: end, Days: days}, true
}

// Last30Days returns the canned [today − 30d, today) period, anchored to the
// start of the current calendar day.
func Last30Days(now time.Time) domain.Period {
	end := startOfDay(now)
	return domain.Period{Start: end.AddDate(0, 0, -30), End: end, Days: 30}
}

// Prev30Days returns the canned [today − 60d, today − 30d) period.
func Prev30Days(now time.Time) domain.Period {
	end := startOfDay(now).AddDate(0, 0, -30)
	return domain.Period{Start: end.AddDate(0, 0, -30), End: end, Days: 30}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
