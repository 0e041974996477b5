// Package analysis finds associations between what was eaten and what was
// felt afterwards, and scores hypothetical meals against them.
//
// Every function here is pure: callers hand in a snapshot of the journal and
// any "now" value, and get plain data back. Nothing is cached between calls.
package analysis

import (
	"strconv"
	"time"

	"mcp-health-journal/internal/models"
)

// DefaultWindowHours is used when a caller passes a non-positive window.
const DefaultWindowHours = 6.0

// WindowPresets are the window lengths offered to users.
var WindowPresets = []float64{2, 6, 12, 24}

// RangePresets are the analysis periods in days. Zero means all time.
var RangePresets = []int{7, 30, 90, 0}

// RangeStart returns the first date of the trailing period of days ending on
// now's date, or "" when days is not positive.
func RangeStart(now time.Time, days int) string {
	if days <= 0 {
		return ""
	}
	return now.AddDate(0, 0, -days).Format(models.DateLayout)
}

// ParseDateTime joins a calendar date and a clock time into one naive local
// instant. Inputs are assumed valid; the zero time is returned otherwise.
func ParseDateTime(date, clock string) time.Time {
	t, err := time.Parse(models.DateLayout+"T"+models.TimeLayout, date+"T"+clock)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(date string) time.Time {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EventsAfter returns the candidates that happened strictly after anchor and
// no more than windowMinutes later. Order of candidates is preserved.
func EventsAfter[T any](anchor time.Time, candidates []T, at func(T) time.Time, windowMinutes float64) []T {
	window := time.Duration(windowMinutes * float64(time.Minute))
	var matched []T
	for _, c := range candidates {
		diff := at(c).Sub(anchor)
		if diff > 0 && diff <= window {
			matched = append(matched, c)
		}
	}
	return matched
}

func delayMinutes(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}

func foodTime(f models.FoodEvent) time.Time       { return ParseDateTime(f.Date, f.Time) }
func symptomTime(s models.SymptomEvent) time.Time { return ParseDateTime(s.Date, s.Time) }

func wellnessTime(w models.WellnessSample) time.Time {
	return ParseDateTime(w.Date, models.WellnessNominalTime)
}

func normalizeWindow(windowHours float64) float64 {
	if windowHours <= 0 {
		return DefaultWindowHours
	}
	return windowHours
}

func windowLabel(windowHours float64) string {
	return strconv.FormatFloat(windowHours, 'f', -1, 64) + "hr"
}
