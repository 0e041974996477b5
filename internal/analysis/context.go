package analysis

import (
	"strings"
	"time"

	"mcp-health-journal/internal/models"
)

// Hydration and sleep thresholds used to classify a day.
const (
	LowWaterMl         = 1000.0
	AdequateWaterMl    = 2000.0
	PoorSleepBelow     = 3
	GoodSleepFrom      = 4
	MedicationLookback = 24 * time.Hour
)

// Protective condition names reported on correlations.
const (
	FactorAdequateWater = "adequate_water"
	FactorGoodSleep     = "good_sleep"
	FactorExercise      = "exercise"
)

// DayContext is the lifestyle context around one food event. Hydration and
// sleep only count as low or poor on days where they were logged.
type DayContext struct {
	HydrationMl       float64
	HasWater          bool
	SleepQuality      int
	HasSleep          bool
	Exercised         bool
	ActiveMedications []string
}

func (c DayContext) LowWater() bool      { return c.HasWater && c.HydrationMl < LowWaterMl }
func (c DayContext) AdequateWater() bool { return c.HydrationMl >= AdequateWaterMl }
func (c DayContext) PoorSleep() bool     { return c.HasSleep && c.SleepQuality < PoorSleepBelow }
func (c DayContext) GoodSleep() bool     { return c.HasSleep && c.SleepQuality >= GoodSleepFrom }

func (c DayContext) protective(factor string) bool {
	switch factor {
	case FactorAdequateWater:
		return c.AdequateWater()
	case FactorGoodSleep:
		return c.GoodSleep()
	case FactorExercise:
		return c.Exercised
	}
	return false
}

var protectiveFactors = []string{FactorAdequateWater, FactorGoodSleep, FactorExercise}

// contextIndex answers per-date lifestyle lookups for one journal snapshot.
type contextIndex struct {
	water       map[string]float64
	sleep       map[string]int
	exercise    map[string]bool
	medications []models.MedicationLogEvent
	allergies   []models.KnownAllergy
}

func newContextIndex(j models.Journal) *contextIndex {
	idx := &contextIndex{
		water:       make(map[string]float64),
		sleep:       make(map[string]int),
		exercise:    make(map[string]bool),
		medications: append(append([]models.MedicationLogEvent(nil), j.EarlierMedications...), j.Medications...),
		allergies:   j.Allergies,
	}
	for _, w := range j.Water {
		idx.water[w.Date] += w.AmountMl
	}
	for _, s := range j.Sleep {
		if _, ok := idx.sleep[s.Date]; !ok {
			idx.sleep[s.Date] = s.Quality
		}
	}
	for _, e := range j.Exercise {
		idx.exercise[e.Date] = true
	}
	return idx
}

// forFood builds the context for a food event: same-day water, sleep and
// exercise, plus medications taken in the 24 hours before it.
func (idx *contextIndex) forFood(f models.FoodEvent) DayContext {
	water, hasWater := idx.water[f.Date]
	sleep, hasSleep := idx.sleep[f.Date]
	return DayContext{
		HydrationMl:       water,
		HasWater:          hasWater,
		SleepQuality:      sleep,
		HasSleep:          hasSleep,
		Exercised:         idx.exercise[f.Date],
		ActiveMedications: ActiveMedications(idx.medications, foodTime(f)),
	}
}

// ActiveMedications returns the distinct medication names logged within the
// 24 hours up to and including at, in log order.
func ActiveMedications(meds []models.MedicationLogEvent, at time.Time) []string {
	seen := make(map[string]bool)
	var names []string
	from := at.Add(-MedicationLookback)
	for _, m := range meds {
		t := ParseDateTime(m.Date, m.Time)
		if t.Before(from) || t.After(at) {
			continue
		}
		if !seen[m.MedicationName] {
			seen[m.MedicationName] = true
			names = append(names, m.MedicationName)
		}
	}
	return names
}

// MatchesAllergy reports whether ingredient contains, or is contained in,
// the allergy name, ignoring case. Blank names never match.
func MatchesAllergy(ingredient, allergy string) bool {
	a := strings.ToLower(strings.TrimSpace(allergy))
	i := strings.ToLower(strings.TrimSpace(ingredient))
	if a == "" || i == "" {
		return false
	}
	return strings.Contains(i, a) || strings.Contains(a, i)
}

// MatchingAllergy returns the first allergy matching ingredient.
func MatchingAllergy(ingredient string, allergies []models.KnownAllergy) (models.KnownAllergy, bool) {
	for _, a := range allergies {
		if MatchesAllergy(ingredient, a.Name) {
			return a, true
		}
	}
	return models.KnownAllergy{}, false
}

// enrich folds one matched occurrence's context into the pair tally.
func (s *pairStats) enrich(ctx DayContext, allergyMatch bool) {
	if ctx.LowWater() {
		s.lowWater++
	}
	if ctx.PoorSleep() {
		s.poorSleep++
	}
	if !ctx.Exercised {
		s.noExercise++
	}
	if allergyMatch {
		s.allergy = true
	}
	for _, med := range ctx.ActiveMedications {
		s.medications.add(med)
	}
}

func majority(count, total int) bool {
	return count*2 > total
}

func (s *pairStats) contextualFactors() *models.ContextualFactors {
	return &models.ContextualFactors{
		LowWater:        majority(s.lowWater, s.occurrences),
		PoorSleep:       majority(s.poorSleep, s.occurrences),
		NoExercise:      majority(s.noExercise, s.occurrences),
		KnownAllergy:    s.allergy,
		LowWaterCount:   s.lowWater,
		PoorSleepCount:  s.poorSleep,
		NoExerciseCount: s.noExercise,
		Medications:     s.medications.keys,
	}
}

// exposure is one consumption of an ingredient, with the symptoms that
// followed it inside the window.
type exposure struct {
	ctx      DayContext
	symptoms map[string]bool
}

// protectiveFactorsFor compares the symptom rate among exposures where each
// protective condition held against exposures where it did not. A factor is
// reported when both groups exist and the rate with it is strictly lower.
func protectiveFactorsFor(symptom string, exposures []exposure) []models.ProtectiveFactor {
	var result []models.ProtectiveFactor
	for _, factor := range protectiveFactors {
		var with, withHit, without, withoutHit int
		for _, e := range exposures {
			hit := e.symptoms[symptom]
			if e.ctx.protective(factor) {
				with++
				if hit {
					withHit++
				}
			} else {
				without++
				if hit {
					withoutHit++
				}
			}
		}
		if with == 0 || without == 0 {
			continue
		}
		rateWith := percentage(withHit, with)
		rateWithout := percentage(withoutHit, without)
		if rateWith < rateWithout {
			result = append(result, models.ProtectiveFactor{
				Factor:           factor,
				ExposuresWith:    with,
				ExposuresWithout: without,
				RateWith:         rateWith,
				RateWithout:      rateWithout,
			})
		}
	}
	return result
}
