package analysis

import (
	"mcp-health-journal/internal/models"
)

const noneLabel = "None"

// Summarize computes descriptive statistics over a journal snapshot and the
// correlation results derived from it.
func Summarize(j models.Journal, correlations []models.Correlation, positives []models.PositiveCorrelation, warnings []models.AllergyWarning) models.SummaryStats {
	allDates := newCounter()
	for _, f := range j.Food {
		allDates.add(f.Date)
	}
	symptomDates := make(map[string]bool)
	symptoms := newCounter()
	for _, s := range j.Symptoms {
		allDates.add(s.Date)
		symptomDates[s.Date] = true
		symptoms.add(s.Symptom)
	}
	for _, w := range j.Water {
		allDates.add(w.Date)
	}
	for _, s := range j.Sleep {
		allDates.add(s.Date)
	}
	for _, e := range j.Exercise {
		allDates.add(e.Date)
	}
	for _, m := range j.Medications {
		allDates.add(m.Date)
	}
	for _, w := range j.Wellness {
		allDates.add(w.Date)
	}

	stats := models.SummaryStats{
		TotalDays:                len(allDates.keys),
		SymptomDays:              len(symptomDates),
		SymptomFreeDays:          len(allDates.keys) - len(symptomDates),
		TopIngredient:            orNone(ingredientCounter(j.Food).top()),
		TopSymptom:               orNone(symptoms.top()),
		CorrelationCount:         len(correlations),
		PositiveCorrelationCount: len(positives),
		AllergyWarningCount:      len(warnings),
		TotalEntries: models.EntryCounts{
			Food:        len(j.Food),
			Symptoms:    len(j.Symptoms),
			Water:       len(j.Water),
			Sleep:       len(j.Sleep),
			Exercise:    len(j.Exercise),
			Medications: len(j.Medications),
			Wellness:    len(j.Wellness),
		},
	}
	for _, c := range correlations {
		if c.Confidence == models.HighConfidence {
			stats.HighConfidenceCount++
		}
	}

	idx := newContextIndex(j)
	var symptomDays, goodDays []string
	for _, date := range allDates.keys {
		if symptomDates[date] {
			symptomDays = append(symptomDays, date)
		} else {
			goodDays = append(goodDays, date)
		}
	}
	stats.DayTypes = models.DayTypeStats{
		SymptomDays: idx.profile(symptomDays),
		GoodDays:    idx.profile(goodDays),
	}
	return stats
}

func orNone(s string) string {
	if s == "" {
		return noneLabel
	}
	return s
}

// profile averages hydration and sleep over the given days on which they
// were logged, and reports the share of days with exercise as a percentage.
func (idx *contextIndex) profile(dates []string) models.DayProfile {
	p := models.DayProfile{Days: len(dates)}
	if len(dates) == 0 {
		return p
	}
	var waterSum float64
	var waterDays, sleepSum, sleepDays, exerciseDays int
	for _, d := range dates {
		if ml, ok := idx.water[d]; ok {
			waterSum += ml
			waterDays++
		}
		if q, ok := idx.sleep[d]; ok {
			sleepSum += q
			sleepDays++
		}
		if idx.exercise[d] {
			exerciseDays++
		}
	}
	if waterDays > 0 {
		p.AvgHydrationMl = roundTenth(waterSum / float64(waterDays))
	}
	if sleepDays > 0 {
		p.AvgSleepQuality = roundTenth(float64(sleepSum) / float64(sleepDays))
	}
	p.ExerciseRate = percentage(exerciseDays, len(dates))
	return p
}
