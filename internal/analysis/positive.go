package analysis

import (
	"sort"

	"mcp-health-journal/internal/models"
)

// Improvements lists the improvement categories a wellness sample reports,
// one per field set to happy.
func Improvements(w models.WellnessSample) []string {
	var out []string
	for _, f := range []struct {
		mood     *models.Mood
		category string
	}{
		{w.Overall, models.ImprovementOverallMood},
		{w.Morning, models.ImprovementMorningEnergy},
		{w.Afternoon, models.ImprovementAfternoonEnergy},
		{w.Evening, models.ImprovementEveningMood},
	} {
		if f.mood != nil && *f.mood == models.MoodHappy {
			out = append(out, f.category)
		}
	}
	return out
}

// BuildPositiveCorrelations links ingredients to wellness improvements
// reported within windowHours. Wellness samples are placed at
// models.WellnessNominalTime on their date. A pair is kept with at least
// MinPositiveOccurrences matches and a rate of MinPositivePercentage or more.
func BuildPositiveCorrelations(j models.Journal, windowHours float64) []models.PositiveCorrelation {
	windowHours = normalizeWindow(windowHours)
	windowMinutes := windowHours * 60

	pairs := newPairTable()
	for _, entry := range j.Food {
		if len(entry.Ingredients) == 0 {
			continue
		}
		anchor := foodTime(entry)
		samples := EventsAfter(anchor, j.Wellness, wellnessTime, windowMinutes)

		// earliest delay per category for this meal
		delays := make(map[string]float64)
		var categories []string
		for _, s := range samples {
			d := delayMinutes(anchor, wellnessTime(s))
			for _, category := range Improvements(s) {
				prev, ok := delays[category]
				if !ok {
					categories = append(categories, category)
				}
				if !ok || d < prev {
					delays[category] = d
				}
			}
		}
		if len(categories) == 0 {
			continue
		}

		for _, raw := range entry.Ingredients {
			ingredient := normalizeIngredient(raw)
			for _, category := range categories {
				pairs.record(pairKey{ingredient, category}, delays[category])
			}
		}
	}

	counts := ingredientCounter(j.Food)
	label := windowLabel(windowHours)
	positives := make([]models.PositiveCorrelation, 0)
	for _, key := range pairs.order {
		stats := pairs.stats[key]
		total := counts.get(key.ingredient)
		pct := percentage(stats.occurrences, total)
		if stats.occurrences < MinPositiveOccurrences || pct < MinPositivePercentage {
			continue
		}
		hours := stats.averageDelayHours()
		positives = append(positives, models.PositiveCorrelation{
			ID:                key.id(),
			Ingredient:        key.ingredient,
			Improvement:       key.outcome,
			Occurrences:       stats.occurrences,
			Total:             total,
			Percentage:        pct,
			AverageDelay:      formatHours(hours),
			AverageDelayHours: roundTenth(hours),
			TimeWindow:        label,
			Confidence:        Confidence(stats.occurrences),
		})
	}

	sort.SliceStable(positives, func(a, b int) bool {
		return positives[a].Percentage > positives[b].Percentage
	})
	return positives
}
