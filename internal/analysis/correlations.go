package analysis

import (
	"sort"

	"mcp-health-journal/internal/models"
)

// BuildCorrelations links ingredients to the symptoms that followed them
// within windowHours. Pairs with fewer than MinSymptomOccurrences matches are
// dropped; the rest are sorted by percentage, highest first, ties kept in
// the order they were first seen.
func BuildCorrelations(food []models.FoodEvent, symptoms []models.SymptomEvent, windowHours float64) []models.Correlation {
	return buildSymptomCorrelations(models.Journal{Food: food, Symptoms: symptoms}, windowHours, false)
}

// BuildEnhancedCorrelations is BuildCorrelations with each record annotated
// with the lifestyle context it occurred in and any protective factors.
func BuildEnhancedCorrelations(j models.Journal, windowHours float64) []models.Correlation {
	return buildSymptomCorrelations(j, windowHours, true)
}

func buildSymptomCorrelations(j models.Journal, windowHours float64, enhanced bool) []models.Correlation {
	windowHours = normalizeWindow(windowHours)
	windowMinutes := windowHours * 60

	pairs := newPairTable()
	var idx *contextIndex
	exposures := make(map[string][]exposure)
	if enhanced {
		idx = newContextIndex(j)
	}

	for _, entry := range j.Food {
		if len(entry.Ingredients) == 0 {
			continue
		}
		anchor := foodTime(entry)
		matched := firstPerSymptom(EventsAfter(anchor, j.Symptoms, symptomTime, windowMinutes))

		var ctx DayContext
		followed := make(map[string]bool, len(matched))
		for _, s := range matched {
			followed[s.Symptom] = true
		}
		if enhanced {
			ctx = idx.forFood(entry)
		}

		for _, raw := range entry.Ingredients {
			ingredient := normalizeIngredient(raw)
			var allergy bool
			if enhanced {
				_, allergy = MatchingAllergy(ingredient, j.Allergies)
				exposures[ingredient] = append(exposures[ingredient], exposure{ctx: ctx, symptoms: followed})
			}
			for _, s := range matched {
				stats := pairs.record(pairKey{ingredient, s.Symptom}, delayMinutes(anchor, symptomTime(s)))
				if enhanced {
					stats.enrich(ctx, allergy)
				}
			}
		}
	}

	counts := ingredientCounter(j.Food)
	label := windowLabel(windowHours)
	correlations := make([]models.Correlation, 0)
	for _, key := range pairs.order {
		stats := pairs.stats[key]
		if stats.occurrences < MinSymptomOccurrences {
			continue
		}
		hours := stats.averageDelayHours()
		c := models.Correlation{
			ID:                key.id(),
			Ingredient:        key.ingredient,
			Symptom:           key.outcome,
			Occurrences:       stats.occurrences,
			Total:             counts.get(key.ingredient),
			Percentage:        percentage(stats.occurrences, counts.get(key.ingredient)),
			AverageDelay:      formatHours(hours),
			AverageDelayHours: roundTenth(hours),
			TimeWindow:        label,
			Confidence:        Confidence(stats.occurrences),
		}
		if enhanced {
			c.Context = stats.contextualFactors()
			c.Protective = protectiveFactorsFor(key.outcome, exposures[key.ingredient])
		}
		correlations = append(correlations, c)
	}

	sort.SliceStable(correlations, func(a, b int) bool {
		return correlations[a].Percentage > correlations[b].Percentage
	})
	return correlations
}

// firstPerSymptom keeps the earliest event for each symptom name so one
// meal is never counted twice against the same symptom.
func firstPerSymptom(events []models.SymptomEvent) []models.SymptomEvent {
	index := make(map[string]int, len(events))
	var out []models.SymptomEvent
	for _, e := range events {
		i, ok := index[e.Symptom]
		if !ok {
			index[e.Symptom] = len(out)
			out = append(out, e)
			continue
		}
		if symptomTime(e).Before(symptomTime(out[i])) {
			out[i] = e
		}
	}
	return out
}
