package analysis

import (
	"time"

	"mcp-health-journal/internal/models"
)

// Options configures one analysis run. A non-positive window or lookback
// falls back to the package default.
type Options struct {
	WindowHours  float64
	LookbackDays int
	// Now anchors the allergy lookback. Required.
	Now time.Time
}

// Report bundles every result of one analysis run.
type Report struct {
	WindowHours          float64                      `json:"window_hours"`
	Correlations         []models.Correlation         `json:"correlations"`
	PositiveCorrelations []models.PositiveCorrelation `json:"positive_correlations"`
	AllergyWarnings      []models.AllergyWarning      `json:"allergy_warnings"`
	Summary              models.SummaryStats          `json:"summary"`
	Timeline             []models.TimelinePoint       `json:"timeline"`
}

// Analyze runs the full pipeline over a journal snapshot.
func Analyze(j models.Journal, opts Options) Report {
	window := normalizeWindow(opts.WindowHours)
	correlations := BuildEnhancedCorrelations(j, window)
	positives := BuildPositiveCorrelations(j, window)
	warnings := DetectAllergyWarnings(j.Food, j.Allergies, opts.LookbackDays, opts.Now)
	return Report{
		WindowHours:          window,
		Correlations:         correlations,
		PositiveCorrelations: positives,
		AllergyWarnings:      warnings,
		Summary:              Summarize(j, correlations, positives, warnings),
		Timeline:             BuildTimeline(j.Food, j.Symptoms),
	}
}

// Predict scores a hypothetical meal against a fresh analysis of j.
func Predict(j models.Journal, ingredients []string, windowHours float64) models.MealPrediction {
	window := normalizeWindow(windowHours)
	return PredictMeal(ingredients,
		BuildEnhancedCorrelations(j, window),
		BuildPositiveCorrelations(j, window),
		j.Allergies)
}
