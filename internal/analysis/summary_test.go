package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-health-journal/internal/models"
)

func TestSummarize(t *testing.T) {
	j := models.Journal{
		Food: []models.FoodEvent{
			food("2024-01-01", "08:00", "milk", "bread"),
			food("2024-01-02", "08:00", "Milk"),
			food("2024-01-03", "08:00", "bread"),
		},
		Symptoms: []models.SymptomEvent{
			symptom("2024-01-01", "10:00", "bloating"),
			symptom("2024-01-02", "10:00", "headache"),
			symptom("2024-01-02", "11:00", "bloating"),
		},
		Water: []models.WaterEvent{
			{Date: "2024-01-03", Time: "09:00", AmountMl: 2000},
			{Date: "2024-01-01", Time: "09:00", AmountMl: 500},
		},
		Sleep: []models.SleepSample{
			{Date: "2024-01-01", Quality: 2},
			{Date: "2024-01-03", Quality: 4},
		},
		Exercise: []models.ExerciseEvent{{Date: "2024-01-03", Time: "18:00"}},
		Wellness: []models.WellnessSample{{Date: "2024-01-04", Overall: mood(models.MoodNeutral)}},
	}
	correlations := []models.Correlation{{Confidence: models.HighConfidence}, {Confidence: models.LowConfidence}}

	got := Summarize(j, correlations, nil, []models.AllergyWarning{{Allergy: "milk"}})

	assert.Equal(t, 4, got.TotalDays)
	assert.Equal(t, 2, got.SymptomDays)
	assert.Equal(t, 2, got.SymptomFreeDays)
	assert.Equal(t, "milk", got.TopIngredient)
	assert.Equal(t, "bloating", got.TopSymptom)
	assert.Equal(t, 2, got.CorrelationCount)
	assert.Equal(t, 1, got.HighConfidenceCount)
	assert.Equal(t, 0, got.PositiveCorrelationCount)
	assert.Equal(t, 1, got.AllergyWarningCount)
	assert.Equal(t, models.EntryCounts{Food: 3, Symptoms: 3, Water: 2, Sleep: 2, Exercise: 1, Wellness: 1}, got.TotalEntries)

	assert.Equal(t, models.DayProfile{Days: 2, AvgHydrationMl: 500, AvgSleepQuality: 2, ExerciseRate: 0}, got.DayTypes.SymptomDays)
	assert.Equal(t, models.DayProfile{Days: 2, AvgHydrationMl: 2000, AvgSleepQuality: 4, ExerciseRate: 50}, got.DayTypes.GoodDays)
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(models.Journal{}, nil, nil, nil)

	assert.Equal(t, 0, got.TotalDays)
	assert.Equal(t, 0, got.SymptomFreeDays)
	assert.Equal(t, "None", got.TopIngredient)
	assert.Equal(t, "None", got.TopSymptom)
	assert.Equal(t, models.DayTypeStats{}, got.DayTypes)
}
