package server

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-health-journal/internal/analysis"
	"mcp-health-journal/internal/models"
	"mcp-health-journal/internal/storage"
)

// logMilkDays logs milk for breakfast on days 1..n of January 2024, followed
// by bloating at noon on the first withSymptom days.
func logMilkDays(t *testing.T, s *JournalServer, n, withSymptom int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		date := fmt.Sprintf("2024-01-%02d", i)
		call(t, s, "log_food", map[string]interface{}{
			"date": date, "time": "08:00", "type": "breakfast",
			"description": "glass of milk", "ingredients": []string{"Milk"},
		}, nil)
		if i <= withSymptom {
			call(t, s, "log_symptom", map[string]interface{}{
				"date": date, "time": "12:00", "symptom": "bloating", "severity": "moderate",
			}, nil)
		}
	}
}

func TestLogFoodDefaultsAndExtraction(t *testing.T) {
	s := newTestServer(t)

	var entry models.FoodEvent
	call(t, s, "log_food", map[string]interface{}{"description": "Toast with butter and jam"}, &entry)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "2024-01-12", entry.Date)
	assert.Equal(t, "10:00", entry.Time)
	assert.Equal(t, []string{"toast", "butter", "jam"}, entry.Ingredients)
}

func TestLogFoodKeepsGivenIngredients(t *testing.T) {
	s := newTestServer(t)

	var entry models.FoodEvent
	call(t, s, "log_food", map[string]interface{}{
		"date": "2024-01-03", "time": "07:30", "description": "porridge",
		"ingredients": []string{"oats", "milk"},
	}, &entry)
	assert.Equal(t, []string{"oats", "milk"}, entry.Ingredients)
}

func TestLogValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		tool string
		args map[string]interface{}
		want error
	}{
		{"log_food", map[string]interface{}{}, models.ErrMissingField},
		{"log_food", map[string]interface{}{"description": "soup", "date": "12/01/2024"}, models.ErrInvalidDate},
		{"log_symptom", map[string]interface{}{"symptom": "rash", "severity": "mild", "time": "25:00"}, models.ErrInvalidTime},
		{"log_symptom", map[string]interface{}{"symptom": "rash", "severity": "anaphylaxis"}, models.ErrInvalidSeverity},
		{"log_water", map[string]interface{}{"amount": 0}, models.ErrInvalidAmount},
		{"log_sleep", map[string]interface{}{"quality": 6}, models.ErrInvalidQuality},
		{"log_wellness", map[string]interface{}{"overall": "ecstatic"}, models.ErrInvalidMood},
		{"log_medication", map[string]interface{}{"dosage": "10mg"}, models.ErrMissingField},
		{"add_allergy", map[string]interface{}{"name": "peanut", "severity": "fatal"}, models.ErrInvalidSeverity},
		{"predict_meal", map[string]interface{}{}, ErrInvalidParams},
		{"analyze_correlations", map[string]interface{}{"days": -1}, ErrInvalidParams},
		{"get_entries", map[string]interface{}{"start_date": "yesterday"}, models.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			err := callErr(s, tt.tool, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogWellnessStoresMoods(t *testing.T) {
	s := newTestServer(t)

	var sample models.WellnessSample
	call(t, s, "log_wellness", map[string]interface{}{"overall": "happy", "evening": "sad"}, &sample)
	require.NotNil(t, sample.Overall)
	assert.Equal(t, models.MoodHappy, *sample.Overall)
	assert.Nil(t, sample.Morning)
	require.NotNil(t, sample.Evening)
	assert.Equal(t, models.MoodSad, *sample.Evening)
}

func TestAllergyLifecycle(t *testing.T) {
	s := newTestServer(t)

	var allergy models.KnownAllergy
	call(t, s, "add_allergy", map[string]interface{}{
		"name": "peanut", "severity": "anaphylaxis", "symptoms": []string{"hives"},
	}, &allergy)
	require.NotEmpty(t, allergy.ID)

	var listed []models.KnownAllergy
	call(t, s, "list_allergies", nil, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, allergy, listed[0])

	call(t, s, "delete_entry", map[string]interface{}{"category": "allergy", "id": allergy.ID}, nil)
	call(t, s, "list_allergies", nil, &listed)
	assert.Empty(t, listed)
}

func TestGetEntries(t *testing.T) {
	s := newTestServer(t)
	logMilkDays(t, s, 3, 1)
	call(t, s, "log_water", map[string]interface{}{"date": "2024-01-02", "time": "09:00", "amount": 500}, nil)

	var journal models.Journal
	call(t, s, "get_entries", map[string]interface{}{"start_date": "2024-01-02"}, &journal)
	assert.Len(t, journal.Food, 2)
	assert.Empty(t, journal.Symptoms)
	require.Len(t, journal.Water, 1)
	assert.Equal(t, 500.0, journal.Water[0].AmountMl)
}

func TestAnalyzeCorrelationsDateRange(t *testing.T) {
	s := newTestServer(t)
	logMilkDays(t, s, 5, 5)

	var all []models.Correlation
	call(t, s, "analyze_correlations", map[string]interface{}{"days": 0}, &all)
	require.Len(t, all, 1)
	assert.Equal(t, "milk", all[0].Ingredient)
	assert.Equal(t, "bloating", all[0].Symptom)
	assert.Equal(t, 5, all[0].Occurrences)
	assert.Equal(t, 100.0, all[0].Percentage)
	assert.Equal(t, models.MediumConfidence, all[0].Confidence)
	assert.Equal(t, "6hr", all[0].TimeWindow)
	require.NotNil(t, all[0].Context)

	// Only two milk meals fall within the last eight days.
	var recent []models.Correlation
	call(t, s, "analyze_correlations", map[string]interface{}{"days": 8}, &recent)
	assert.Empty(t, recent)

	// A window too short to reach the noon symptom finds nothing.
	var short []models.Correlation
	call(t, s, "analyze_correlations", map[string]interface{}{"days": 0, "window_hours": 2}, &short)
	assert.Empty(t, short)
}

func TestGetPositiveCorrelations(t *testing.T) {
	s := newTestServer(t)
	for _, date := range []string{"2024-01-08", "2024-01-09"} {
		call(t, s, "log_food", map[string]interface{}{
			"date": date, "time": "09:00", "description": "oats", "ingredients": []string{"oats"},
		}, nil)
		call(t, s, "log_wellness", map[string]interface{}{"date": date, "overall": "happy"}, nil)
	}

	var positives []models.PositiveCorrelation
	call(t, s, "get_positive_correlations", nil, &positives)
	require.Len(t, positives, 1)
	assert.Equal(t, "oats", positives[0].Ingredient)
	assert.Equal(t, models.ImprovementOverallMood, positives[0].Improvement)
	assert.Equal(t, 100.0, positives[0].Percentage)
}

func TestGetAllergyWarnings(t *testing.T) {
	s := newTestServer(t)
	call(t, s, "add_allergy", map[string]interface{}{"name": "peanut", "severity": "anaphylaxis"}, nil)
	call(t, s, "log_food", map[string]interface{}{
		"date": "2024-01-01", "time": "12:00", "description": "satay", "ingredients": []string{"peanut sauce"},
	}, nil)
	call(t, s, "log_food", map[string]interface{}{
		"date": "2024-01-10", "time": "15:00", "description": "snack bar", "ingredients": []string{"oats", "Peanut Butter"},
	}, nil)

	var warnings []models.AllergyWarning
	call(t, s, "get_allergy_warnings", nil, &warnings)
	require.Len(t, warnings, 1)
	assert.Equal(t, "peanut", warnings[0].Allergy)
	assert.Equal(t, models.SeverityAnaphylaxis, warnings[0].Severity)
	require.Len(t, warnings[0].Matches, 1)
	assert.Equal(t, "2024-01-10", warnings[0].Matches[0].Date)
	assert.Equal(t, analysis.AllergyAction(models.SeverityAnaphylaxis), warnings[0].Action)

	call(t, s, "get_allergy_warnings", map[string]interface{}{"lookback_days": 30}, &warnings)
	require.Len(t, warnings, 1)
	assert.Len(t, warnings[0].Matches, 2)
}

func TestGetInsights(t *testing.T) {
	s := newTestServer(t)
	logMilkDays(t, s, 5, 3)

	var report analysisReport
	call(t, s, "get_insights", nil, &report)
	assert.Equal(t, 6.0, report.WindowHours)
	require.Len(t, report.Correlations, 1)
	assert.Equal(t, 60.0, report.Correlations[0].Percentage)
	assert.Equal(t, 5, report.Summary.TotalDays)
	assert.Equal(t, 3, report.Summary.SymptomDays)
	assert.Equal(t, 2, report.Summary.SymptomFreeDays)
	assert.Equal(t, "milk", report.Summary.TopIngredient)
	assert.Equal(t, "bloating", report.Summary.TopSymptom)
	assert.Len(t, report.Timeline, 8)
}

// analysisReport mirrors analysis.Report with the timeline left undecoded,
// since timeline payloads are an interface.
type analysisReport struct {
	WindowHours  float64                  `json:"window_hours"`
	Correlations []models.Correlation     `json:"correlations"`
	Summary      models.SummaryStats      `json:"summary"`
	Timeline     []map[string]interface{} `json:"timeline"`
}

func TestGetTimeline(t *testing.T) {
	s := newTestServer(t)
	logMilkDays(t, s, 2, 1)

	var points []map[string]interface{}
	call(t, s, "get_timeline", map[string]interface{}{"start_date": "2024-01-01", "end_date": "2024-01-31"}, &points)
	require.Len(t, points, 3)
	assert.Equal(t, "food", points[0]["type"])
	assert.Equal(t, "symptom", points[1]["type"])
	assert.Equal(t, "2024-01-02", points[2]["date"])

	details, ok := points[1]["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bloating", details["symptom"])
}

func TestPredictMeal(t *testing.T) {
	s := newTestServer(t)
	logMilkDays(t, s, 5, 5)

	var prediction models.MealPrediction
	call(t, s, "predict_meal", map[string]interface{}{"ingredients": []string{"milk", "bread"}}, &prediction)
	require.Len(t, prediction.Symptoms, 1)
	assert.Equal(t, "bloating", prediction.Symptoms[0].Symptom)
	assert.Equal(t, 100.0, prediction.Symptoms[0].Probability)
	assert.Equal(t, models.SeveritySevere, prediction.Symptoms[0].Severity)
	assert.Equal(t, models.HighRisk, prediction.OverallRiskLevel)
	assert.Contains(t, prediction.Recommendation, "High risk of bloating")
}

func TestPredictMealAllergyOverride(t *testing.T) {
	s := newTestServer(t)
	call(t, s, "add_allergy", map[string]interface{}{"name": "shellfish", "severity": "severe"}, nil)

	var prediction models.MealPrediction
	call(t, s, "predict_meal", map[string]interface{}{"ingredients": []string{"Shellfish"}}, &prediction)
	require.Len(t, prediction.AllergyWarnings, 1)
	assert.Contains(t, prediction.AllergyWarnings[0], "shellfish")
	assert.Empty(t, prediction.Symptoms)
	assert.Contains(t, prediction.Recommendation, "AVOID")
}

func TestGetEntriesByCategory(t *testing.T) {
	s := newTestServer(t)
	logMilkDays(t, s, 3, 2)
	call(t, s, "log_sleep", map[string]interface{}{"date": "2024-01-02", "quality": 4}, nil)
	call(t, s, "add_allergy", map[string]interface{}{"name": "peanut", "severity": "mild"}, nil)

	var food []models.FoodEvent
	call(t, s, "get_entries", map[string]interface{}{"category": "food", "end_date": "2024-01-02"}, &food)
	assert.Len(t, food, 2)

	var symptoms []models.SymptomEvent
	call(t, s, "get_entries", map[string]interface{}{"category": "symptom"}, &symptoms)
	require.Len(t, symptoms, 2)
	assert.Equal(t, "bloating", symptoms[0].Symptom)

	var sleep []models.SleepSample
	call(t, s, "get_entries", map[string]interface{}{"category": "sleep"}, &sleep)
	require.Len(t, sleep, 1)
	assert.Equal(t, 4, sleep[0].Quality)

	var allergies []models.KnownAllergy
	call(t, s, "get_entries", map[string]interface{}{"category": "allergy"}, &allergies)
	assert.Len(t, allergies, 1)

	err := callErr(s, "get_entries", map[string]interface{}{"category": "bowel"})
	assert.ErrorIs(t, err, storage.ErrUnknownCategory)
}

func TestNewToolSchema(t *testing.T) {
	tool := newTool("predict_meal", "Predict a meal", PredictMealParams{})

	assert.Equal(t, "predict_meal", tool.Name)
	assert.Equal(t, []string{"ingredients"}, tool.InputSchema.Required)

	ingredients, ok := tool.InputSchema.Properties["ingredients"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "array", ingredients["type"])
	assert.Equal(t, map[string]interface{}{"type": "string"}, ingredients["items"])
	assert.NotEmpty(t, ingredients["description"])

	days, ok := tool.InputSchema.Properties["days"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "integer", days["type"])

	window, ok := tool.InputSchema.Properties["window_hours"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "number", window["type"])

	empty := newTool("list_allergies", "List", nil)
	assert.Empty(t, empty.InputSchema.Properties)
	assert.Empty(t, empty.InputSchema.Required)
}
