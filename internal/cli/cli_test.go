package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-health-journal/internal/config"
	"mcp-health-journal/internal/models"
	"mcp-health-journal/internal/storage"
)

// seedJournal writes five milk breakfasts, each followed by bloating.
func seedJournal(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal_test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		date := fmt.Sprintf("2024-01-%02d", i)
		require.NoError(t, store.SaveFood(ctx, &models.FoodEvent{Date: date, Time: "08:00", Description: "milk", Ingredients: []string{"milk"}}))
		require.NoError(t, store.SaveSymptom(ctx, &models.SymptomEvent{Date: date, Time: "12:00", Symptom: "bloating", Severity: models.SeverityMild}))
	}
	return dbPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	cmd := NewRootCmd("test")
	for _, name := range []string{"serve", "analyze", "predict", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("db-path"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("window-hours"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "health-journal version test\n", out)
}

func TestAnalyzeCommand(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := execute(t, "analyze", "--db-path", dbPath, "--days", "0")
	require.NoError(t, err)

	var report struct {
		WindowHours  float64              `json:"window_hours"`
		Correlations []models.Correlation `json:"correlations"`
		Summary      models.SummaryStats  `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 6.0, report.WindowHours)
	require.Len(t, report.Correlations, 1)
	assert.Equal(t, "milk", report.Correlations[0].Ingredient)
	assert.Equal(t, 5, report.Summary.TotalDays)
}

func TestAnalyzeCommandWindowFlag(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := execute(t, "analyze", "--db-path", dbPath, "--start-date", "2024-01-01", "--window-hours", "2")
	require.NoError(t, err)

	var report struct {
		WindowHours  float64              `json:"window_hours"`
		Correlations []models.Correlation `json:"correlations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2.0, report.WindowHours)
	assert.Empty(t, report.Correlations)
}

func TestAnalyzeCommandRejectsBadDate(t *testing.T) {
	_, err := execute(t, "analyze", "--db-path", filepath.Join(t.TempDir(), "x.db"), "--start-date", "01/01/2024")
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestPredictCommand(t *testing.T) {
	dbPath := seedJournal(t)

	out, err := execute(t, "predict", "--db-path", dbPath, "--days", "0", "Milk", "toast")
	require.NoError(t, err)

	var prediction models.MealPrediction
	require.NoError(t, json.Unmarshal([]byte(out), &prediction))
	assert.Equal(t, []string{"milk", "toast"}, prediction.Ingredients)
	require.Len(t, prediction.Symptoms, 1)
	assert.Equal(t, models.HighRisk, prediction.OverallRiskLevel)
}

func TestPredictCommandNeedsIngredients(t *testing.T) {
	_, err := execute(t, "predict")
	assert.Error(t, err)
}

func TestRangeFlagsResolve(t *testing.T) {
	cfg := &config.Config{AnalysisDays: 30}
	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		flags     rangeFlags
		wantStart string
		wantEnd   string
	}{
		{"configured default", rangeFlags{days: -1}, "2024-01-11", ""},
		{"all time", rangeFlags{days: 0}, "", ""},
		{"preset", rangeFlags{days: 7, endDate: "2024-02-09"}, "2024-02-03", "2024-02-09"},
		{"explicit start wins", rangeFlags{days: 7, startDate: "2023-12-01"}, "2023-12-01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.flags.resolve(cfg, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
