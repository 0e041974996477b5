package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-health-journal/internal/models"
)

func TestAnalyze(t *testing.T) {
	f, s := milkJournal(3, 3)
	j := models.Journal{
		Food:      f,
		Symptoms:  s,
		Allergies: []models.KnownAllergy{{Name: "milk", Severity: models.SeverityModerate}},
	}

	report := Analyze(j, Options{Now: time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)})

	assert.Equal(t, DefaultWindowHours, report.WindowHours)
	require.Len(t, report.Correlations, 1)
	assert.NotNil(t, report.Correlations[0].Context)
	require.Len(t, report.AllergyWarnings, 1)
	assert.Len(t, report.AllergyWarnings[0].Matches, 3)
	assert.Len(t, report.Timeline, 6)
	assert.Equal(t, 3, report.Summary.SymptomDays)
	assert.Equal(t, 1, report.Summary.CorrelationCount)
	assert.Empty(t, report.PositiveCorrelations)
}

func TestPredict(t *testing.T) {
	f, s := milkJournal(3, 3)

	got := Predict(models.Journal{Food: f, Symptoms: s}, []string{"milk"}, 6)

	require.Len(t, got.Symptoms, 1)
	assert.Equal(t, 100.0, got.Symptoms[0].Probability)
	assert.Equal(t, models.HighRisk, got.OverallRiskLevel)
}
