package analysis

import (
	"mcp-health-journal/internal/models"
)

func food(date, clock string, ingredients ...string) models.FoodEvent {
	return models.FoodEvent{Date: date, Time: clock, Description: "meal " + date + " " + clock, Ingredients: ingredients}
}

func symptom(date, clock, name string) models.SymptomEvent {
	return models.SymptomEvent{Date: date, Time: clock, Symptom: name, Severity: models.SeverityMild}
}

func mood(m models.Mood) *models.Mood {
	return &m
}

// milkJournal logs milk at 08:00 on n days, each followed by bloating at
// noon on the first withSymptom days.
func milkJournal(n, withSymptom int) ([]models.FoodEvent, []models.SymptomEvent) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11"}
	var f []models.FoodEvent
	var s []models.SymptomEvent
	for i := 0; i < n; i++ {
		f = append(f, food(dates[i], "08:00", "milk"))
		if i < withSymptom {
			s = append(s, symptom(dates[i], "12:00", "bloating"))
		}
	}
	return f, s
}
