package analysis

import (
	"sort"

	"mcp-health-journal/internal/models"
)

// BuildTimeline merges food and symptom events into one chronological list.
// Events at the same instant keep food-before-symptom input order.
func BuildTimeline(food []models.FoodEvent, symptoms []models.SymptomEvent) []models.TimelinePoint {
	points := make([]models.TimelinePoint, 0, len(food)+len(symptoms))
	for _, f := range food {
		points = append(points, models.TimelinePoint{
			Date:        f.Date,
			Time:        f.Time,
			Timestamp:   foodTime(f),
			Kind:        models.TimelineFood,
			Description: f.Description,
			Payload:     f,
		})
	}
	for _, s := range symptoms {
		points = append(points, models.TimelinePoint{
			Date:        s.Date,
			Time:        s.Time,
			Timestamp:   symptomTime(s),
			Kind:        models.TimelineSymptom,
			Description: s.Symptom,
			Payload:     s,
		})
	}
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Timestamp.Before(points[b].Timestamp)
	})
	return points
}
