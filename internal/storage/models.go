// internal/storage/models.go
package storage

import (
	"time"

	"mcp-health-journal/internal/models"
)

type foodRecord struct {
	ID           string   `gorm:"primaryKey"`
	Date         string   `gorm:"not null;index"`
	Time         string   `gorm:"not null"`
	MealCategory string
	Description  string
	Ingredients  []string `gorm:"serializer:json;not null"`
	Portion      string
	Notes        string
	CreatedAt    time.Time
}

func (foodRecord) TableName() string { return "food_events" }

func (r foodRecord) toModel() models.FoodEvent {
	return models.FoodEvent{
		ID:           r.ID,
		Date:         r.Date,
		Time:         r.Time,
		MealCategory: models.MealCategory(r.MealCategory),
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Portion:      r.Portion,
		Notes:        r.Notes,
	}
}

type symptomRecord struct {
	ID          string `gorm:"primaryKey"`
	Date        string `gorm:"not null;index"`
	Time        string `gorm:"not null"`
	Symptom     string `gorm:"not null"`
	Severity    string `gorm:"not null"`
	Description string
	Triggers    string
	CreatedAt   time.Time
}

func (symptomRecord) TableName() string { return "symptom_events" }

func (r symptomRecord) toModel() models.SymptomEvent {
	return models.SymptomEvent{
		ID:          r.ID,
		Date:        r.Date,
		Time:        r.Time,
		Symptom:     r.Symptom,
		Severity:    models.Severity(r.Severity),
		Description: r.Description,
		Triggers:    r.Triggers,
	}
}

type wellnessRecord struct {
	ID        string `gorm:"primaryKey"`
	Date      string `gorm:"not null;index"`
	Overall   *string
	Morning   *string
	Afternoon *string
	Evening   *string
	CreatedAt time.Time
}

func (wellnessRecord) TableName() string { return "wellness_samples" }

func moodToString(m *models.Mood) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

func stringToMood(s *string) *models.Mood {
	if s == nil {
		return nil
	}
	m := models.Mood(*s)
	return &m
}

func (r wellnessRecord) toModel() models.WellnessSample {
	return models.WellnessSample{
		ID:        r.ID,
		Date:      r.Date,
		Overall:   stringToMood(r.Overall),
		Morning:   stringToMood(r.Morning),
		Afternoon: stringToMood(r.Afternoon),
		Evening:   stringToMood(r.Evening),
	}
}

type waterRecord struct {
	ID        string  `gorm:"primaryKey"`
	Date      string  `gorm:"not null;index"`
	Time      string  `gorm:"not null"`
	AmountMl  float64 `gorm:"not null"`
	CreatedAt time.Time
}

func (waterRecord) TableName() string { return "water_events" }

func (r waterRecord) toModel() models.WaterEvent {
	return models.WaterEvent{ID: r.ID, Date: r.Date, Time: r.Time, AmountMl: r.AmountMl}
}

type sleepRecord struct {
	ID        string `gorm:"primaryKey"`
	Date      string `gorm:"not null;index"`
	Quality   int    `gorm:"not null"`
	CreatedAt time.Time
}

func (sleepRecord) TableName() string { return "sleep_samples" }

func (r sleepRecord) toModel() models.SleepSample {
	return models.SleepSample{ID: r.ID, Date: r.Date, Quality: r.Quality}
}

type exerciseRecord struct {
	ID              string `gorm:"primaryKey"`
	Date            string `gorm:"not null;index"`
	Time            string `gorm:"not null"`
	Name            string
	DurationMinutes int
	CreatedAt       time.Time
}

func (exerciseRecord) TableName() string { return "exercise_events" }

func (r exerciseRecord) toModel() models.ExerciseEvent {
	return models.ExerciseEvent{ID: r.ID, Date: r.Date, Time: r.Time, Name: r.Name, DurationMinutes: r.DurationMinutes}
}

type medicationRecord struct {
	ID             string `gorm:"primaryKey"`
	Date           string `gorm:"not null;index"`
	Time           string `gorm:"not null"`
	MedicationName string `gorm:"not null"`
	Dosage         string
	CreatedAt      time.Time
}

func (medicationRecord) TableName() string { return "medication_events" }

func (r medicationRecord) toModel() models.MedicationLogEvent {
	return models.MedicationLogEvent{ID: r.ID, Date: r.Date, Time: r.Time, MedicationName: r.MedicationName, Dosage: r.Dosage}
}

type allergyRecord struct {
	ID        string   `gorm:"primaryKey"`
	Name      string   `gorm:"not null"`
	Severity  string   `gorm:"not null"`
	Symptoms  []string `gorm:"serializer:json;not null"`
	CreatedAt time.Time
}

func (allergyRecord) TableName() string { return "known_allergies" }

func (r allergyRecord) toModel() models.KnownAllergy {
	return models.KnownAllergy{ID: r.ID, Name: r.Name, Severity: models.Severity(r.Severity), Symptoms: r.Symptoms}
}
