// internal/models/health.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// WellnessNominalTime is the clock time assigned to wellness samples,
	// which carry a date but no time of day.
	WellnessNominalTime = "12:00"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime     = errors.New("invalid time, expected HH:MM")
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrInvalidMood     = errors.New("invalid mood")
	ErrInvalidQuality  = errors.New("sleep quality must be between 1 and 5")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrMissingField    = errors.New("missing required field")
)

type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snack     MealCategory = "snack"
)

type Severity string

const (
	SeverityMild        Severity = "mild"
	SeverityModerate    Severity = "moderate"
	SeveritySevere      Severity = "severe"
	SeverityAnaphylaxis Severity = "anaphylaxis"
)

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodVerySad Mood = "very-sad"
)

type FoodEvent struct {
	ID           string       `json:"id"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	MealCategory MealCategory `json:"type"`
	Description  string       `json:"description"`
	Ingredients  []string     `json:"ingredients"`
	Portion      string       `json:"portion,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

type SymptomEvent struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Symptom     string   `json:"symptom"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Triggers    string   `json:"triggers,omitempty"`
}

// WellnessSample is a once-a-day mood check-in. Each field is optional.
type WellnessSample struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Overall   *Mood  `json:"overall,omitempty"`
	Morning   *Mood  `json:"morning,omitempty"`
	Afternoon *Mood  `json:"afternoon,omitempty"`
	Evening   *Mood  `json:"evening,omitempty"`
}

type WaterEvent struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	AmountMl float64 `json:"amount"`
}

type SleepSample struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Quality int    `json:"quality"`
}

type ExerciseEvent struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Name            string `json:"name,omitempty"`
	DurationMinutes int    `json:"duration,omitempty"`
}

type MedicationLogEvent struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage,omitempty"`
}

type KnownAllergy struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Symptoms []string `json:"symptoms,omitempty"`
}

// Journal is a read-only snapshot of every log category for one analysis run.
type Journal struct {
	Food        []FoodEvent          `json:"food"`
	Symptoms    []SymptomEvent       `json:"symptoms"`
	Wellness    []WellnessSample     `json:"wellness"`
	Water       []WaterEvent         `json:"water"`
	Sleep       []SleepSample        `json:"sleep"`
	Exercise    []ExerciseEvent      `json:"exercise"`
	Medications []MedicationLogEvent `json:"medications"`
	Allergies   []KnownAllergy       `json:"allergies"`

	// EarlierMedications are doses from the day before the range. They only
	// feed the active-medication context of the first day's meals.
	EarlierMedications []MedicationLogEvent `json:"earlier_medications,omitempty"`
}

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateTime checks an HH:MM local clock time.
func ValidateTime(clock string) error {
	if _, err := time.Parse(TimeLayout, clock); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}
	return nil
}

func validateDateTime(date, clock string) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	return ValidateTime(clock)
}

func (f *FoodEvent) Validate() error {
	if strings.TrimSpace(f.Description) == "" && len(f.Ingredients) == 0 {
		return fmt.Errorf("%w: description or ingredients", ErrMissingField)
	}
	return validateDateTime(f.Date, f.Time)
}

func (s *SymptomEvent) Validate() error {
	if strings.TrimSpace(s.Symptom) == "" {
		return fmt.Errorf("%w: symptom", ErrMissingField)
	}
	switch s.Severity {
	case SeverityMild, SeverityModerate, SeveritySevere:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, s.Severity)
	}
	return validateDateTime(s.Date, s.Time)
}

func (w *WellnessSample) Validate() error {
	for _, m := range []*Mood{w.Overall, w.Morning, w.Afternoon, w.Evening} {
		if m == nil {
			continue
		}
		switch *m {
		case MoodHappy, MoodNeutral, MoodSad, MoodVerySad:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidMood, *m)
		}
	}
	return ValidateDate(w.Date)
}

func (w *WaterEvent) Validate() error {
	if w.AmountMl <= 0 {
		return ErrInvalidAmount
	}
	return validateDateTime(w.Date, w.Time)
}

func (s *SleepSample) Validate() error {
	if s.Quality < 1 || s.Quality > 5 {
		return ErrInvalidQuality
	}
	return ValidateDate(s.Date)
}

func (e *ExerciseEvent) Validate() error {
	return validateDateTime(e.Date, e.Time)
}

func (m *MedicationLogEvent) Validate() error {
	if strings.TrimSpace(m.MedicationName) == "" {
		return fmt.Errorf("%w: medication_name", ErrMissingField)
	}
	return validateDateTime(m.Date, m.Time)
}

func (a *KnownAllergy) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	switch a.Severity {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityAnaphylaxis:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, a.Severity)
	}
	return nil
}

// IsValidationError reports whether err came from one of the Validate methods.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidDate, ErrInvalidTime, ErrInvalidSeverity, ErrInvalidMood,
		ErrInvalidQuality, ErrInvalidAmount, ErrMissingField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
