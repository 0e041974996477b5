// internal/models/insights.go
package models

type ConfidenceLevel string

const (
	HighConfidence   ConfidenceLevel = "high"
	MediumConfidence ConfidenceLevel = "medium"
	LowConfidence    ConfidenceLevel = "low"
)

type RiskLevel string

const (
	HighRisk   RiskLevel = "high"
	MediumRisk RiskLevel = "medium"
	LowRisk    RiskLevel = "low"
)

// Improvement categories synthesized from happy wellness fields.
const (
	ImprovementOverallMood     = "overall_mood"
	ImprovementMorningEnergy   = "morning_energy"
	ImprovementAfternoonEnergy = "afternoon_energy"
	ImprovementEveningMood     = "evening_mood"
)

// Correlation links an ingredient to a symptom that followed it.
type Correlation struct {
	ID                string             `json:"id"`
	Ingredient        string             `json:"ingredient"`
	Symptom           string             `json:"symptom"`
	Occurrences       int                `json:"occurrences"`
	Total             int                `json:"total"`
	Percentage        float64            `json:"percentage"`
	AverageDelay      string             `json:"average_delay"`
	AverageDelayHours float64            `json:"average_delay_hours"`
	TimeWindow        string             `json:"time_window"`
	Confidence        ConfidenceLevel    `json:"confidence"`
	Context           *ContextualFactors `json:"contextual_factors,omitempty"`
	Protective        []ProtectiveFactor `json:"protective_factors,omitempty"`
}

// ContextualFactors summarizes the lifestyle conditions present when a
// correlated symptom occurred.
type ContextualFactors struct {
	LowWater        bool     `json:"low_water"`
	PoorSleep       bool     `json:"poor_sleep"`
	NoExercise      bool     `json:"no_exercise"`
	KnownAllergy    bool     `json:"known_allergy"`
	LowWaterCount   int      `json:"low_water_count"`
	PoorSleepCount  int      `json:"poor_sleep_count"`
	NoExerciseCount int      `json:"no_exercise_count"`
	Medications     []string `json:"medications,omitempty"`
}

// RiskFactors lists the human readable risk conditions that held.
func (c *ContextualFactors) RiskFactors() []string {
	if c == nil {
		return nil
	}
	var factors []string
	if c.LowWater {
		factors = append(factors, "low water intake")
	}
	if c.PoorSleep {
		factors = append(factors, "poor sleep")
	}
	if c.NoExercise {
		factors = append(factors, "no exercise")
	}
	for _, med := range c.Medications {
		factors = append(factors, "medication: "+med)
	}
	return factors
}

// ProtectiveFactor compares the symptom rate after eating the ingredient
// with and without a protective condition present.
type ProtectiveFactor struct {
	Factor           string  `json:"factor"`
	ExposuresWith    int     `json:"exposures_with"`
	ExposuresWithout int     `json:"exposures_without"`
	RateWith         float64 `json:"rate_with"`
	RateWithout      float64 `json:"rate_without"`
}

type PositiveCorrelation struct {
	ID                string          `json:"id"`
	Ingredient        string          `json:"ingredient"`
	Improvement       string          `json:"improvement"`
	Occurrences       int             `json:"occurrences"`
	Total             int             `json:"total"`
	Percentage        float64         `json:"percentage"`
	AverageDelay      string          `json:"average_delay"`
	AverageDelayHours float64         `json:"average_delay_hours"`
	TimeWindow        string          `json:"time_window"`
	Confidence        ConfidenceLevel `json:"confidence"`
}

type AllergyMatch struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Ingredient  string `json:"ingredient"`
}

type AllergyWarning struct {
	Allergy  string         `json:"allergy"`
	Severity Severity       `json:"severity"`
	Matches  []AllergyMatch `json:"matches"`
	Action   string         `json:"action"`
}

type EntryCounts struct {
	Food        int `json:"food"`
	Symptoms    int `json:"symptoms"`
	Water       int `json:"water"`
	Sleep       int `json:"sleep"`
	Exercise    int `json:"exercise"`
	Medications int `json:"medications"`
	Wellness    int `json:"wellness"`
}

// DayProfile averages lifestyle factors over a set of days. Averages are
// taken over the days on which the factor was logged.
type DayProfile struct {
	Days            int     `json:"days"`
	AvgHydrationMl  float64 `json:"avg_hydration_ml"`
	AvgSleepQuality float64 `json:"avg_sleep_quality"`
	ExerciseRate    float64 `json:"exercise_rate"`
}

type DayTypeStats struct {
	SymptomDays DayProfile `json:"symptom_days"`
	GoodDays    DayProfile `json:"good_days"`
}

type SummaryStats struct {
	TotalDays                int          `json:"total_days"`
	SymptomDays              int          `json:"symptom_days"`
	SymptomFreeDays          int          `json:"symptom_free_days"`
	TopIngredient            string       `json:"top_ingredient"`
	TopSymptom               string       `json:"top_symptom"`
	TotalEntries             EntryCounts  `json:"total_entries"`
	CorrelationCount         int          `json:"correlation_count"`
	HighConfidenceCount      int          `json:"high_confidence_count"`
	PositiveCorrelationCount int          `json:"positive_correlation_count"`
	AllergyWarningCount      int          `json:"allergy_warning_count"`
	DayTypes                 DayTypeStats `json:"day_types"`
}

type SymptomPrediction struct {
	Symptom      string          `json:"symptom"`
	Probability  float64         `json:"probability"`
	Severity     Severity        `json:"severity"`
	Confidence   ConfidenceLevel `json:"confidence"`
	Ingredients  []string        `json:"ingredients"`
	RiskFactors  []string        `json:"risk_factors,omitempty"`
	KnownAllergy bool            `json:"known_allergy"`
}

type BenefitPrediction struct {
	Improvement string   `json:"improvement"`
	Probability float64  `json:"probability"`
	Ingredients []string `json:"ingredients"`
}

type MealPrediction struct {
	Ingredients      []string            `json:"ingredients"`
	Symptoms         []SymptomPrediction `json:"symptoms"`
	Benefits         []BenefitPrediction `json:"benefits"`
	AllergyWarnings  []string            `json:"allergy_warnings"`
	OverallRiskLevel RiskLevel           `json:"overall_risk_level"`
	Recommendation   string              `json:"recommendation"`
}
