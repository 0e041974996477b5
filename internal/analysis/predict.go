package analysis

import (
	"fmt"
	"sort"
	"strings"

	"mcp-health-journal/internal/models"
)

// Prediction thresholds, in percent.
const (
	SevereThreshold   = 70.0
	ModerateThreshold = 50.0
	BenefitThreshold  = 50.0
)

const knownAllergyFactor = "known allergy"

// PredictionSeverity labels a predicted symptom probability.
func PredictionSeverity(probability float64) models.Severity {
	switch {
	case probability >= SevereThreshold:
		return models.SeveritySevere
	case probability >= ModerateThreshold:
		return models.SeverityModerate
	default:
		return models.SeverityMild
	}
}

// RiskLevelFor maps the highest predicted probability to an overall risk.
func RiskLevelFor(probability float64) models.RiskLevel {
	switch {
	case probability >= SevereThreshold:
		return models.HighRisk
	case probability >= ModerateThreshold:
		return models.MediumRisk
	default:
		return models.LowRisk
	}
}

// PredictMeal scores a hypothetical list of ingredients against existing
// correlations and known allergies. Nothing is stored. Each predicted
// symptom carries the probability, confidence and risk factors of its
// strongest correlation.
func PredictMeal(ingredients []string, correlations []models.Correlation, positives []models.PositiveCorrelation, allergies []models.KnownAllergy) models.MealPrediction {
	prediction := models.MealPrediction{
		Ingredients:     make([]string, 0, len(ingredients)),
		Symptoms:        make([]models.SymptomPrediction, 0),
		Benefits:        make([]models.BenefitPrediction, 0),
		AllergyWarnings: make([]string, 0),
	}

	symptomIndex := make(map[string]int)
	benefitIndex := make(map[string]int)
	var allergens []string

	for _, raw := range ingredients {
		ingredient := normalizeIngredient(raw)
		if ingredient == "" {
			continue
		}
		prediction.Ingredients = append(prediction.Ingredients, ingredient)

		allergy, isAllergen := MatchingAllergy(ingredient, allergies)
		if isAllergen {
			allergens = append(allergens, ingredient)
			prediction.AllergyWarnings = append(prediction.AllergyWarnings,
				fmt.Sprintf("%s matches known allergy %q (%s): %s",
					ingredient, allergy.Name, allergy.Severity, AllergyAction(allergy.Severity)))
		}

		for _, c := range correlations {
			if c.Ingredient != ingredient {
				continue
			}
			factors := c.Context.RiskFactors()
			allergic := isAllergen || (c.Context != nil && c.Context.KnownAllergy)
			if allergic {
				factors = append(factors, knownAllergyFactor)
			}

			i, seen := symptomIndex[c.Symptom]
			if !seen {
				symptomIndex[c.Symptom] = len(prediction.Symptoms)
				prediction.Symptoms = append(prediction.Symptoms, models.SymptomPrediction{
					Symptom:      c.Symptom,
					Probability:  c.Percentage,
					Confidence:   c.Confidence,
					Ingredients:  []string{ingredient},
					RiskFactors:  factors,
					KnownAllergy: allergic,
				})
				continue
			}
			p := &prediction.Symptoms[i]
			p.Ingredients = appendUnique(p.Ingredients, ingredient)
			p.KnownAllergy = p.KnownAllergy || allergic
			if c.Percentage > p.Probability {
				p.Probability = c.Percentage
				p.Confidence = c.Confidence
				p.RiskFactors = factors
			}
			if p.KnownAllergy {
				p.RiskFactors = appendUnique(p.RiskFactors, knownAllergyFactor)
			}
		}

		for _, pc := range positives {
			if pc.Ingredient != ingredient || pc.Percentage < BenefitThreshold {
				continue
			}
			i, seen := benefitIndex[pc.Improvement]
			if !seen {
				benefitIndex[pc.Improvement] = len(prediction.Benefits)
				prediction.Benefits = append(prediction.Benefits, models.BenefitPrediction{
					Improvement: pc.Improvement,
					Probability: pc.Percentage,
					Ingredients: []string{ingredient},
				})
				continue
			}
			b := &prediction.Benefits[i]
			b.Ingredients = appendUnique(b.Ingredients, ingredient)
			if pc.Percentage > b.Probability {
				b.Probability = pc.Percentage
			}
		}
	}

	var highest float64
	for i := range prediction.Symptoms {
		p := &prediction.Symptoms[i]
		p.Severity = PredictionSeverity(p.Probability)
		if p.Probability > highest {
			highest = p.Probability
		}
	}
	sort.SliceStable(prediction.Symptoms, func(a, b int) bool {
		return prediction.Symptoms[a].Probability > prediction.Symptoms[b].Probability
	})
	sort.SliceStable(prediction.Benefits, func(a, b int) bool {
		return prediction.Benefits[a].Probability > prediction.Benefits[b].Probability
	})

	prediction.OverallRiskLevel = RiskLevelFor(highest)
	prediction.Recommendation = recommendation(prediction, allergens)
	return prediction
}

func recommendation(p models.MealPrediction, allergens []string) string {
	if len(allergens) > 0 {
		return fmt.Sprintf("AVOID: this meal contains known allergens (%s).", strings.Join(allergens, ", "))
	}
	switch p.OverallRiskLevel {
	case models.HighRisk:
		return fmt.Sprintf("High risk of %s. Consider avoiding or substituting the ingredients involved.", p.Symptoms[0].Symptom)
	case models.MediumRisk:
		return fmt.Sprintf("Moderate risk of %s. Try a smaller portion and keep an eye on how you feel.", p.Symptoms[0].Symptom)
	}
	if len(p.Benefits) > 0 {
		return "Low risk. This meal has been followed by better wellbeing in the past."
	}
	return "Low risk based on your history."
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
