package analysis

import (
	"time"

	"mcp-health-journal/internal/models"
)

// DefaultLookbackDays is how far back allergy detection scans by default.
const DefaultLookbackDays = 7

// AllergyAction maps an allergy severity to the advice shown with a warning.
func AllergyAction(severity models.Severity) string {
	switch severity {
	case models.SeverityAnaphylaxis:
		return "AVOID IMMEDIATELY: anaphylaxis risk. Keep emergency medication at hand and seek medical help if symptoms appear."
	case models.SeveritySevere:
		return "Strongly avoid: severe reaction risk."
	default:
		return "Consider avoiding or limiting this ingredient."
	}
}

// DetectAllergyWarnings scans food logged from lookbackDays before now's
// date onward for ingredients matching a known allergy. now is supplied by
// the caller; a non-positive lookback uses DefaultLookbackDays.
func DetectAllergyWarnings(food []models.FoodEvent, allergies []models.KnownAllergy, lookbackDays int, now time.Time) []models.AllergyWarning {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, -lookbackDays)

	var recent []models.FoodEvent
	for _, entry := range food {
		if !parseDate(entry.Date).Before(cutoff) {
			recent = append(recent, entry)
		}
	}

	warnings := make([]models.AllergyWarning, 0)
	for _, allergy := range allergies {
		var matches []models.AllergyMatch
		for _, entry := range recent {
			for _, ing := range entry.Ingredients {
				if MatchesAllergy(ing, allergy.Name) {
					matches = append(matches, models.AllergyMatch{
						Date:        entry.Date,
						Time:        entry.Time,
						Description: entry.Description,
						Ingredient:  normalizeIngredient(ing),
					})
					break
				}
			}
		}
		if len(matches) == 0 {
			continue
		}
		warnings = append(warnings, models.AllergyWarning{
			Allergy:  allergy.Name,
			Severity: allergy.Severity,
			Matches:  matches,
			Action:   AllergyAction(allergy.Severity),
		})
	}
	return warnings
}
