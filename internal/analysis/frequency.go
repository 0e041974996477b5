package analysis

import (
	"math"
	"strconv"
	"strings"

	"mcp-health-journal/internal/models"
)

// Pairs below these counts are discarded as unreliable.
const (
	MinSymptomOccurrences  = 3
	MinPositiveOccurrences = 2
	MinPositivePercentage  = 40.0
)

func normalizeIngredient(ingredient string) string {
	return strings.ToLower(strings.TrimSpace(ingredient))
}

// counter counts keys and remembers the order in which they were first seen.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

func (c *counter) get(key string) int {
	return c.counts[key]
}

// top returns the first key to reach the highest count, or "" when empty.
func (c *counter) top() string {
	best, most := "", 0
	for _, k := range c.keys {
		if c.counts[k] > most {
			best, most = k, c.counts[k]
		}
	}
	return best
}

// IngredientCounts maps each normalized ingredient to how many times it was
// logged. An ingredient listed twice in one entry counts twice.
func IngredientCounts(food []models.FoodEvent) map[string]int {
	return ingredientCounter(food).counts
}

func ingredientCounter(food []models.FoodEvent) *counter {
	c := newCounter()
	for _, entry := range food {
		for _, ing := range entry.Ingredients {
			c.add(normalizeIngredient(ing))
		}
	}
	return c
}

type pairKey struct {
	ingredient string
	outcome    string
}

func (k pairKey) id() string {
	return k.ingredient + "|" + k.outcome
}

// pairStats is the running tally for one (ingredient, outcome) pair.
type pairStats struct {
	occurrences int
	delays      []float64

	lowWater    int
	poorSleep   int
	noExercise  int
	allergy     bool
	medications *counter
}

// pairTable accumulates pair statistics in first-seen order.
type pairTable struct {
	order []pairKey
	stats map[pairKey]*pairStats
}

func newPairTable() *pairTable {
	return &pairTable{stats: make(map[pairKey]*pairStats)}
}

func (t *pairTable) record(key pairKey, delay float64) *pairStats {
	s, ok := t.stats[key]
	if !ok {
		s = &pairStats{medications: newCounter()}
		t.stats[key] = s
		t.order = append(t.order, key)
	}
	s.occurrences++
	s.delays = append(s.delays, delay)
	return s
}

func (s *pairStats) averageDelayHours() float64 {
	if len(s.delays) == 0 {
		return 0
	}
	var sum float64
	for _, d := range s.delays {
		sum += d
	}
	return sum / float64(len(s.delays)) / 60
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 1, 64) + " hours"
}

func percentage(occurrences, total int) float64 {
	if total < 1 {
		total = 1
	}
	return roundTenth(float64(occurrences) / float64(total) * 100)
}

// Confidence derives a reliability tier from the occurrence count alone.
func Confidence(occurrences int) models.ConfidenceLevel {
	switch {
	case occurrences >= 10:
		return models.HighConfidence
	case occurrences >= 5:
		return models.MediumConfidence
	default:
		return models.LowConfidence
	}
}
