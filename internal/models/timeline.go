// internal/models/timeline.go
package models

import "time"

type TimelineKind string

const (
	TimelineFood    TimelineKind = "food"
	TimelineSymptom TimelineKind = "symptom"
)

// TimelinePayload is implemented only by FoodEvent and SymptomEvent, so a
// type switch over it is exhaustive.
type TimelinePayload interface {
	TimelineKind() TimelineKind
	timelinePayload()
}

func (FoodEvent) TimelineKind() TimelineKind { return TimelineFood }
func (FoodEvent) timelinePayload()           {}

func (SymptomEvent) TimelineKind() TimelineKind { return TimelineSymptom }
func (SymptomEvent) timelinePayload()           {}

type TimelinePoint struct {
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Timestamp   time.Time       `json:"timestamp"`
	Kind        TimelineKind    `json:"type"`
	Description string          `json:"description"`
	Payload     TimelinePayload `json:"details"`
}
