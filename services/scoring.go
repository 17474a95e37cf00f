package services

import "github.com/planwise/planwise/models"

const (
	deepWorkBonus      = 5
	cognitiveBonus     = 3
	cognitiveThreshold = 8
)

var priorityMultiplier = map[string]float64{
	models.PriorityLow:    1.0,
	models.PriorityMedium: 1.5,
	models.PriorityHigh:   2.0,
	models.PriorityUrgent: 3.0,
}

// TaskSnapshot is the subset of a task the scoring rules look at.
type TaskSnapshot struct {
	EstimatedDuration int
	Priority          string
	IsDeepWork        bool
	CognitiveLoad     int
}

// SnapshotOf captures the priced fields of a stored task.
func SnapshotOf(t *models.Task) TaskSnapshot {
	return TaskSnapshot{
		EstimatedDuration: t.EstimatedDuration,
		Priority:          t.Priority,
		IsDeepWork:        t.IsDeepWork,
		CognitiveLoad:     t.CognitiveLoad,
	}
}

// CalculateTaskPoints returns the points a task is worth. The result is always at least 1.
func CalculateTaskPoints(t TaskSnapshot) int {
	base := t.EstimatedDuration / 10

	mult, ok := priorityMultiplier[t.Priority]
	if !ok {
		mult = 1.0
	}

	points := int(float64(base) * mult)
	if t.IsDeepWork {
		points += deepWorkBonus
	}
	if t.CognitiveLoad >= cognitiveThreshold {
		points += cognitiveBonus
	}

	if points < 1 {
		return 1
	}
	return points
}

// Transition describes how an update changes a task's completion flag.
type Transition int

const (
	NoTransition Transition = iota
	Completing
	Reopening
)

// CompletionTransition compares the stored flag against the requested one.
// A nil request means the field was not part of the update.
func CompletionTransition(current bool, requested *bool) Transition {
	if requested == nil || *requested == current {
		return NoTransition
	}
	if *requested {
		return Completing
	}
	return Reopening
}
