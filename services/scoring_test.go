package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTaskPoints(t *testing.T) {
	cases := []struct {
		name string
		task TaskSnapshot
		want int
	}{
		{"medium half hour", TaskSnapshot{30, "medium", false, 5}, 4},
		{"urgent deep heavy", TaskSnapshot{120, "urgent", true, 9}, 44},
		{"short low floors at one", TaskSnapshot{5, "low", false, 1}, 1},
		{"zero duration", TaskSnapshot{0, "high", false, 1}, 1},
		{"unknown priority", TaskSnapshot{60, "whenever", false, 1}, 6},
		{"truncation before bonus", TaskSnapshot{35, "medium", false, 8}, 7},
		{"cognitive threshold exclusive below", TaskSnapshot{100, "low", false, 7}, 10},
		{"deep work only", TaskSnapshot{9, "urgent", true, 1}, 5},
		{"negative duration", TaskSnapshot{-50, "urgent", false, 1}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateTaskPoints(tc.task))
		})
	}
}

func TestCalculateTaskPointsAlwaysPositive(t *testing.T) {
	for _, p := range []string{"low", "medium", "high", "urgent", ""} {
		for d := -20; d <= 400; d += 7 {
			for load := 1; load <= 10; load++ {
				for _, deep := range []bool{false, true} {
					got := CalculateTaskPoints(TaskSnapshot{d, p, deep, load})
					assert.GreaterOrEqual(t, got, 1)
				}
			}
		}
	}
}

func TestCompletionTransition(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, NoTransition, CompletionTransition(false, nil))
	assert.Equal(t, NoTransition, CompletionTransition(true, &yes))
	assert.Equal(t, NoTransition, CompletionTransition(false, &no))
	assert.Equal(t, Completing, CompletionTransition(false, &yes))
	assert.Equal(t, Reopening, CompletionTransition(true, &no))
}
