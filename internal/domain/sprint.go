package domain

import (
	"fmt"
	"time"
)

type Sprint struct {
	Name        string
	StartedAt   time.Time
	CompletedAt time.Time
	Stories     []Story
}

// StoryPoints returns the realized velocity of the sprint.
func (s Sprint) StoryPoints() float64 {
	return TotalStoryPoints(s.Stories)
}

func (s Sprint) Validate() error {
	if !s.CompletedAt.After(s.StartedAt) {
		return fmt.Errorf("%w: sprint %q: completedAt %s must be after startedAt %s",
			ErrInvalidSprint, s.Name, s.CompletedAt.Format(time.RFC3339), s.StartedAt.Format(time.RFC3339))
	}
	if err := ValidateStories(s.Stories); err != nil {
		return fmt.Errorf("sprint %q: %w", s.Name, err)
	}
	return nil
}

// ValidateSprints returns the first sprint that fails Validate.
func ValidateSprints(sprints []Sprint) error {
	for _, s := range sprints {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSprintStories checks only the stories of each sprint. Velocity
// does not depend on sprint dates.
func ValidateSprintStories(sprints []Sprint) error {
	for _, s := range sprints {
		if err := ValidateStories(s.Stories); err != nil {
			return fmt.Errorf("sprint %q: %w", s.Name, err)
		}
	}
	return nil
}

// IsCompletedBy reports whether the sprint finished at or before t.
func (s Sprint) IsCompletedBy(t time.Time) bool {
	return !s.CompletedAt.After(t)
}

// SprintName returns the positional name for a 1-based sprint index.
func SprintName(position int) string {
	return fmt.Sprintf("Sprint %d", position)
}

// StateAt classifies the sprint relative to now.
func (s Sprint) StateAt(now time.Time) SprintState {
	switch {
	case s.IsCompletedBy(now):
		return SprintCompleted
	case s.StartedAt.After(now):
		return SprintPlanned
	default:
		return SprintActive
	}
}
