package domain

import (
	"fmt"
	"time"
)

// DefaultSprintLengthWeeks matches the two-week cadence most teams run.
const DefaultSprintLengthWeeks = 2

// PlanningSettings is the user-owned planning state. Calculations receive it
// by value and never mutate it.
type PlanningSettings struct {
	StartDate         time.Time
	SprintLengthWeeks int
	EndSprintName     string
}

func (s PlanningSettings) Validate() error {
	if s.StartDate.IsZero() {
		return fmt.Errorf("planning start date is required")
	}
	if s.SprintLengthWeeks <= 0 {
		return fmt.Errorf("%w: %d weeks", ErrInvalidSprintLength, s.SprintLengthWeeks)
	}
	return nil
}

// SprintLength returns the sprint length as a duration.
func (s PlanningSettings) SprintLength() time.Duration {
	return time.Duration(s.SprintLengthWeeks) * Week
}

// Week is seven calendar days.
const Week = 7 * 24 * time.Hour
