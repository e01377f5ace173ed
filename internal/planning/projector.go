package planning

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

type ProjectionInput struct {
	Now         time.Time
	History     []domain.Sprint
	Remaining   []domain.Story
	Settings    domain.PlanningSettings
	MinVelocity float64
}

type Projection struct {
	Sprints              []domain.Sprint
	CompletedSprintCount int
	RemainingSprintCount int
	RemainingStoryPoints float64
}

// RemainingSprintCount is the number of sprints needed to finish
// remainingStoryPoints at minVelocity points per sprint.
func RemainingSprintCount(remainingStoryPoints, minVelocity float64) (int, error) {
	if minVelocity <= 0 || math.IsNaN(minVelocity) {
		return 0, fmt.Errorf("%w: got %g", domain.ErrZeroVelocity, minVelocity)
	}
	if remainingStoryPoints <= 0 {
		return 0, nil
	}
	return int(math.Ceil(remainingStoryPoints / minVelocity)), nil
}

// CompletedSprintCount is the number of whole sprints that fit between start
// and now. A start date in the future yields zero.
func CompletedSprintCount(start, now time.Time, sprintLengthWeeks int) (int, error) {
	if sprintLengthWeeks <= 0 {
		return 0, fmt.Errorf("%w: %d weeks", domain.ErrInvalidSprintLength, sprintLengthWeeks)
	}
	if now.Before(start) {
		return 0, nil
	}
	weeks := now.Sub(start).Hours() / (24 * 7)
	return int(math.Floor(weeks / float64(sprintLengthWeeks))), nil
}

// ProjectSprints lays out the past and future sprints needed to cover the
// remaining backlog. Sprint i starts exactly i sprint lengths after the
// start date; history supplies stories by position.
func ProjectSprints(in ProjectionInput) (*Projection, error) {
	if err := in.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateStories(in.Remaining); err != nil {
		return nil, fmt.Errorf("remaining backlog: %w", err)
	}

	remainingPoints := domain.TotalStoryPoints(in.Remaining)
	remainingCount, err := RemainingSprintCount(remainingPoints, in.MinVelocity)
	if err != nil {
		return nil, err
	}
	completedCount, err := CompletedSprintCount(in.Settings.StartDate, in.Now, in.Settings.SprintLengthWeeks)
	if err != nil {
		return nil, err
	}

	total := completedCount + remainingCount
	sprints := make([]domain.Sprint, total)
	for i := 0; i < total; i++ {
		startedAt := in.Settings.StartDate.AddDate(0, 0, 7*in.Settings.SprintLengthWeeks*i)
		stories := []domain.Story{}
		if i < len(in.History) {
			stories = append(stories, in.History[i].Stories...)
		}
		sprints[i] = domain.Sprint{
			Name:        domain.SprintName(i + 1),
			StartedAt:   startedAt,
			CompletedAt: startedAt.AddDate(0, 0, 7*in.Settings.SprintLengthWeeks),
			Stories:     stories,
		}
	}

	return &Projection{
		Sprints:              sprints,
		CompletedSprintCount: completedCount,
		RemainingSprintCount: remainingCount,
		RemainingStoryPoints: remainingPoints,
	}, nil
}
