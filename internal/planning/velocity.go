package planning

import (
	"github.com/alexanderramin/agileplanner/internal/domain"
)

// SprintVelocities returns the realized story points of each sprint, in order.
func SprintVelocities(sprints []domain.Sprint) []float64 {
	out := make([]float64, len(sprints))
	for i, s := range sprints {
		out[i] = s.StoryPoints()
	}
	return out
}

// ComputeVelocity summarizes completed sprints as min/average/max story
// points per sprint. A story with negative points fails with
// domain.ErrInvalidStory.
func ComputeVelocity(sprints []domain.Sprint) (domain.Velocity, error) {
	if len(sprints) == 0 {
		return domain.Velocity{}, domain.ErrNoSprintHistory
	}
	if err := domain.ValidateSprintStories(sprints); err != nil {
		return domain.Velocity{}, err
	}

	velocities := SprintVelocities(sprints)
	v := domain.Velocity{Min: velocities[0], Max: velocities[0]}
	var total float64
	for _, sp := range velocities {
		total += sp
		if sp < v.Min {
			v.Min = sp
		}
		if sp > v.Max {
			v.Max = sp
		}
	}
	v.Average = total / float64(len(velocities))

	// Float summation can push the mean a hair outside [min, max].
	if v.Average < v.Min {
		v.Average = v.Min
	}
	if v.Average > v.Max {
		v.Average = v.Max
	}
	return v, nil
}
