package planning

import (
	"fmt"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

// BuildReleaseScope resolves endSprintName against sprints and returns a
// scope starting at the first sprint. The first sprint with a matching name
// wins. The returned scope owns a copy of sprints.
func BuildReleaseScope(sprints []domain.Sprint, endSprintName string, velocity domain.Velocity) (*domain.ReleaseScope, error) {
	if len(sprints) == 0 {
		return nil, domain.ErrNoSprintsAvailable
	}

	owned := make([]domain.Sprint, len(sprints))
	copy(owned, sprints)

	for i := range owned {
		if owned[i].Name == endSprintName {
			return &domain.ReleaseScope{
				Sprints:     owned,
				StartSprint: &owned[0],
				EndSprint:   &owned[i],
				Velocity:    velocity,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrEndSprintNotFound, endSprintName)
}

// PendingSprintCount counts the scope's sprints, up to and including the end
// sprint, that have not completed by now.
func PendingSprintCount(scope *domain.ReleaseScope, now time.Time) int {
	end := scope.EndIndex()
	if end < 0 {
		return 0
	}
	n := 0
	for _, s := range scope.Sprints[:end+1] {
		if !s.IsCompletedBy(now) {
			n++
		}
	}
	return n
}

// ProjectedRange estimates the story points deliverable between now and the
// end sprint's completion.
func ProjectedRange(scope *domain.ReleaseScope, now time.Time) domain.StoryPointRange {
	return scope.Velocity.Scale(PendingSprintCount(scope, now))
}
