package planning

import (
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

var testStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// sprintWithPoints builds a two-week sprint at position i (0-based) holding
// one story per points value.
func sprintWithPoints(i int, points ...float64) domain.Sprint {
	start := testStart.Add(time.Duration(i) * 2 * domain.Week)
	s := domain.Sprint{
		Name:        domain.SprintName(i + 1),
		StartedAt:   start,
		CompletedAt: start.Add(2 * domain.Week),
	}
	for j, p := range points {
		s.Stories = append(s.Stories, domain.Story{
			Name:        s.Name + "-story-" + string(rune('A'+j)),
			StoryPoints: p,
			Status:      domain.StoryDone,
		})
	}
	return s
}

func backlog(points ...float64) []domain.Story {
	out := make([]domain.Story, len(points))
	for i, p := range points {
		out[i] = domain.Story{Name: "remaining-" + string(rune('A'+i)), StoryPoints: p, Status: domain.StoryOpen}
	}
	return out
}
