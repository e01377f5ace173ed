package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/google/uuid"
)

// Epoch is the default planning start used across fixtures: a Monday.
var Epoch = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// Story options
type StoryOption func(*domain.Story)

func WithStatus(s domain.StoryStatus) StoryOption {
	return func(st *domain.Story) {
		st.Status = s
	}
}

func WithPriority(p int) StoryOption {
	return func(st *domain.Story) {
		st.Priority = p
	}
}

func NewTestStory(name string, points float64, opts ...StoryOption) domain.Story {
	s := domain.Story{
		Name:        name,
		StoryPoints: points,
		Status:      domain.StoryOpen,
		Priority:    1,
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Stories builds one open story per points value.
func Stories(prefix string, points ...float64) []domain.Story {
	out := make([]domain.Story, len(points))
	for i, p := range points {
		out[i] = NewTestStory(fmt.Sprintf("%s-%d", prefix, i+1), p)
	}
	return out
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintName(name string) SprintOption {
	return func(s *domain.Sprint) {
		s.Name = name
	}
}

func WithSprintWeeks(weeks int) SprintOption {
	return func(s *domain.Sprint) {
		s.CompletedAt = s.StartedAt.Add(time.Duration(weeks) * domain.Week)
	}
}

// NewTestSprint builds the two-week sprint at 0-based position, starting from
// Epoch, whose stories carry the given points.
func NewTestSprint(position int, points []float64, opts ...SprintOption) domain.Sprint {
	start := Epoch.Add(time.Duration(position) * 2 * domain.Week)
	s := domain.Sprint{
		Name:        domain.SprintName(position + 1),
		StartedAt:   start,
		CompletedAt: start.Add(2 * domain.Week),
		Stories:     []domain.Story{},
	}
	for i, p := range points {
		s.Stories = append(s.Stories, NewTestStory(fmt.Sprintf("%s-story-%d", s.Name, i+1), p, WithStatus(domain.StoryDone)))
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// SprintHistory builds consecutive sprints with one story each carrying the
// given velocity.
func SprintHistory(velocities ...float64) []domain.Sprint {
	out := make([]domain.Sprint, len(velocities))
	for i, v := range velocities {
		out[i] = NewTestSprint(i, []float64{v})
	}
	return out
}

// UpcomingSprints builds n consecutive sprints without stories.
func UpcomingSprints(n int) []domain.Sprint {
	out := make([]domain.Sprint, n)
	for i := range out {
		out[i] = NewTestSprint(i, nil)
	}
	return out
}

func NewTestRelease(name string, releaseDate time.Time) domain.Release {
	return domain.Release{Name: name, StartDate: Epoch, ReleaseDate: releaseDate}
}

// Snapshot options
type SnapshotOption func(*domain.Snapshot)

func WithTakenAt(t time.Time) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.TakenAt = t
	}
}

func WithRemaining(stories ...domain.Story) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Remaining = stories
	}
}

func NewTestSnapshot(opts ...SnapshotOption) *domain.Snapshot {
	history := SprintHistory(5, 10, 15)
	s := &domain.Snapshot{
		ID:               uuid.New().String(),
		TakenAt:          time.Now().UTC().Truncate(time.Second),
		Source:           "http://backlog.test",
		Sprints:          history,
		AvailableSprints: UpcomingSprints(4),
		Remaining:        Stories("remaining", 8, 13),
		PlannedReleases:  []domain.Release{NewTestRelease("R1", Epoch.Add(12*domain.Week))},
		PlannedStories:   Stories("planned", 20, 20, 10),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
