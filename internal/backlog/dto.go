package backlog

import (
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

// storyDTO is the JSON shape of a story.
type storyDTO struct {
	Name        string  `json:"name"`
	StoryPoints float64 `json:"storyPoints"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority"`
}

// sprintDTO is the JSON shape of a sprint. Older servers send
// startDate/completeDate, newer ones startedAt/completedAt.
type sprintDTO struct {
	Name         string     `json:"name"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	CompleteDate *time.Time `json:"completeDate,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Stories      []storyDTO `json:"stories"`
}

type releaseDTO struct {
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	ReleaseDate time.Time `json:"releaseDate"`
}

func (d storyDTO) toDomain() domain.Story {
	return domain.Story{
		Name:        d.Name,
		StoryPoints: d.StoryPoints,
		Status:      domain.StoryStatus(d.Status),
		Priority:    d.Priority,
	}
}

func (d sprintDTO) toDomain() domain.Sprint {
	s := domain.Sprint{Name: d.Name, Stories: storiesToDomain(d.Stories)}
	switch {
	case d.StartedAt != nil:
		s.StartedAt = *d.StartedAt
	case d.StartDate != nil:
		s.StartedAt = *d.StartDate
	}
	switch {
	case d.CompletedAt != nil:
		s.CompletedAt = *d.CompletedAt
	case d.CompleteDate != nil:
		s.CompletedAt = *d.CompleteDate
	}
	return s
}

func (d releaseDTO) toDomain() domain.Release {
	return domain.Release{Name: d.Name, StartDate: d.StartDate, ReleaseDate: d.ReleaseDate}
}

func storiesToDomain(in []storyDTO) []domain.Story {
	out := make([]domain.Story, len(in))
	for i, d := range in {
		out[i] = d.toDomain()
	}
	return out
}

func sprintsToDomain(in []sprintDTO) []domain.Sprint {
	out := make([]domain.Sprint, len(in))
	for i, d := range in {
		out[i] = d.toDomain()
	}
	return out
}

func releasesToDomain(in []releaseDTO) []domain.Release {
	out := make([]domain.Release, len(in))
	for i, d := range in {
		out[i] = d.toDomain()
	}
	return out
}
