package planning

import (
	"fmt"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

const (
	SeriesMinimum = "Minimum"
	SeriesAverage = "Average"
	SeriesMaximum = "Maximum"
	SeriesScope   = "Scope"
)

type BurnupPoint struct {
	At          time.Time
	StoryPoints float64
}

type BurnupSeries struct {
	Name   string
	Points []BurnupPoint
}

// SprintBurnup is one sprint's row in the burnup table.
type SprintBurnup struct {
	Sprint      string
	CompletedAt time.Time
	Minimum     float64
	Average     float64
	Maximum     float64
}

type Burnup struct {
	Release  *domain.Release
	Velocity domain.Velocity
	Sprints  []SprintBurnup
	Minimum  BurnupSeries
	Average  BurnupSeries
	Maximum  BurnupSeries
	// Scope is the total planned story points, flat across sprints.
	Scope        BurnupSeries
	PlannedTotal float64
}

// Series returns the chartable series in drawing order.
func (b *Burnup) Series() []BurnupSeries {
	return []BurnupSeries{b.Minimum, b.Average, b.Maximum, b.Scope}
}

// BuildBurnup accumulates velocity bounds sprint by sprint. Each series point
// is keyed by the sprint's completion date.
func BuildBurnup(releases []domain.Release, sprints []domain.Sprint, planned []domain.Story) (*Burnup, error) {
	velocity, err := ComputeVelocity(sprints)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStories(planned); err != nil {
		return nil, fmt.Errorf("planned stories: %w", err)
	}

	b := &Burnup{
		Velocity:     velocity,
		Minimum:      BurnupSeries{Name: SeriesMinimum},
		Average:      BurnupSeries{Name: SeriesAverage},
		Maximum:      BurnupSeries{Name: SeriesMaximum},
		Scope:        BurnupSeries{Name: SeriesScope},
		PlannedTotal: domain.TotalStoryPoints(planned),
	}
	if len(releases) > 0 {
		r := releases[0]
		b.Release = &r
	}

	var minSum, avgSum, maxSum float64
	for _, s := range sprints {
		minSum += velocity.Min
		avgSum += velocity.Average
		maxSum += velocity.Max

		b.Sprints = append(b.Sprints, SprintBurnup{
			Sprint:      s.Name,
			CompletedAt: s.CompletedAt,
			Minimum:     minSum,
			Average:     avgSum,
			Maximum:     maxSum,
		})
		b.Minimum.Points = append(b.Minimum.Points, BurnupPoint{At: s.CompletedAt, StoryPoints: minSum})
		b.Average.Points = append(b.Average.Points, BurnupPoint{At: s.CompletedAt, StoryPoints: avgSum})
		b.Maximum.Points = append(b.Maximum.Points, BurnupPoint{At: s.CompletedAt, StoryPoints: maxSum})
		b.Scope.Points = append(b.Scope.Points, BurnupPoint{At: s.CompletedAt, StoryPoints: b.PlannedTotal})
	}
	return b, nil
}
