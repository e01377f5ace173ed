package domain

import "time"

type Release struct {
	Name        string
	StartDate   time.Time
	ReleaseDate time.Time
}

type Velocity struct {
	Min     float64
	Average float64
	Max     float64
}

// Scale multiplies every bound by n sprints.
func (v Velocity) Scale(n int) StoryPointRange {
	f := float64(n)
	return StoryPointRange{
		MinStoryPoints:  v.Min * f,
		MeanStoryPoints: v.Average * f,
		MaxStoryPoints:  v.Max * f,
	}
}

// StoryPointRange is the projected amount of work deliverable within a
// window of sprints.
type StoryPointRange struct {
	MinStoryPoints  float64
	MeanStoryPoints float64
	MaxStoryPoints  float64
}

// ReleaseScope is the slice of sprints between the first available sprint
// and the chosen end sprint. EndSprint always points into Sprints.
type ReleaseScope struct {
	Sprints     []Sprint
	StartSprint *Sprint
	EndSprint   *Sprint
	Velocity    Velocity
}

// EndIndex returns the position of EndSprint within Sprints, or -1.
func (r ReleaseScope) EndIndex() int {
	if r.EndSprint == nil {
		return -1
	}
	for i := range r.Sprints {
		if &r.Sprints[i] == r.EndSprint {
			return i
		}
	}
	return -1
}
