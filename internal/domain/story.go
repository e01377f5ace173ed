package domain

import (
	"fmt"
	"math"
)

type Story struct {
	Name        string
	StoryPoints float64
	Status      StoryStatus
	Priority    int
}

func (s Story) Validate() error {
	if s.StoryPoints < 0 || math.IsNaN(s.StoryPoints) || math.IsInf(s.StoryPoints, 0) {
		return fmt.Errorf("%w: story %q has %g story points, want a non-negative number", ErrInvalidStory, s.Name, s.StoryPoints)
	}
	return nil
}

// ValidateStories returns the first story that fails Validate.
func ValidateStories(stories []Story) error {
	for _, s := range stories {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalStoryPoints sums the story points of stories.
func TotalStoryPoints(stories []Story) float64 {
	var total float64
	for _, s := range stories {
		total += s.StoryPoints
	}
	return total
}
