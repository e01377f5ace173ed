package domain

import (
	"fmt"
	"time"
)

// Snapshot is a locally stored copy of every backlog collection, taken at
// one point in time.
type Snapshot struct {
	ID               string
	TakenAt          time.Time
	Source           string
	Sprints          []Sprint
	AvailableSprints []Sprint
	Remaining        []Story
	PlannedReleases  []Release
	PlannedStories   []Story
}

// SnapshotInfo is the list view of a snapshot without its collections.
type SnapshotInfo struct {
	ID          string
	TakenAt     time.Time
	Source      string
	SprintCount int
	StoryCount  int
}

// Validate checks every collection before the snapshot is stored.
func (s *Snapshot) Validate() error {
	if err := ValidateSprints(s.Sprints); err != nil {
		return fmt.Errorf("sprints: %w", err)
	}
	if err := ValidateSprints(s.AvailableSprints); err != nil {
		return fmt.Errorf("available sprints: %w", err)
	}
	if err := ValidateStories(s.Remaining); err != nil {
		return fmt.Errorf("remaining stories: %w", err)
	}
	if err := ValidateStories(s.PlannedStories); err != nil {
		return fmt.Errorf("planned stories: %w", err)
	}
	return nil
}
