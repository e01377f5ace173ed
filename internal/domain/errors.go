package domain

import "errors"

var (
	// ErrNoSprintHistory indicates velocity was requested over zero sprints.
	ErrNoSprintHistory = errors.New("no completed sprints to derive velocity from")

	// ErrZeroVelocity indicates a projection was sized with a non-positive
	// minimum velocity.
	ErrZeroVelocity = errors.New("minimum velocity must be greater than zero")

	// ErrInvalidSprintLength indicates a non-positive sprint length.
	ErrInvalidSprintLength = errors.New("sprint length must be at least one week")

	// ErrNoSprintsAvailable indicates a scope was requested over an empty
	// sprint list.
	ErrNoSprintsAvailable = errors.New("no sprints available")

	// ErrInvalidStory indicates a story with negative or non-numeric story
	// points.
	ErrInvalidStory = errors.New("invalid story")

	// ErrInvalidSprint indicates a sprint that does not finish after it
	// starts.
	ErrInvalidSprint = errors.New("invalid sprint")

	// ErrEndSprintNotFound indicates the chosen end sprint is not among the
	// available sprints.
	ErrEndSprintNotFound = errors.New("end sprint not found")
)
