package domain

type StoryStatus string

const (
	StoryOpen       StoryStatus = "open"
	StoryInProgress StoryStatus = "in_progress"
	StoryDone       StoryStatus = "done"
)

// SprintState describes where a sprint sits relative to a reference time.
type SprintState string

const (
	SprintCompleted SprintState = "completed"
	SprintActive    SprintState = "active"
	SprintPlanned   SprintState = "planned"
)

// Topic names a release-planning event channel.
type Topic string

const (
	TopicReleaseScopeChanged    Topic = "ReleaseScopeChanged"
	TopicReleaseVelocityChanged Topic = "ReleaseVelocityChanged"
)
