package backlog

import "time"

// Endpoint is a backlog API path.
type Endpoint string

const (
	EndpointSprints         Endpoint = "/api/backlog/sprints"
	EndpointAvailable       Endpoint = "/api/backlog/a-sprints"
	EndpointRemaining       Endpoint = "/api/backlog/remaining"
	EndpointPlannedReleases Endpoint = "/api/backlog/plannedreleases"
	EndpointPlannedStories  Endpoint = "/api/backlog/plannedstories"
)

// Config holds the connection settings for the backlog API.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig points at a backlog API on localhost.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8000",
		Timeout:    10 * time.Second,
		MaxRetries: 1,
	}
}
