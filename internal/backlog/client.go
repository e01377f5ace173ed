package backlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

// Client reads backlog collections from the planning backend.
type Client interface {
	// Sprints returns completed sprints with their stories, oldest first.
	Sprints(ctx context.Context) ([]domain.Sprint, error)
	// AvailableSprints returns the sprints the backend offers as release
	// end points.
	AvailableSprints(ctx context.Context) ([]domain.Sprint, error)
	// Remaining returns the stories not yet done.
	Remaining(ctx context.Context) ([]domain.Story, error)
	PlannedReleases(ctx context.Context) ([]domain.Release, error)
	PlannedStories(ctx context.Context) ([]domain.Story, error)
}

// httpClient implements Client against the backlog HTTP API.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for the API at cfg.BaseURL.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) Sprints(ctx context.Context) ([]domain.Sprint, error) {
	dtos, err := getJSON[[]sprintDTO](ctx, c, EndpointSprints)
	if err != nil {
		return nil, err
	}
	return checked(EndpointSprints, sprintsToDomain(dtos), domain.ValidateSprints)
}

func (c *httpClient) AvailableSprints(ctx context.Context) ([]domain.Sprint, error) {
	dtos, err := getJSON[[]sprintDTO](ctx, c, EndpointAvailable)
	if err != nil {
		return nil, err
	}
	return checked(EndpointAvailable, sprintsToDomain(dtos), domain.ValidateSprints)
}

func (c *httpClient) Remaining(ctx context.Context) ([]domain.Story, error) {
	dtos, err := getJSON[[]storyDTO](ctx, c, EndpointRemaining)
	if err != nil {
		return nil, err
	}
	return checked(EndpointRemaining, storiesToDomain(dtos), domain.ValidateStories)
}

func (c *httpClient) PlannedReleases(ctx context.Context) ([]domain.Release, error) {
	dtos, err := getJSON[[]releaseDTO](ctx, c, EndpointPlannedReleases)
	if err != nil {
		return nil, err
	}
	return releasesToDomain(dtos), nil
}

func (c *httpClient) PlannedStories(ctx context.Context) ([]domain.Story, error) {
	dtos, err := getJSON[[]storyDTO](ctx, c, EndpointPlannedStories)
	if err != nil {
		return nil, err
	}
	return checked(EndpointPlannedStories, storiesToDomain(dtos), domain.ValidateStories)
}

// checked rejects a decoded collection that breaks a domain invariant. The
// error matches both ErrInvalidPayload and the domain sentinel.
func checked[T any](endpoint Endpoint, v T, validate func(T) error) (T, error) {
	if err := validate(v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, endpoint, err)
	}
	return v, nil
}

// getJSON fetches endpoint and decodes its body into T, retrying transport
// failures and 5xx responses up to MaxRetries times within one timeout.
func getJSON[T any](ctx context.Context, c *httpClient, endpoint Endpoint) (T, error) {
	var zero T
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var (
		lastErr    error
		statusCode int
		attempt    int
	)
	attempts := 1 + c.cfg.MaxRetries

	for attempt = 1; attempt <= attempts; attempt++ {
		body, code, err := c.doRequest(ctx, endpoint)
		statusCode = code
		if err == nil {
			var out T
			if err := json.Unmarshal(body, &out); err != nil {
				lastErr = fmt.Errorf("%w: %s: %v", ErrInvalidPayload, endpoint, err)
				break
			}
			c.observe(endpoint, start, attempt, statusCode, nil)
			return out, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			break
		}
	}
	if attempt > attempts {
		attempt = attempts
	}

	err := classify(ctx, lastErr)
	c.observe(endpoint, start, attempt, statusCode, err)
	return zero, err
}

func (c *httpClient) doRequest(ctx context.Context, endpoint Endpoint) ([]byte, int, error) {
	url := c.cfg.BaseURL + string(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return body, resp.StatusCode, nil
}

func (c *httpClient) observe(endpoint Endpoint, start time.Time, attempts, statusCode int, err error) {
	c.observer.OnFetchComplete(FetchEvent{
		Endpoint:   endpoint,
		LatencyMs:  time.Since(start).Milliseconds(),
		Attempts:   attempts,
		StatusCode: statusCode,
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
}

// classify maps the last attempt's failure onto the package's error set.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctxErr
	}
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return err
	case errors.As(err, &statusErr) && !statusErr.Retryable():
		return err
	case isConnectionError(err):
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidPayload):
		return "INVALID_PAYLOAD"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.StatusCode)
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}
