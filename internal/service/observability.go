package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/agileplanner/internal/backlog"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/repository"
)

// UseCaseEvent describes one run of a planner use case. The planning
// fields are logged under fixed keys when set; Fields carries the rest.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error

	Sprints   int
	EndSprint string
	Velocity  *domain.Velocity
	Range     *domain.StoryPointRange

	Fields map[string]any
}

type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// Error classes reported as error_class.
const (
	ErrorClassTransport   = "transport"
	ErrorClassInvalidData = "invalid_data"
	ErrorClassPlanning    = "planning"
	ErrorClassSelection   = "selection"
	ErrorClassStorage     = "storage"
	ErrorClassInternal    = "internal"
)

// ErrorClass maps err onto the planner's error classes. Invalid backlog
// data wins over the transport wrapping it arrived in.
func ErrorClass(err error) string {
	var statusErr *backlog.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidStory), errors.Is(err, domain.ErrInvalidSprint):
		return ErrorClassInvalidData
	case errors.Is(err, domain.ErrEndSprintNotFound), errors.Is(err, domain.ErrNoSprintsAvailable),
		errors.Is(err, ErrNotLoaded), errors.Is(err, ErrAmbiguousSnapshot):
		return ErrorClassSelection
	case errors.Is(err, domain.ErrNoSprintHistory), errors.Is(err, domain.ErrZeroVelocity),
		errors.Is(err, domain.ErrInvalidSprintLength):
		return ErrorClassPlanning
	case errors.Is(err, backlog.ErrTimeout), errors.Is(err, backlog.ErrUnavailable),
		errors.Is(err, backlog.ErrRetryExhausted), errors.Is(err, backlog.ErrInvalidPayload),
		errors.As(err, &statusErr):
		return ErrorClassTransport
	case errors.Is(err, repository.ErrNotFound):
		return ErrorClassStorage
	default:
		return ErrorClassInternal
	}
}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes use-case events to w as slog text records.
// A nil writer disables logging.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	}
	if event.Sprints > 0 {
		attrs = append(attrs, slog.Int("sprints", event.Sprints))
	}
	if event.EndSprint != "" {
		attrs = append(attrs, slog.String("end_sprint", event.EndSprint))
	}
	if v := event.Velocity; v != nil {
		attrs = append(attrs, slog.Group("velocity",
			slog.Float64("min", v.Min), slog.Float64("avg", v.Average), slog.Float64("max", v.Max)))
	}
	if r := event.Range; r != nil {
		attrs = append(attrs, slog.Group("range",
			slog.Float64("min", r.MinStoryPoints), slog.Float64("mean", r.MeanStoryPoints), slog.Float64("max", r.MaxStoryPoints)))
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	if event.Err != nil {
		attrs = append(attrs,
			slog.String("error_class", ErrorClass(event.Err)),
			slog.String("error", event.Err.Error()))
		o.logger.LogAttrs(ctx, slog.LevelError, "planner_use_case", attrs...)
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelInfo, "planner_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
