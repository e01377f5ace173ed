package service

import (
	"context"
	"sync"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/alexanderramin/agileplanner/internal/events"
)

// recordingObserver collects use-case events in memory.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// published records every release event in arrival order.
type published struct {
	mu     sync.Mutex
	topics []domain.Topic
	scopes []domain.ReleaseScope
	ranges []domain.StoryPointRange
}

func recordEvents(bus *events.Bus) *published {
	p := &published{}
	bus.OnScopeChanged(func(_ context.Context, s domain.ReleaseScope) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.topics = append(p.topics, domain.TopicReleaseScopeChanged)
		p.scopes = append(p.scopes, s)
	})
	bus.OnVelocityChanged(func(_ context.Context, r domain.StoryPointRange) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.topics = append(p.topics, domain.TopicReleaseVelocityChanged)
		p.ranges = append(p.ranges, r)
	})
	return p
}

func (p *published) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}
