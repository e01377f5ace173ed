// Package events carries release-planning notifications from the component
// that computes them to whoever renders them.
package events

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

// Event is a single published notification.
type Event struct {
	Topic   domain.Topic
	Payload any
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type Handler func(ctx context.Context, e Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an in-process publish/subscribe hub. The zero value is not usable;
// call NewBus.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[domain.Topic][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[domain.Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic domain.Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic domain.Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers payload to every current subscriber of topic.
func (b *Bus) Publish(ctx context.Context, topic domain.Topic, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	e := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		s.handler(ctx, e)
	}
}

// SubscriberCount returns the number of handlers registered for topic.
func (b *Bus) SubscriberCount(topic domain.Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// OnScopeChanged subscribes a typed handler to ReleaseScopeChanged.
func (b *Bus) OnScopeChanged(fn func(ctx context.Context, scope domain.ReleaseScope)) func() {
	return b.Subscribe(domain.TopicReleaseScopeChanged, func(ctx context.Context, e Event) {
		if scope, ok := e.Payload.(domain.ReleaseScope); ok {
			fn(ctx, scope)
		}
	})
}

// OnVelocityChanged subscribes a typed handler to ReleaseVelocityChanged.
func (b *Bus) OnVelocityChanged(fn func(ctx context.Context, r domain.StoryPointRange)) func() {
	return b.Subscribe(domain.TopicReleaseVelocityChanged, func(ctx context.Context, e Event) {
		if r, ok := e.Payload.(domain.StoryPointRange); ok {
			fn(ctx, r)
		}
	})
}

// NewLogSubscriber logs every release-planning event to w and returns a
// function that detaches it.
func NewLogSubscriber(b *Bus, w io.Writer) func() {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))

	unsubScope := b.OnScopeChanged(func(ctx context.Context, scope domain.ReleaseScope) {
		attrs := []any{"topic", string(domain.TopicReleaseScopeChanged), "sprints", len(scope.Sprints)}
		if scope.EndSprint != nil {
			attrs = append(attrs, "end_sprint", scope.EndSprint.Name)
		}
		logger.InfoContext(ctx, "release_event", attrs...)
	})
	unsubVelocity := b.OnVelocityChanged(func(ctx context.Context, r domain.StoryPointRange) {
		logger.InfoContext(ctx, "release_event",
			"topic", string(domain.TopicReleaseVelocityChanged),
			"min_story_points", r.MinStoryPoints,
			"mean_story_points", r.MeanStoryPoints,
			"max_story_points", r.MaxStoryPoints,
		)
	})
	return func() {
		unsubScope()
		unsubVelocity()
	}
}
