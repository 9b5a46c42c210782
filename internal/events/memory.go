// Package events provides the in-process event bus that carries store
// change notifications to observers.
package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/ports"
)

// MemoryEventBus implements ports.EventBus in memory. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type MemoryEventBus struct {
	subscriptions map[string][]*memorySubscription
	mu            sync.RWMutex
	logger        *zap.Logger
	closed        bool
}

var _ ports.EventBus = (*MemoryEventBus)(nil)

type memorySubscription struct {
	bus     *MemoryEventBus
	subject string
	handler ports.EventHandler
	active  bool
	mu      sync.Mutex
}

// Unsubscribe removes the subscription
func (s *memorySubscription) Unsubscribe() error {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subscriptions[s.subject]
	for i, sub := range subs {
		if sub == s {
			s.bus.subscriptions[s.subject] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	return nil
}

// IsValid returns whether the subscription is still active
func (s *memorySubscription) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// NewMemoryEventBus creates a new in-memory event bus
func NewMemoryEventBus(log *zap.Logger) *MemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryEventBus{
		subscriptions: make(map[string][]*memorySubscription),
		logger:        log,
	}
}

// Publish delivers event to every active subscriber of subject. The bus lock
// is released before handlers run, so handlers may publish or subscribe.
func (b *MemoryEventBus) Publish(ctx context.Context, subject string, event *ports.Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("event bus is closed")
	}
	subs := make([]*memorySubscription, len(b.subscriptions[subject]))
	copy(subs, b.subscriptions[subject])
	b.mu.RUnlock()

	for _, sub := range subs {
		if !sub.IsValid() {
			continue
		}
		if err := sub.handler(ctx, event); err != nil {
			b.logger.Error("Event handler error",
				zap.String("subject", subject),
				zap.Error(err))
		}
	}

	b.logger.Debug("Published event",
		zap.String("subject", subject),
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type))

	return nil
}

// Subscribe creates a subscription to a subject
func (b *MemoryEventBus) Subscribe(subject string, handler ports.EventHandler) (ports.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}

	sub := &memorySubscription{
		bus:     b,
		subject: subject,
		handler: handler,
		active:  true,
	}
	b.subscriptions[subject] = append(b.subscriptions[subject], sub)

	b.logger.Debug("Subscribed to subject", zap.String("subject", subject))
	return sub, nil
}

// Close closes the event bus
func (b *MemoryEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for _, subs := range b.subscriptions {
		for _, sub := range subs {
			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()
		}
	}
	b.subscriptions = make(map[string][]*memorySubscription)
}
