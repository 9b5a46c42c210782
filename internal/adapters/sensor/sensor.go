// Package sensor provides shake and orientation sources for terminals,
// which have no motion hardware. The TUI drives them from key presses.
package sensor

import (
	"context"
	"sync"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

var (
	_ ports.ShakeSource       = (*Shake)(nil)
	_ ports.ShakeSource       = Unavailable{}
	_ ports.OrientationSource = (*Orientation)(nil)
	_ ports.OrientationSource = Unavailable{}
)

// Shake is a manually triggered shake source.
type Shake struct {
	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewShake creates a shake source with no observers.
func NewShake() *Shake {
	return &Shake{subs: make(map[int]chan struct{})}
}

// Observe implements ports.ShakeSource. The channel closes when ctx is done.
func (s *Shake) Observe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

// Emit delivers one shake to every observer. Signals coalesce while an
// observer is still handling the previous one.
func (s *Shake) Emit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Observers returns the number of active observers.
func (s *Shake) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Orientation is a manually flipped orientation source.
type Orientation struct {
	mu       sync.Mutex
	faceDown bool
}

// NewOrientation creates an orientation source lying face-up.
func NewOrientation() *Orientation {
	return &Orientation{}
}

// Available implements ports.OrientationSource.
func (o *Orientation) Available() bool { return true }

// Sample implements ports.OrientationSource.
func (o *Orientation) Sample(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.faceDown, nil
}

// SetFaceDown sets the reported orientation.
func (o *Orientation) SetFaceDown(faceDown bool) {
	o.mu.Lock()
	o.faceDown = faceDown
	o.mu.Unlock()
}

// Flip inverts the orientation and returns the new value.
func (o *Orientation) Flip() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.faceDown = !o.faceDown
	return o.faceDown
}

// FaceDown reports the current orientation.
func (o *Orientation) FaceDown() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.faceDown
}

// Unavailable stands in for a device without motion sensors.
type Unavailable struct{}

// Observe always fails with domain.ErrSensorUnavailable.
func (Unavailable) Observe(context.Context) (<-chan struct{}, error) {
	return nil, domain.ErrSensorUnavailable
}

// Available implements ports.OrientationSource.
func (Unavailable) Available() bool { return false }

// Sample always fails with domain.ErrSensorUnavailable.
func (Unavailable) Sample(context.Context) (bool, error) {
	return false, domain.ErrSensorUnavailable
}
