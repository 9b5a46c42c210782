package ports

import "context"

// ShakeSource emits one signal per detected shake gesture.
// This is a driven port (implemented by sensor adapters).
type ShakeSource interface {
	// Observe returns a stream of shake signals until ctx is cancelled.
	// The channel is closed when the source stops. It returns
	// domain.ErrSensorUnavailable when the device has no shake sensor.
	Observe(ctx context.Context) (<-chan struct{}, error)
}

// OrientationSource reports whether the device lies face-down.
// This is a driven port (implemented by sensor adapters).
type OrientationSource interface {
	// Available reports whether an orientation sensor exists.
	Available() bool

	// Sample returns true when the device is currently face-down. It must
	// return promptly when ctx is done.
	Sample(ctx context.Context) (bool, error)
}
