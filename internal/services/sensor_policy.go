package services

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// timerControl is the part of the timer the sensor policies drive.
type timerControl interface {
	State() domain.TimerState
	Toggle()
	PauseIf(cond func() bool) bool
	Subscribe(listener ports.TimerListener) func()
}

// ShakePolicy toggles the timer on every shake signal while enabled.
type ShakePolicy struct {
	source ports.ShakeSource
	timer  timerControl
	logger *zap.Logger

	mu      sync.Mutex
	enabled bool
	gen     uint64
	cancel  context.CancelFunc
}

// NewShakePolicy creates a disabled shake policy. A nil source makes
// Enable report domain.ErrSensorUnavailable.
func NewShakePolicy(source ports.ShakeSource, timer timerControl, log *zap.Logger) *ShakePolicy {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShakePolicy{source: source, timer: timer, logger: log}
}

// Enabled reports whether the policy is listening.
func (p *ShakePolicy) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Enable subscribes to the shake source.
func (p *ShakePolicy) Enable() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return nil
	}
	if p.source == nil {
		return domain.ErrSensorUnavailable
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals, err := p.source.Observe(ctx)
	if err != nil {
		cancel()
		return err
	}

	p.gen++
	p.enabled = true
	p.cancel = cancel
	go p.listen(ctx, p.gen, signals)

	p.logger.Debug("shake policy enabled")
	return nil
}

// Disable cancels the subscription. No toggle happens after it returns.
func (p *ShakePolicy) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disableLocked()
}

func (p *ShakePolicy) disableLocked() {
	if !p.enabled {
		return
	}
	p.enabled = false
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *ShakePolicy) listen(ctx context.Context, gen uint64, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			p.mu.Lock()
			live := p.enabled && p.gen == gen
			if !ok {
				if live {
					p.logger.Info("shake source closed, disabling policy")
					p.disableLocked()
				}
				p.mu.Unlock()
				return
			}
			if live {
				p.timer.Toggle()
			}
			p.mu.Unlock()
			if !live {
				return
			}
		}
	}
}

// OrientationState is the lifecycle of the face-down policy.
type OrientationState int

const (
	OrientationDisabled OrientationState = iota
	OrientationArmed
	OrientationMonitoring
)

func (s OrientationState) String() string {
	switch s {
	case OrientationArmed:
		return "armed"
	case OrientationMonitoring:
		return "monitoring"
	default:
		return "disabled"
	}
}

// OrientationCadence controls how often the face-down monitor polls.
type OrientationCadence struct {
	WarmupPolls    int
	WarmupInterval time.Duration
	SteadyInterval time.Duration
	SampleTimeout  time.Duration
}

// DefaultOrientationCadence polls every second five times, then every three seconds.
func DefaultOrientationCadence() OrientationCadence {
	return OrientationCadence{
		WarmupPolls:    5,
		WarmupInterval: time.Second,
		SteadyInterval: 3 * time.Second,
		SampleTimeout:  500 * time.Millisecond,
	}
}

// OrientationPolicy pauses the running timer as soon as the device is no
// longer face-down.
//
// Lock order is timer then policy: the policy never calls the timer while
// holding its own lock.
type OrientationPolicy struct {
	source  ports.OrientationSource
	timer   timerControl
	clock   clockwork.Clock
	cadence OrientationCadence
	logger  *zap.Logger

	mu          sync.Mutex
	enabled     bool
	epoch       uint64
	monitoring  bool
	monitorGen  uint64
	cancel      context.CancelFunc
	unsubscribe func()
}

// NewOrientationPolicy creates a disabled orientation policy.
func NewOrientationPolicy(source ports.OrientationSource, timer timerControl, clock clockwork.Clock, cadence OrientationCadence, log *zap.Logger) *OrientationPolicy {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OrientationPolicy{
		source:  source,
		timer:   timer,
		clock:   clock,
		cadence: cadence,
		logger:  log,
	}
}

// State returns the current policy state.
func (p *OrientationPolicy) State() OrientationState {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case !p.enabled:
		return OrientationDisabled
	case p.monitoring:
		return OrientationMonitoring
	default:
		return OrientationArmed
	}
}

// Enable arms the policy. A running timer is paused right away so that
// counting only resumes after a fresh face-down start.
func (p *OrientationPolicy) Enable() error {
	if p.source == nil || !p.source.Available() {
		return domain.ErrSensorUnavailable
	}

	p.mu.Lock()
	if p.enabled {
		p.mu.Unlock()
		return nil
	}
	p.enabled = true
	p.epoch++
	epoch := p.epoch
	p.mu.Unlock()

	unsubscribe := p.timer.Subscribe(p.onTimer)

	p.mu.Lock()
	if !p.enabled || p.epoch != epoch {
		p.mu.Unlock()
		unsubscribe()
		return nil
	}
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	p.timer.PauseIf(func() bool { return p.isEpoch(epoch) })
	p.logger.Debug("orientation policy enabled")
	return nil
}

// Disable stops monitoring immediately. No pause is issued afterwards.
func (p *OrientationPolicy) Disable() {
	p.mu.Lock()
	if !p.enabled {
		p.mu.Unlock()
		return
	}
	p.enabled = false
	p.epoch++
	p.stopMonitorLocked()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (p *OrientationPolicy) isEpoch(epoch uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled && p.epoch == epoch
}

func (p *OrientationPolicy) onTimer(state domain.TimerState, _ error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}
	if state.Paused {
		p.stopMonitorLocked()
		return
	}
	if !p.monitoring {
		p.startMonitorLocked()
	}
}

func (p *OrientationPolicy) startMonitorLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	p.monitorGen++
	p.monitoring = true
	p.cancel = cancel
	go p.monitor(ctx, p.monitorGen)
}

func (p *OrientationPolicy) stopMonitorLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.monitoring = false
	p.monitorGen++
}

func (p *OrientationPolicy) live(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled && p.monitoring && p.monitorGen == gen
}

func (p *OrientationPolicy) finish(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.monitorGen == gen {
		p.stopMonitorLocked()
	}
}

// monitor polls on the warm-up cadence, then the steady cadence, until the
// device leaves face-down or the monitor is cancelled.
func (p *OrientationPolicy) monitor(ctx context.Context, gen uint64) {
	defer p.finish(gen)

	for polls := 0; ; polls++ {
		interval := p.cadence.SteadyInterval
		if polls < p.cadence.WarmupPolls {
			interval = p.cadence.WarmupInterval
		}

		wait := p.clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return
		case <-wait.Chan():
		}

		if !p.live(gen) || p.timer.State().Paused {
			return
		}

		faceDown := p.sample(ctx)
		if ctx.Err() != nil {
			return
		}
		if faceDown {
			continue
		}

		if p.timer.PauseIf(func() bool { return p.live(gen) }) {
			p.logger.Info("device lifted, timer paused", zap.Int("polls", polls+1))
		}
		return
	}
}

// sample reads the orientation once. Errors and timeouts count as not face-down.
func (p *OrientationPolicy) sample(ctx context.Context) bool {
	sctx, cancel := context.WithTimeout(ctx, p.cadence.SampleTimeout)
	defer cancel()

	result := make(chan bool, 1)
	go func() {
		down, err := p.source.Sample(sctx)
		if err != nil {
			p.logger.Debug("orientation sample failed", zap.Error(err))
			down = false
		}
		result <- down
	}()

	select {
	case down := <-result:
		return down
	case <-sctx.Done():
		return false
	}
}
