package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus/internal/domain"
)

// scriptedOrientation answers polls from a script, then face-down forever.
type scriptedOrientation struct {
	mu      sync.Mutex
	script  []bool
	polls   int
	gate    chan struct{}
	absent  bool
	ignored bool
}

func (s *scriptedOrientation) Available() bool { return !s.absent }

func (s *scriptedOrientation) Sample(ctx context.Context) (bool, error) {
	s.mu.Lock()
	i := s.polls
	s.polls++
	gate := s.gate
	s.mu.Unlock()

	if s.ignored {
		<-ctx.Done()
		return true, ctx.Err()
	}
	if gate != nil {
		<-gate
	}
	if i < len(s.script) {
		return s.script[i], nil
	}
	return true, nil
}

func (s *scriptedOrientation) pollCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls
}

type chanShake struct {
	ch  chan struct{}
	err error
}

func (c *chanShake) Observe(ctx context.Context) (<-chan struct{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.ch, nil
}

// pauseCounter counts running-to-paused transitions seen by listeners.
type pauseCounter struct {
	mu      sync.Mutex
	running bool
	pauses  int
}

func (c *pauseCounter) listen(s domain.TimerState, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && s.Paused {
		c.pauses++
	}
	c.running = !s.Paused
}

func (c *pauseCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauses
}

func newPolicyTimer(t *testing.T) *TimerService {
	t.Helper()
	timer := NewTimerService(context.Background(), newMemSettingsStore(domain.DefaultSettings()),
		newMemSessionLog(), clockwork.NewFakeClockAt(testNow), nil)
	t.Cleanup(timer.Close)
	return timer
}

// advancePoll moves the policy clock by d once the monitor is waiting and
// waits for the poll count to reach want.
func advancePoll(t *testing.T, clock clockwork.FakeClock, source *scriptedOrientation, d time.Duration, want int) {
	t.Helper()
	clock.BlockUntil(1)
	clock.Advance(d)
	require.Eventually(t, func() bool { return source.pollCount() == want }, time.Second, time.Millisecond)
}

func TestOrientationPolicy_PausesWhenLiftedAfterFaceDown(t *testing.T) {
	timer := newPolicyTimer(t)
	source := &scriptedOrientation{script: []bool{true, true, true, true, true, false}}
	clock := clockwork.NewFakeClock()
	policy := NewOrientationPolicy(source, timer, clock, DefaultOrientationCadence(), nil)
	defer policy.Disable()

	timer.Play()
	require.NoError(t, policy.Enable())
	assert.True(t, timer.State().Paused, "enabling while running pauses")
	assert.Equal(t, OrientationArmed, policy.State())

	counter := &pauseCounter{}
	timer.Subscribe(counter.listen)

	timer.Play()
	assert.Equal(t, OrientationMonitoring, policy.State())

	for i := 1; i <= 5; i++ {
		advancePoll(t, clock, source, time.Second, i)
	}
	assert.False(t, timer.State().Paused)

	// Steady cadence: nothing happens for the next two seconds.
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 5, source.pollCount())

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return timer.State().Paused }, time.Second, time.Millisecond)
	assert.Equal(t, 6, source.pollCount())
	assert.Equal(t, 1, counter.count())

	require.Eventually(t, func() bool { return policy.State() == OrientationArmed }, time.Second, time.Millisecond)
	clock.Advance(30 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 6, source.pollCount(), "no polls after the loop ends")
	assert.Equal(t, 1, counter.count())
}

func TestOrientationPolicy_EnableWhilePausedOnlyArms(t *testing.T) {
	timer := newPolicyTimer(t)
	counter := &pauseCounter{}
	timer.Subscribe(counter.listen)

	policy := NewOrientationPolicy(&scriptedOrientation{}, timer, clockwork.NewFakeClock(), DefaultOrientationCadence(), nil)
	require.NoError(t, policy.Enable())
	defer policy.Disable()

	assert.Equal(t, OrientationArmed, policy.State())
	assert.Equal(t, 0, counter.count())
}

func TestOrientationPolicy_DisableMidPollNeverPauses(t *testing.T) {
	timer := newPolicyTimer(t)
	source := &scriptedOrientation{script: []bool{false}, gate: make(chan struct{})}
	clock := clockwork.NewFakeClock()
	policy := NewOrientationPolicy(source, timer, clock, OrientationCadence{
		WarmupPolls: 5, WarmupInterval: time.Second, SteadyInterval: 3 * time.Second, SampleTimeout: time.Minute,
	}, nil)

	require.NoError(t, policy.Enable())
	timer.Play()

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return source.pollCount() == 1 }, time.Second, time.Millisecond)

	policy.Disable()
	close(source.gate)
	time.Sleep(20 * time.Millisecond)

	assert.False(t, timer.State().Paused, "stale pause after disable")
	assert.Equal(t, OrientationDisabled, policy.State())
}

func TestOrientationPolicy_ExternalPauseEndsMonitor(t *testing.T) {
	timer := newPolicyTimer(t)
	source := &scriptedOrientation{}
	clock := clockwork.NewFakeClock()
	policy := NewOrientationPolicy(source, timer, clock, DefaultOrientationCadence(), nil)
	require.NoError(t, policy.Enable())
	defer policy.Disable()

	timer.Play()
	clock.BlockUntil(1)
	timer.Pause()

	assert.Equal(t, OrientationArmed, policy.State())
	clock.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, source.pollCount())

	// Restart keeps the policy armed.
	require.NoError(t, timer.Restart())
	assert.Equal(t, OrientationArmed, policy.State())
}

func TestOrientationPolicy_SampleTimeoutCountsAsLifted(t *testing.T) {
	timer := newPolicyTimer(t)
	source := &scriptedOrientation{ignored: true}
	clock := clockwork.NewFakeClock()
	policy := NewOrientationPolicy(source, timer, clock, OrientationCadence{
		WarmupPolls: 5, WarmupInterval: time.Second, SteadyInterval: 3 * time.Second, SampleTimeout: 10 * time.Millisecond,
	}, nil)
	require.NoError(t, policy.Enable())
	defer policy.Disable()

	timer.Play()
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	require.Eventually(t, func() bool { return timer.State().Paused }, time.Second, time.Millisecond)
}

func TestOrientationPolicy_Unavailable(t *testing.T) {
	timer := newPolicyTimer(t)

	policy := NewOrientationPolicy(nil, timer, nil, DefaultOrientationCadence(), nil)
	assert.True(t, errors.Is(policy.Enable(), domain.ErrSensorUnavailable))

	policy = NewOrientationPolicy(&scriptedOrientation{absent: true}, timer, nil, DefaultOrientationCadence(), nil)
	assert.True(t, errors.Is(policy.Enable(), domain.ErrSensorUnavailable))
	assert.Equal(t, OrientationDisabled, policy.State())
}

func TestShakePolicy_TogglesTimer(t *testing.T) {
	timer := newPolicyTimer(t)
	source := &chanShake{ch: make(chan struct{})}
	policy := NewShakePolicy(source, timer, nil)

	require.NoError(t, policy.Enable())
	assert.True(t, policy.Enabled())

	source.ch <- struct{}{}
	require.Eventually(t, func() bool { return !timer.State().Paused }, time.Second, time.Millisecond)

	source.ch <- struct{}{}
	require.Eventually(t, func() bool { return timer.State().Paused }, time.Second, time.Millisecond)

	policy.Disable()
	select {
	case source.ch <- struct{}{}:
		t.Fatal("signal consumed after disable")
	case <-time.After(20 * time.Millisecond):
	}
	assert.True(t, timer.State().Paused)
}

func TestShakePolicy_ClosedSourceDisables(t *testing.T) {
	timer := newPolicyTimer(t)
	source := &chanShake{ch: make(chan struct{})}
	policy := NewShakePolicy(source, timer, nil)

	require.NoError(t, policy.Enable())
	close(source.ch)

	require.Eventually(t, func() bool { return !policy.Enabled() }, time.Second, time.Millisecond)
	assert.True(t, timer.State().Paused)
}

func TestShakePolicy_Unavailable(t *testing.T) {
	timer := newPolicyTimer(t)

	assert.True(t, errors.Is(NewShakePolicy(nil, timer, nil).Enable(), domain.ErrSensorUnavailable))

	policy := NewShakePolicy(&chanShake{err: domain.ErrSensorUnavailable}, timer, nil)
	assert.True(t, errors.Is(policy.Enable(), domain.ErrSensorUnavailable))
	assert.False(t, policy.Enabled())
}
