package services

import (
	"context"
	"errors"
	"sync"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

var errDiskFull = errors.New("disk full")

type appendCall struct {
	date    string
	minutes int
}

// memSessionLog is a SessionLog that records appends and can be told to fail.
type memSessionLog struct {
	mu      sync.Mutex
	records map[string]domain.DaySessionRecord
	appends []appendCall
	fail    bool
	readErr error
}

func newMemSessionLog() *memSessionLog {
	return &memSessionLog{records: make(map[string]domain.DaySessionRecord)}
}

func (m *memSessionLog) ReadAll(ctx context.Context) (map[string]domain.DaySessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make(map[string]domain.DaySessionRecord, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out, nil
}

func (m *memSessionLog) ReadOne(ctx context.Context, date string) (*domain.DaySessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[date]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memSessionLog) AppendSession(ctx context.Context, date string, minutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return &domain.PersistenceError{Op: "append session", Err: errDiskFull}
	}
	m.appends = append(m.appends, appendCall{date: date, minutes: minutes})
	rec := m.records[date]
	rec.Date = date
	rec.AddSession(minutes)
	m.records[date] = rec
	return nil
}

func (m *memSessionLog) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *memSessionLog) appendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appends)
}

// memSettingsStore validates writes like the real store.
type memSettingsStore struct {
	mu       sync.Mutex
	settings domain.Settings
}

func newMemSettingsStore(s domain.Settings) *memSettingsStore {
	return &memSettingsStore{settings: s}
}

func (m *memSettingsStore) Read(ctx context.Context) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *memSettingsStore) Write(ctx context.Context, s domain.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

// recordingNotifier captures phase completions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []domain.Phase
}

func (r *recordingNotifier) PhaseComplete(completed, next domain.Phase, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, completed)
	return nil
}

var (
	_ ports.SessionLog    = (*memSessionLog)(nil)
	_ ports.SettingsStore = (*memSettingsStore)(nil)
	_ ports.PhaseNotifier = (*recordingNotifier)(nil)
)
