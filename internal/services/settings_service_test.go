package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus/internal/domain"
)

func TestSettingsService_Update(t *testing.T) {
	store := newMemSettingsStore(domain.DefaultSettings())
	svc := NewSettingsService(store, nil)
	ctx := context.Background()

	updated := domain.Settings{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, CycleLength: 2}
	require.NoError(t, svc.Update(ctx, updated))

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestSettingsService_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.Settings)
	}{
		{"work above 60", func(s *domain.Settings) { s.WorkMinutes = 90 }},
		{"short break zero", func(s *domain.Settings) { s.ShortBreakMinutes = 0 }},
		{"long break below 5", func(s *domain.Settings) { s.LongBreakMinutes = 3 }},
		{"cycle above 10", func(s *domain.Settings) { s.CycleLength = 15 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemSettingsStore(domain.DefaultSettings())
			svc := NewSettingsService(store, nil)

			_, err := svc.Modify(context.Background(), tt.modify)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			got, _ := svc.Get(context.Background())
			assert.Equal(t, domain.DefaultSettings(), got, "store must be untouched")
		})
	}
}

func TestSettingsService_Modify(t *testing.T) {
	svc := NewSettingsService(newMemSettingsStore(domain.DefaultSettings()), nil)

	got, err := svc.Modify(context.Background(), func(s *domain.Settings) {
		s.NotificationsEnabled = true
	})
	require.NoError(t, err)
	assert.True(t, got.NotificationsEnabled)
	assert.Equal(t, 25, got.WorkMinutes)
}
