package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus/internal/domain"
)

func TestDefaultConfig_ToSettings(t *testing.T) {
	settings := DefaultConfig().ToSettings()
	if settings.WorkMinutes != 25 || settings.ShortBreakMinutes != 5 || settings.LongBreakMinutes != 15 || settings.CycleLength != 4 {
		t.Errorf("unexpected default settings: %+v", settings)
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "config file should be created")

	assert.Equal(t, 25*time.Minute, time.Duration(cfg.Timer.WorkDuration))
	assert.Equal(t, time.Monday, cfg.WeekStart())
	assert.Equal(t, 5, cfg.OrientationCadence().WarmupPolls)
	assert.Equal(t, 7*24*time.Hour, cfg.HistoryServiceConfig().CacheTTL)
	assert.NotEmpty(t, cfg.Logging.OutputPath)
}

func TestLoadFrom_ReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[timer]
work_duration = "50m"
short_break = "10m"
long_break = "30m"
cycle_length = 2
week_start = "Sunday"

[sensors]
steady_interval = "10s"

[storage]
data_dir = "` + filepath.ToSlash(dir) + `"

[logging]
level = "debug"
output_path = "stderr"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Settings{
		WorkMinutes:          50,
		ShortBreakMinutes:    10,
		LongBreakMinutes:     30,
		CycleLength:          2,
		NotificationsEnabled: true,
	}, cfg.ToSettings())
	assert.Equal(t, time.Sunday, cfg.WeekStart())
	assert.Equal(t, 10*time.Second, cfg.OrientationCadence().SteadyInterval)
	assert.Equal(t, time.Second, cfg.OrientationCadence().WarmupInterval, "unset values keep defaults")
	assert.Equal(t, filepath.Join(filepath.ToSlash(dir), "focus.db"), GetDBPath(cfg))
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.OutputPath)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Timer.CycleLength = 6
	cfg.History.Language = "de"
	require.NoError(t, SaveTo(path, cfg))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.Timer.CycleLength)
	assert.Equal(t, "de", loaded.History.Language)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~/.focus", filepath.Join(home, ".focus")},
		{"", filepath.Join(home, ".focus")},
		{"/var/lib/focus", "/var/lib/focus"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
