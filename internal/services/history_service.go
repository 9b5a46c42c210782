package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

// TodayLimit is how many events the "today" view shows.
const TodayLimit = 5

// HistoryConfig tunes the historical events cache.
type HistoryConfig struct {
	CacheTTL       time.Duration
	RefreshTimeout time.Duration
}

// DefaultHistoryConfig caches for a week and caps refreshes at 15 seconds.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		CacheTTL:       7 * 24 * time.Hour,
		RefreshTimeout: 15 * time.Second,
	}
}

// HistoryService serves "on this day" events from cache or the provider.
type HistoryService struct {
	provider ports.HistoryProvider
	cache    ports.HistoryCache
	clock    clockwork.Clock
	cfg      HistoryConfig
	logger   *zap.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(provider ports.HistoryProvider, cache ports.HistoryCache, clock clockwork.Clock, cfg HistoryConfig, log *zap.Logger) *HistoryService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryService{provider: provider, cache: cache, clock: clock, cfg: cfg, logger: log}
}

// Today returns the first events of today's list.
func (s *HistoryService) Today(ctx context.Context) ([]domain.HistoricalEvent, error) {
	events, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) > TodayLimit {
		events = events[:TodayLimit]
	}
	return events, nil
}

// All returns every event for today, using a fresh cache entry when one
// exists. A stale entry is served if the provider fails.
func (s *HistoryService) All(ctx context.Context) ([]domain.HistoricalEvent, error) {
	now := s.clock.Now()
	day := domain.HistoryDayOf(now)

	cached, fetchedAt, ok, err := s.cache.Get(ctx, day)
	if err != nil {
		s.logger.Warn("failed to read history cache", zap.Error(err))
		ok = false
	}
	if ok && now.Sub(fetchedAt) < s.cfg.CacheTTL {
		return cached, nil
	}

	events, err := s.fetch(ctx, day)
	if err != nil {
		if ok {
			s.logger.Warn("serving stale history", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return events, nil
}

// Refresh drops today's cache entry and fetches again.
func (s *HistoryService) Refresh(ctx context.Context) ([]domain.HistoricalEvent, error) {
	day := domain.HistoryDayOf(s.clock.Now())
	if err := s.cache.Delete(ctx, day); err != nil {
		s.logger.Warn("failed to clear history cache", zap.Error(err))
	}
	return s.fetch(ctx, day)
}

// Search fuzzy-matches today's events against query, best match first.
func (s *HistoryService) Search(ctx context.Context, query string) ([]domain.HistoricalEvent, error) {
	events, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	descriptions := make([]string, len(events))
	for i, e := range events {
		descriptions[i] = e.Description
	}

	matches := fuzzy.Find(query, descriptions)
	out := make([]domain.HistoricalEvent, 0, len(matches))
	for _, m := range matches {
		out = append(out, events[m.Index])
	}
	return out, nil
}

func (s *HistoryService) fetch(ctx context.Context, day domain.HistoryDay) ([]domain.HistoricalEvent, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no history provider configured")
	}

	fctx, cancel := context.WithTimeout(ctx, s.cfg.RefreshTimeout)
	defer cancel()

	events, err := s.provider.Fetch(fctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical events: %w", err)
	}

	if err := s.cache.Put(ctx, day, events, s.clock.Now()); err != nil {
		s.logger.Warn("failed to cache historical events", zap.Error(err))
	}
	return events, nil
}
