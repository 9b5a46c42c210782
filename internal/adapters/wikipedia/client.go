// Package wikipedia fetches "on this day" events from the Wikimedia feed API.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xvierd/focus/internal/domain"
	"github.com/xvierd/focus/internal/ports"
)

const (
	// DefaultBaseURL is the Wikimedia API host.
	DefaultBaseURL = "https://api.wikimedia.org"

	userAgent = "focus/1.0 (https://github.com/xvierd/focus)"

	// Only the first few births and deaths are kept; the full lists run to hundreds.
	maxBirths = 3
	maxDeaths = 3
)

// ErrEmptyFeed is returned when the API answers without a body.
var ErrEmptyFeed = errors.New("no content")

// APIError is a non-2xx response from the feed API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wikipedia feed returned %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int) *APIError {
	var msg string
	switch {
	case status == http.StatusForbidden:
		msg = "access denied, check your network connection"
	case status == http.StatusNotFound:
		msg = "no historical data found"
	case status == http.StatusTooManyRequests:
		msg = "too many requests, please wait"
	case status >= 500:
		msg = "server error, try again later"
	default:
		msg = "unexpected status"
	}
	return &APIError{StatusCode: status, Message: msg}
}

// Client implements ports.HistoryProvider over HTTP.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ ports.HistoryProvider = (*Client)(nil)

// NewClient creates a client for the given API host and wiki language.
func NewClient(baseURL, language string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = "en"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger: log,
	}
}

// Fetch implements ports.HistoryProvider.
func (c *Client) Fetch(ctx context.Context, day domain.HistoryDay) ([]domain.HistoricalEvent, error) {
	url := fmt.Sprintf("%s/feed/v1/wikipedia/%s/onthisday/all/%02d/%02d", c.baseURL, c.language, day.Month, day.Day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("wikipedia feed error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, newAPIError(resp.StatusCode)
	}

	var feed onThisDay
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFeed
		}
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	events := feed.toEvents()
	c.logger.Debug("fetched historical events",
		zap.Int("month", int(day.Month)),
		zap.Int("day", day.Day),
		zap.Int("count", len(events)))
	return events, nil
}

// onThisDay is the JSON shape of the feed response.
type onThisDay struct {
	Selected []feedItem `json:"selected"`
	Events   []feedItem `json:"events"`
	Births   []feedItem `json:"births"`
	Deaths   []feedItem `json:"deaths"`
}

type feedItem struct {
	Text string `json:"text"`
	Year int    `json:"year"`
}

func (f onThisDay) toEvents() []domain.HistoricalEvent {
	var out []domain.HistoricalEvent
	add := func(items []feedItem, limit int, suffix string) {
		if limit >= 0 && len(items) > limit {
			items = items[:limit]
		}
		for _, it := range items {
			text := strings.TrimSpace(it.Text)
			if it.Year <= 0 || text == "" {
				continue
			}
			out = append(out, domain.HistoricalEvent{Year: it.Year, Description: text + suffix})
		}
	}

	add(f.Selected, -1, "")
	add(f.Events, -1, "")
	add(f.Births, maxBirths, " (born)")
	add(f.Deaths, maxDeaths, " (died)")

	domain.SortEventsByYear(out)
	return out
}
