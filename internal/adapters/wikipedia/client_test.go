package wikipedia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus/internal/domain"
)

const sampleFeed = `{
  "selected": [
    {"text": "Apollo 11 lands on the Moon.", "year": 1969},
    {"text": "", "year": 1800}
  ],
  "events": [
    {"text": "The first transatlantic telegraph cable is completed.", "year": 1858},
    {"text": "Undated event", "year": 0}
  ],
  "births": [
    {"text": "Ada Lovelace", "year": 1815},
    {"text": "Alan Turing", "year": 1912},
    {"text": "Grace Hopper", "year": 1906},
    {"text": "Fourth person", "year": 1700}
  ],
  "deaths": [
    {"text": "Isaac Newton", "year": 1727}
  ],
  "holidays": [
    {"text": "Some holiday"}
  ]
}`

func TestFetch_ParsesAndSorts(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "de", nil)
	events, err := c.Fetch(context.Background(), domain.HistoryDay{Month: time.July, Day: 4})
	require.NoError(t, err)

	assert.Equal(t, "/feed/v1/wikipedia/de/onthisday/all/07/04", gotPath)
	assert.NotEmpty(t, gotUA)

	want := []domain.HistoricalEvent{
		{Year: 1727, Description: "Isaac Newton (died)"},
		{Year: 1815, Description: "Ada Lovelace (born)"},
		{Year: 1858, Description: "The first transatlantic telegraph cable is completed."},
		{Year: 1906, Description: "Grace Hopper (born)"},
		{Year: 1912, Description: "Alan Turing (born)"},
		{Year: 1969, Description: "Apollo 11 lands on the Moon."},
	}
	assert.Equal(t, want, events)
}

func TestFetch_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusForbidden, "access denied"},
		{http.StatusNotFound, "no historical data"},
		{http.StatusTooManyRequests, "too many requests"},
		{http.StatusBadGateway, "server error"},
		{http.StatusTeapot, "unexpected status"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "en", nil).Fetch(context.Background(), domain.HistoryDay{Month: time.May, Day: 15})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Message, tt.want)
		})
	}
}

func TestFetch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "en", nil).Fetch(context.Background(), domain.HistoryDay{Month: time.May, Day: 15})
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestFetch_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "en", nil).Fetch(ctx, domain.HistoryDay{Month: time.May, Day: 15})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
