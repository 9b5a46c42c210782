package domain

import (
	"sort"
	"time"
)

// HistoricalEvent is one "on this day" entry.
type HistoricalEvent struct {
	Year        int    `json:"year"`
	Description string `json:"description"`
}

// HistoryDay identifies a calendar day independent of the year.
type HistoryDay struct {
	Month time.Month
	Day   int
}

// HistoryDayOf returns the month/day of t.
func HistoryDayOf(t time.Time) HistoryDay {
	return HistoryDay{Month: t.Month(), Day: t.Day()}
}

// SortEventsByYear orders events oldest first, keeping feed order for ties.
func SortEventsByYear(events []HistoricalEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Year < events[j].Year
	})
}

// PageCount returns how many pages of size n the events fill.
func PageCount(events []HistoricalEvent, n int) int {
	if n <= 0 || len(events) == 0 {
		return 0
	}
	return (len(events) + n - 1) / n
}

// PageEvents returns page (0-based) of size n, or nil past the end.
func PageEvents(events []HistoricalEvent, page, n int) []HistoricalEvent {
	if n <= 0 || page < 0 {
		return nil
	}
	start := page * n
	if start >= len(events) {
		return nil
	}
	end := min(start+n, len(events))
	return events[start:end]
}
