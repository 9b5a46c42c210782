package domain

import (
	"fmt"
	"time"
)

// DateLayout is the key format of the session log.
const DateLayout = "2006-01-02"

// DaySessionRecord accumulates completed work sessions for one calendar day.
// Minutes stays below 60; overflow rolls into Hours.
type DaySessionRecord struct {
	Date     string `json:"date"`
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

// DateKey formats t as a session log key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a session log key as a local calendar day.
func ParseDateKey(key string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return d, nil
}

// NewDaySessionRecord returns an empty record for the given day.
func NewDaySessionRecord(date string) DaySessionRecord {
	return DaySessionRecord{Date: date}
}

// TotalFocusMinutes returns Hours*60 + Minutes.
func (r DaySessionRecord) TotalFocusMinutes() int {
	return r.Hours*60 + r.Minutes
}

// AddSession records one completed work session of the given length.
func (r *DaySessionRecord) AddSession(minutes int) {
	total := r.TotalFocusMinutes() + max(minutes, 0)
	r.Hours = total / 60
	r.Minutes = total % 60
	r.Sessions++
}

// Normalize rolls minute overflow into hours.
func (r *DaySessionRecord) Normalize() {
	total := r.TotalFocusMinutes()
	r.Hours = total / 60
	r.Minutes = total % 60
}
