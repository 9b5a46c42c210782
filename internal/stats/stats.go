// Package stats aggregates the per-day session log into period snapshots.
// Everything here is pure: callers pass the records, the period, the goal
// and "today".
package stats

import (
	"strconv"
	"time"

	"github.com/xvierd/focus/internal/domain"
)

// Window returns the inclusive calendar window of a period ending today.
// Both bounds are midnight in today's location.
func Window(period domain.Period, today time.Time, weekStart time.Weekday) (start, end time.Time) {
	end = midnight(today)
	switch period {
	case domain.PeriodMonthly:
		start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	case domain.PeriodYearly:
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
	default:
		offset := (int(end.Weekday()) - int(weekStart) + 7) % 7
		start = end.AddDate(0, 0, -offset)
	}
	return start, end
}

// DaysInclusive counts calendar days from start to end, both included.
func DaysInclusive(start, end time.Time) int {
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a)/(24*time.Hour)) + 1
}

// Compute builds the snapshot for period from the session log records.
// Records whose date key does not parse are ignored.
func Compute(records map[string]domain.DaySessionRecord, period domain.Period, goal int, today time.Time, weekStart time.Weekday) domain.StatisticsSnapshot {
	snap := domain.StatisticsSnapshot{
		Period:     period,
		GoalTarget: goal,
	}

	start, end := Window(period, today, weekStart)
	days := parseDays(records, today.Location())

	for _, d := range days {
		if d.date.Before(start) || d.date.After(end) {
			continue
		}
		snap.TotalSessions += d.rec.Sessions
		snap.TotalMinutes += d.rec.TotalFocusMinutes()
	}

	snap.TotalFocusHours = snap.TotalMinutes / 60
	if n := DaysInclusive(start, end); n > 0 {
		snap.AverageDailyMinutes = snap.TotalMinutes / n
	}

	snap.WeeklySeries = weeklySeries(days, end)
	snap.MonthlySeries = monthlySeries(days, end)
	snap.YearlySeries = yearlySeries(days, end)

	snap.Distribution = domain.ActivityDistribution(snap.TotalMinutes, snap.TotalSessions)
	snap.GoalCompleted = snap.TotalSessions
	return snap
}

type day struct {
	date time.Time
	rec  domain.DaySessionRecord
}

func parseDays(records map[string]domain.DaySessionRecord, loc *time.Location) []day {
	out := make([]day, 0, len(records))
	for key, rec := range records {
		d, err := time.ParseInLocation(domain.DateLayout, key, loc)
		if err != nil {
			continue
		}
		out = append(out, day{date: d, rec: rec})
	}
	return out
}

func weeklySeries(days []day, today time.Time) [7]domain.SeriesPoint {
	var series [7]domain.SeriesPoint
	first := today.AddDate(0, 0, -6)
	index := make(map[string]int, 7)
	for i := range series {
		d := first.AddDate(0, 0, i)
		series[i].Label = d.Format("Mon")
		index[d.Format(domain.DateLayout)] = i
	}
	for _, d := range days {
		if i, ok := index[d.date.Format(domain.DateLayout)]; ok {
			series[i].Minutes += d.rec.TotalFocusMinutes()
		}
	}
	return series
}

func monthlySeries(days []day, today time.Time) [12]domain.SeriesPoint {
	var series [12]domain.SeriesPoint
	current := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	index := make(map[int]int, 12)
	for i := range series {
		m := current.AddDate(0, i-11, 0)
		series[i].Label = m.Format("Jan")
		index[monthKey(m)] = i
	}
	for _, d := range days {
		if i, ok := index[monthKey(d.date)]; ok {
			series[i].Minutes += d.rec.TotalFocusMinutes()
		}
	}
	return series
}

func yearlySeries(days []day, today time.Time) [5]domain.SeriesPoint {
	var series [5]domain.SeriesPoint
	firstYear := today.Year() - 4
	for i := range series {
		series[i].Label = strconv.Itoa(firstYear + i)
	}
	for _, d := range days {
		if i := d.date.Year() - firstYear; i >= 0 && i < len(series) {
			series[i].Minutes += d.rec.TotalFocusMinutes()
		}
	}
	return series
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
