package domain

import (
	"fmt"
	"strings"
)

// Period selects the aggregation window of a statistics snapshot.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Periods lists every period in display order.
var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodYearly}

// EstimatedBreakMinutes is the break time assumed per completed session.
const EstimatedBreakMinutes = 5

// ParsePeriod accepts the canonical names plus common short forms.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week", "w":
		return PeriodWeekly, nil
	case "monthly", "month", "m":
		return PeriodMonthly, nil
	case "yearly", "year", "y":
		return PeriodYearly, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: weekly, monthly, yearly)", ErrInvalidPeriod, s)
	}
}

// DefaultGoal returns the session target used when none has been stored.
func (p Period) DefaultGoal() int {
	switch p {
	case PeriodMonthly:
		return 80
	case PeriodYearly:
		return 1000
	default:
		return 20
	}
}

// Label returns a human-readable label for the period.
func (p Period) Label() string {
	switch p {
	case PeriodWeekly:
		return "This Week"
	case PeriodMonthly:
		return "This Month"
	case PeriodYearly:
		return "This Year"
	default:
		return string(p)
	}
}

// ValidateGoal rejects non-positive goal targets.
func ValidateGoal(target int) error {
	if target <= 0 {
		return &ValidationError{Field: "goal", Message: "must be positive"}
	}
	return nil
}

// Distribution is the work/break/other split in whole percents.
// Other absorbs the floor-rounding remainder.
type Distribution struct {
	Work  int `json:"work"`
	Break int `json:"break"`
	Other int `json:"other"`
}

// SeriesPoint is one bucket of a chart series.
type SeriesPoint struct {
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
}

// StatisticsSnapshot is the derived view of the session log for one period.
// It is recomputed on every change and never persisted.
type StatisticsSnapshot struct {
	Period              Period          `json:"period"`
	TotalSessions       int             `json:"total_sessions"`
	TotalMinutes        int             `json:"total_minutes"`
	TotalFocusHours     int             `json:"total_focus_hours"`
	AverageDailyMinutes int             `json:"average_daily_minutes"`
	WeeklySeries        [7]SeriesPoint  `json:"weekly_series"`
	MonthlySeries       [12]SeriesPoint `json:"monthly_series"`
	YearlySeries        [5]SeriesPoint  `json:"yearly_series"`
	Distribution        Distribution    `json:"distribution"`
	GoalTarget          int             `json:"goal_target"`
	GoalCompleted       int             `json:"goal_completed"`
}

// EmptySnapshot returns the all-zero snapshot used when data is unavailable.
func EmptySnapshot(p Period) StatisticsSnapshot {
	return StatisticsSnapshot{
		Period:       p,
		Distribution: Distribution{Other: 100},
		GoalTarget:   p.DefaultGoal(),
	}
}

// GoalProgress returns completed/target. It is not clamped, so values above
// 1.0 mean the goal was exceeded.
func (s StatisticsSnapshot) GoalProgress() float64 {
	if s.GoalTarget <= 0 {
		return 0
	}
	return float64(s.GoalCompleted) / float64(s.GoalTarget)
}

// ClampedProgress is GoalProgress limited to [0, 1] for progress bars.
func (s StatisticsSnapshot) ClampedProgress() float64 {
	return min(max(s.GoalProgress(), 0), 1)
}

// Series returns the chart series that belongs to the snapshot's period.
func (s StatisticsSnapshot) Series() []SeriesPoint {
	switch s.Period {
	case PeriodMonthly:
		return s.MonthlySeries[:]
	case PeriodYearly:
		return s.YearlySeries[:]
	default:
		return s.WeeklySeries[:]
	}
}

// ActivityDistribution splits period totals into work, estimated break and
// remainder percentages.
func ActivityDistribution(totalMinutes, totalSessions int) Distribution {
	if totalMinutes <= 0 {
		return Distribution{Other: 100}
	}
	estimatedBreak := totalSessions * EstimatedBreakMinutes
	combined := totalMinutes + estimatedBreak
	work := totalMinutes * 100 / combined
	brk := estimatedBreak * 100 / combined
	return Distribution{
		Work:  work,
		Break: brk,
		Other: 100 - work - brk,
	}
}
