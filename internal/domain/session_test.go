package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDaySessionRecord_AddSession(t *testing.T) {
	tests := []struct {
		name  string
		start DaySessionRecord
		add   int
		want  DaySessionRecord
	}{
		{"empty", DaySessionRecord{}, 25, DaySessionRecord{Minutes: 25, Sessions: 1}},
		{"rolls into hours", DaySessionRecord{Minutes: 50, Sessions: 2}, 25, DaySessionRecord{Hours: 1, Minutes: 15, Sessions: 3}},
		{"exact hour", DaySessionRecord{Minutes: 35, Sessions: 1}, 25, DaySessionRecord{Hours: 1, Sessions: 2}},
		{"keeps hours", DaySessionRecord{Hours: 2, Minutes: 10, Sessions: 5}, 60, DaySessionRecord{Hours: 3, Minutes: 10, Sessions: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.start
			before := rec.TotalFocusMinutes()
			rec.AddSession(tt.add)

			if rec != tt.want {
				t.Errorf("AddSession(%d) = %+v, want %+v", tt.add, rec, tt.want)
			}
			if rec.TotalFocusMinutes() != before+tt.add {
				t.Errorf("TotalFocusMinutes = %d, want %d", rec.TotalFocusMinutes(), before+tt.add)
			}
		})
	}
}

func TestParseDateKey(t *testing.T) {
	d, err := ParseDateKey("2024-03-09")
	if err != nil {
		t.Fatalf("ParseDateKey() error = %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 9 {
		t.Errorf("ParseDateKey() = %v", d)
	}
	if DateKey(d) != "2024-03-09" {
		t.Errorf("DateKey() = %q", DateKey(d))
	}

	if _, err := ParseDateKey("09/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseDateKey(bad) error = %v, want ErrInvalidDate", err)
	}
}
