// Package timewin holds the dated clock window used by every scheduling
// decision. Dates are "YYYY-MM-DD" strings and clock times "HH:MM" strings,
// the same shape they have in booking documents.
package timewin

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Window is a calendar date plus an optional start/end clock time.
type Window struct {
	Date  string `json:"date" bson:"date"`
	Start string `json:"start,omitempty" bson:"start,omitempty"`
	End   string `json:"end,omitempty" bson:"end,omitempty"`
}

func New(date, start, end string) Window {
	return Window{Date: date, Start: start, End: end}
}

// HasTimes reports whether both clock times are set.
func (w Window) HasTimes() bool {
	return strings.TrimSpace(w.Start) != "" && strings.TrimSpace(w.End) != ""
}

// DurationMinutes returns end-start in minutes, or 0 without both times.
func (w Window) DurationMinutes() int {
	if !w.HasTimes() {
		return 0
	}
	return ParseClock(w.End) - ParseClock(w.Start)
}

func (w Window) String() string {
	if !w.HasTimes() {
		return w.Date + " (all day)"
	}
	return fmt.Sprintf("%s %s-%s", w.Date, w.Start, w.End)
}

// Overlaps reports whether a and b compete for the same resource.
// Windows on different dates never overlap. A window missing either clock
// time blocks its whole date. Otherwise the half-open intervals are compared.
func Overlaps(a, b Window) bool {
	if a.Date != b.Date {
		return false
	}
	if !a.HasTimes() || !b.HasTimes() {
		return true
	}
	return ParseClock(a.Start) < ParseClock(b.End) && ParseClock(b.Start) < ParseClock(a.End)
}

// ParseClock converts "HH:MM" to minutes since midnight. Anything that does
// not parse resolves to 0.
func ParseClock(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// FormatClock renders minutes since midnight as "HH:MM", clamped to the day.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 24*60 {
		minutes = 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ShiftDate moves a "YYYY-MM-DD" date by days. Unparseable dates are returned as-is.
func ShiftDate(date string, days int) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, days).Format(DateLayout)
}
