package timewin

import "testing"

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"10:30": 630,
		"23:59": 1439,
		"9:05":  545,
		"":      0,
		"noon":  0,
		"ab:10": 0,
		"10":    0,
	}
	for in, want := range cases {
		if got := ParseClock(in); got != want {
			t.Errorf("ParseClock(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"intersecting", New("2025-06-01", "10:00", "12:00"), New("2025-06-01", "11:00", "13:00"), true},
		{"touching ends", New("2025-06-01", "10:00", "12:00"), New("2025-06-01", "12:00", "14:00"), false},
		{"contained", New("2025-06-01", "09:00", "18:00"), New("2025-06-01", "12:00", "13:00"), true},
		{"disjoint", New("2025-06-01", "08:00", "09:00"), New("2025-06-01", "10:00", "11:00"), false},
		{"different dates", New("2025-06-01", "10:00", "12:00"), New("2025-06-02", "10:00", "12:00"), false},
		{"no times same day", New("2025-06-01", "", ""), New("2025-06-01", "", ""), true},
		{"one side open", New("2025-06-01", "10:00", ""), New("2025-06-01", "18:00", "19:00"), true},
		{"no times other day", New("2025-06-01", "", ""), New("2025-06-03", "", ""), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Overlaps(a,b) = %v, want %v", tc.name, got, tc.want)
		}
		if got := Overlaps(tc.b, tc.a); got != tc.want {
			t.Errorf("%s: Overlaps(b,a) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	clocks := []string{"", "00:00", "08:30", "10:00", "12:00", "bad", "23:00"}
	dates := []string{"2025-06-01", "2025-06-02"}
	var windows []Window
	for _, d := range dates {
		for _, s := range clocks {
			for _, e := range clocks {
				windows = append(windows, New(d, s, e))
			}
		}
	}
	for _, a := range windows {
		for _, b := range windows {
			if Overlaps(a, b) != Overlaps(b, a) {
				t.Fatalf("asymmetric result for %v and %v", a, b)
			}
		}
	}
}

func TestDurationAndFormat(t *testing.T) {
	if got := New("2025-06-01", "10:00", "12:30").DurationMinutes(); got != 150 {
		t.Fatalf("duration = %d", got)
	}
	if got := New("2025-06-01", "", "12:30").DurationMinutes(); got != 0 {
		t.Fatalf("duration without start = %d", got)
	}
	if got := FormatClock(12 * 60); got != "12:00" {
		t.Fatalf("FormatClock = %q", got)
	}
	if got := FormatClock(-30); got != "00:00" {
		t.Fatalf("FormatClock(-30) = %q", got)
	}
	if got := ShiftDate("2025-06-30", 1); got != "2025-07-01" {
		t.Fatalf("ShiftDate = %q", got)
	}
	if got := ShiftDate("junk", 1); got != "junk" {
		t.Fatalf("ShiftDate(junk) = %q", got)
	}
}
