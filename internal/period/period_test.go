package period

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBoundsDaily(t *testing.T) {
	ref := time.Date(2026, time.March, 14, 17, 45, 3, 0, time.UTC)
	start, end, err := Bounds(TypeDaily, ref)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if !start.Equal(date(2026, time.March, 14)) || !end.Equal(start) {
		t.Fatalf("expected single-day bounds, got %v..%v", start, end)
	}
}

func TestBoundsWeeklyStartsMonday(t *testing.T) {
	cases := []struct {
		ref   time.Time
		start time.Time
	}{
		{date(2026, time.March, 9), date(2026, time.March, 9)},  // Monday maps to itself
		{date(2026, time.March, 11), date(2026, time.March, 9)}, // Wednesday
		{date(2026, time.March, 15), date(2026, time.March, 9)}, // Sunday closes the week
	}
	for _, tc := range cases {
		start, end, err := Bounds(TypeWeekly, tc.ref)
		if err != nil {
			t.Fatalf("bounds(%v): %v", tc.ref, err)
		}
		if !start.Equal(tc.start) {
			t.Fatalf("ref %v: expected start %v, got %v", tc.ref, tc.start, start)
		}
		if !end.Equal(tc.start.AddDate(0, 0, 6)) {
			t.Fatalf("ref %v: expected end %v, got %v", tc.ref, tc.start.AddDate(0, 0, 6), end)
		}
	}
}

func TestBoundsMonthly(t *testing.T) {
	start, end, err := Bounds(TypeMonthly, date(2026, time.February, 17))
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if !start.Equal(date(2026, time.February, 1)) {
		t.Fatalf("expected Feb 1 start, got %v", start)
	}
	if !end.Equal(date(2026, time.February, 28)) {
		t.Fatalf("expected Feb 28 end, got %v", end)
	}
}

func TestBoundsContainReference(t *testing.T) {
	ref := time.Date(2026, time.July, 31, 23, 59, 59, 0, time.UTC)
	for _, pt := range []Type{TypeDaily, TypeWeekly, TypeMonthly} {
		start, end, err := Bounds(pt, ref)
		if err != nil {
			t.Fatalf("bounds(%s): %v", pt, err)
		}
		if end.Before(start) {
			t.Fatalf("%s: end %v before start %v", pt, end, start)
		}
		day := Truncate(ref)
		if day.Before(start) || day.After(end) {
			t.Fatalf("%s: reference %v outside [%v, %v]", pt, day, start, end)
		}
	}
}

func TestBoundsRejectsUnknownType(t *testing.T) {
	_, _, err := Bounds(Type("quarterly"), date(2026, time.March, 14))
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestParseType(t *testing.T) {
	pt, err := ParseType("  Weekly ")
	if err != nil || pt != TypeWeekly {
		t.Fatalf("expected weekly, got %v (%v)", pt, err)
	}
	if _, err := ParseType("hourly"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}
