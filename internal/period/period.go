// Package period computes inclusive calendar bounds for snapshot buckets.
package period

import (
	"errors"
	"strings"
	"time"
)

// Type is the granularity of a snapshot bucket.
type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
)

// ErrInvalidType is returned for unrecognized period types. Callers must
// reject the request before touching any source data.
var ErrInvalidType = errors.New("invalid_period_type")

// ParseType validates a raw period type string.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeDaily:
		return TypeDaily, nil
	case TypeWeekly:
		return TypeWeekly, nil
	case TypeMonthly:
		return TypeMonthly, nil
	default:
		return "", ErrInvalidType
	}
}

// Valid reports whether t is a known period type.
func (t Type) Valid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeMonthly:
		return true
	default:
		return false
	}
}

// Bounds returns the inclusive [start, end] calendar bounds containing ref.
// Weeks start on Monday. Both bounds are midnight UTC dates.
func Bounds(t Type, ref time.Time) (time.Time, time.Time, error) {
	day := Truncate(ref)
	switch t {
	case TypeDaily:
		return day, day, nil
	case TypeWeekly:
		start := day.AddDate(0, 0, -mondayOffset(day.Weekday()))
		return start, start.AddDate(0, 0, 6), nil
	case TypeMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidType
	}
}

// Truncate normalizes a timestamp to its midnight UTC calendar date.
func Truncate(at time.Time) time.Time {
	at = at.UTC()
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}

func mondayOffset(d time.Weekday) int {
	// time.Weekday counts Sunday as 0.
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
