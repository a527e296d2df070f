// Package streak detects unbroken runs of active days over sparse histories.
package streak

import (
	"sort"
	"time"

	"github.com/careertrail/careertrail/internal/period"
)

// DefaultLookbackDays bounds how much history callers should feed Current.
// A streak longer than the lookback is reported as the lookback length.
const DefaultLookbackDays = 30

// Current returns the length of the unbroken run of consecutive active days
// ending today. Days with no activity break the run; a run whose most recent
// day is not today yields 0. Feeding more history never shrinks the result
// for days still inside the window.
func Current(activeDays []time.Time, today time.Time) int {
	if len(activeDays) == 0 {
		return 0
	}

	today = period.Truncate(today)
	seen := make(map[time.Time]struct{}, len(activeDays))
	days := make([]time.Time, 0, len(activeDays))
	for _, d := range activeDays {
		d = period.Truncate(d)
		if d.After(today) {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	if !days[0].Equal(today) {
		return 0
	}

	// Consecutive days share the same "date plus recency rank" anchor: each
	// step back in rank must step exactly one calendar day back.
	length := 1
	for rank := 1; rank < len(days); rank++ {
		if !days[rank].AddDate(0, 0, rank).Equal(today) {
			break
		}
		length++
	}
	return length
}
