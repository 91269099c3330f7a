package teishokubi

import (
	"sort"
	"time"
)

// openEnd stands in for a missing end date during the gap scan. Only the
// most recent period of a streak can be open.
var openEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Period is one input interval for the calculator. A nil End means the
// period is still running. DetailID is set for manual rows so the store can
// keep them in place across recomputes.
type Period struct {
	DetailID string
	Start    time.Time
	End      *time.Time
	IsManual bool
}

func (p Period) endOrMax() time.Time {
	if p.End == nil {
		return openEnd
	}
	return *p.End
}

// addMonthsClamped adds calendar months without overflowing the target
// month: Nov 30 + 3 months is Feb 28 (or 29), not Mar 2. Statutory date
// arithmetic clamps to the last day, and dispatch periods overwhelmingly
// end at month-end, so the overflow matters.
func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// LabeledPeriod is a Period with its streak membership decided.
type LabeledPeriod struct {
	Period
	IsCalculated bool
}

// Result is the full derived state for one key.
type Result struct {
	DispatchStartDate time.Time
	ConflictDate      time.Time
	Details           []LabeledPeriod
}

// Compute runs the statutory gap scan over the combined auto and manual
// periods. It returns false when there is nothing to compute, in which case
// any existing header must be deleted.
//
// The clock resets when a period starts at least three months plus one day
// after the previous period's end. The anchor is the start of the last
// streak; the conflict date is the anchor plus three calendar years.
func Compute(periods []Period) (Result, bool) {
	if len(periods) == 0 {
		return Result{}, false
	}

	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	anchorIndex := 0
	for i := 1; i < len(sorted); i++ {
		reset := addMonthsClamped(sorted[i-1].endOrMax(), 3).AddDate(0, 0, 1)
		if !sorted[i].Start.Before(reset) {
			anchorIndex = i
		}
	}

	anchor := sorted[anchorIndex].Start
	res := Result{
		DispatchStartDate: anchor,
		ConflictDate:      addMonthsClamped(anchor, 36),
		Details:           make([]LabeledPeriod, len(sorted)),
	}
	for i, p := range sorted {
		res.Details[i] = LabeledPeriod{Period: p, IsCalculated: i >= anchorIndex}
	}
	return res, true
}
