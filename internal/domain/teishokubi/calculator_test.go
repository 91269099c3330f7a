package teishokubi

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func dp(y int, m time.Month, day int) *time.Time {
	t := d(y, m, day)
	return &t
}

func TestComputeEmpty(t *testing.T) {
	if _, ok := Compute(nil); ok {
		t.Fatal("empty input must yield no result")
	}
}

func TestComputeSingleAssignment(t *testing.T) {
	res, ok := Compute([]Period{
		{Start: d(2024, 4, 1), End: dp(2025, 3, 31)},
	})
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.DispatchStartDate.Equal(d(2024, 4, 1)) {
		t.Fatalf("dispatch start = %v", res.DispatchStartDate)
	}
	if !res.ConflictDate.Equal(d(2027, 4, 1)) {
		t.Fatalf("conflict date = %v", res.ConflictDate)
	}
	if len(res.Details) != 1 || !res.Details[0].IsCalculated {
		t.Fatalf("unexpected details %+v", res.Details)
	}
}

func TestComputeGapResets(t *testing.T) {
	// 2025-03-31 end, next start 2025-08-01: four months, the clock resets.
	res, ok := Compute([]Period{
		{Start: d(2024, 4, 1), End: dp(2025, 3, 31)},
		{Start: d(2025, 8, 1), End: dp(2026, 3, 31)},
	})
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.DispatchStartDate.Equal(d(2025, 8, 1)) {
		t.Fatalf("dispatch start = %v", res.DispatchStartDate)
	}
	if !res.ConflictDate.Equal(d(2028, 8, 1)) {
		t.Fatalf("conflict date = %v", res.ConflictDate)
	}
	if res.Details[0].IsCalculated {
		t.Fatal("pre-gap period must be excluded from the streak")
	}
	if !res.Details[1].IsCalculated {
		t.Fatal("post-gap period must anchor the streak")
	}
}

func TestComputeManualMerge(t *testing.T) {
	// Manual history narrows the first gap below the reset threshold, but
	// the later four-month gap still resets the anchor.
	res, ok := Compute([]Period{
		{Start: d(2024, 4, 1), End: dp(2025, 3, 31)},
		{Start: d(2025, 8, 1), End: dp(2026, 3, 31)},
		{DetailID: "m1", Start: d(2023, 10, 1), End: dp(2024, 1, 31), IsManual: true},
	})
	if !ok {
		t.Fatal("expected a result")
	}
	if len(res.Details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(res.Details))
	}
	if !res.Details[0].IsManual || !res.Details[0].Start.Equal(d(2023, 10, 1)) {
		t.Fatalf("manual detail must sort first, got %+v", res.Details[0])
	}
	if res.Details[0].IsCalculated || res.Details[1].IsCalculated {
		t.Fatal("pre-gap periods must be excluded")
	}
	if !res.DispatchStartDate.Equal(d(2025, 8, 1)) {
		t.Fatalf("dispatch start = %v", res.DispatchStartDate)
	}
	if !res.ConflictDate.Equal(d(2028, 8, 1)) {
		t.Fatalf("conflict date = %v", res.ConflictDate)
	}
}

func TestComputeGapBoundary(t *testing.T) {
	// Mar 31 end: three clamped months land on Jun 30, so Jul 1 is exactly
	// three months plus one day and resets.
	res, _ := Compute([]Period{
		{Start: d(2024, 1, 1), End: dp(2024, 3, 31)},
		{Start: d(2024, 7, 1)},
	})
	if !res.DispatchStartDate.Equal(d(2024, 7, 1)) {
		t.Fatalf("3m+1d gap must reset, dispatch start = %v", res.DispatchStartDate)
	}

	// One day less keeps the streak.
	res, _ = Compute([]Period{
		{Start: d(2024, 1, 1), End: dp(2024, 3, 31)},
		{Start: d(2024, 6, 30)},
	})
	if !res.DispatchStartDate.Equal(d(2024, 1, 1)) {
		t.Fatalf("3m gap must not reset, dispatch start = %v", res.DispatchStartDate)
	}
	if !res.Details[0].IsCalculated || !res.Details[1].IsCalculated {
		t.Fatal("both periods belong to the streak")
	}
}

func TestComputeMonthEndGap(t *testing.T) {
	// Nov 30 end: the target month is clamped to Feb 28, so Mar 1 opens
	// the full statutory gap.
	res, _ := Compute([]Period{
		{Start: d(2024, 6, 1), End: dp(2024, 11, 30)},
		{Start: d(2025, 3, 1)},
	})
	if !res.DispatchStartDate.Equal(d(2025, 3, 1)) {
		t.Fatalf("month-end gap must reset, dispatch start = %v", res.DispatchStartDate)
	}
	if !res.ConflictDate.Equal(d(2028, 3, 1)) {
		t.Fatalf("conflict date = %v", res.ConflictDate)
	}
	if res.Details[0].IsCalculated {
		t.Fatal("pre-gap period must be excluded from the streak")
	}

	// Feb 28 start is still within three months of Nov 30.
	res, _ = Compute([]Period{
		{Start: d(2024, 6, 1), End: dp(2024, 11, 30)},
		{Start: d(2025, 2, 28)},
	})
	if !res.DispatchStartDate.Equal(d(2024, 6, 1)) {
		t.Fatalf("3m gap must not reset, dispatch start = %v", res.DispatchStartDate)
	}
}

func TestComputeLeapDayAnchor(t *testing.T) {
	res, ok := Compute([]Period{
		{Start: d(2024, 2, 29), End: dp(2025, 2, 28)},
	})
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.ConflictDate.Equal(d(2027, 2, 28)) {
		t.Fatalf("Feb 29 anchor must clamp to Feb 28, got %v", res.ConflictDate)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{d(2024, 11, 30), 3, d(2025, 2, 28)},
		{d(2024, 3, 31), 3, d(2024, 6, 30)},
		{d(2024, 1, 31), 1, d(2024, 2, 29)},
		{d(2024, 2, 29), 36, d(2027, 2, 28)},
		{d(2024, 4, 1), 3, d(2024, 7, 1)},
		{d(2024, 11, 15), 2, d(2025, 1, 15)},
	}
	for _, c := range cases {
		if got := addMonthsClamped(c.in, c.months); !got.Equal(c.want) {
			t.Fatalf("addMonthsClamped(%v, %d) = %v, want %v", c.in, c.months, got, c.want)
		}
	}
}

func TestComputeOpenEndedBlocksReset(t *testing.T) {
	// A running period has no end, so nothing after it can open a gap.
	res, _ := Compute([]Period{
		{Start: d(2024, 1, 1)},
		{Start: d(2025, 6, 1), End: dp(2025, 12, 31)},
	})
	if !res.DispatchStartDate.Equal(d(2024, 1, 1)) {
		t.Fatalf("dispatch start = %v", res.DispatchStartDate)
	}
}

func TestComputeInputOrderIrrelevant(t *testing.T) {
	a, _ := Compute([]Period{
		{Start: d(2024, 4, 1), End: dp(2025, 3, 31)},
		{Start: d(2025, 8, 1), End: dp(2026, 3, 31)},
	})
	b, _ := Compute([]Period{
		{Start: d(2025, 8, 1), End: dp(2026, 3, 31)},
		{Start: d(2024, 4, 1), End: dp(2025, 3, 31)},
	})
	if !a.ConflictDate.Equal(b.ConflictDate) || !a.DispatchStartDate.Equal(b.DispatchStartDate) {
		t.Fatal("result must not depend on input order")
	}
}
