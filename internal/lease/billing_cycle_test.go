// Copyright 2026 The Quarters Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lease

import (
	"testing"
	"time"
)

// TestPurpose: Verify billing cycle arithmetic advances period starts by the
// right number of months.
// Scope: Unit Test
// Expected: Monthly advances one month per period, quarterly three, annual
// twelve.
// Test Case ID: CYC-01
func TestPeriodStart(t *testing.T) {
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		cycle string
		want  time.Time
	}{
		{CycleMonthly, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{CycleQuarterly, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{CycleSemiannual, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
		{CycleAnnual, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := PeriodStart(anchor, tt.cycle, 0); !got.Equal(anchor) {
			t.Errorf("PeriodStart(%s, 0): got %v, want anchor", tt.cycle, got)
		}
		got := PeriodStart(anchor, tt.cycle, 1)
		if !got.Equal(tt.want) {
			t.Errorf("PeriodStart(%s, 1): got %v, want %v", tt.cycle, got, tt.want)
		}
	}
}

// TestPurpose: Verify PeriodEnd returns the inclusive last day of the period.
// Scope: Unit Test
// Expected: A monthly period starting Jan 1 ends Jan 31; the second period
// ends the last day of February.
// Test Case ID: CYC-02
func TestPeriodEnd(t *testing.T) {
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := PeriodEnd(anchor, CycleMonthly, 0)
	want := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PeriodEnd(0): got %v, want %v", got, want)
	}
	got = PeriodEnd(anchor, CycleMonthly, 1)
	want = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PeriodEnd(1): got %v, want %v", got, want)
	}
}

// TestPurpose: Verify month-end anchors do not drift. Every period is
// computed from the anchor with the day clamped to the target month, never
// by advancing the previous period's clamped date.
// Scope: Unit Test
// Expected: A monthly lease starting Jan 31 bills Feb 28, Mar 31, Apr 30,
// and counts twelve periods in its first year.
// Test Case ID: CYC-06
func TestPeriodStartMonthEndAnchor(t *testing.T) {
	anchor := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	want := []time.Time{
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	for n, w := range want {
		if got := PeriodStart(anchor, CycleMonthly, n); !got.Equal(w) {
			t.Errorf("period %d: got %v, want %v", n, got, w)
		}
	}

	// Leap year February keeps the 29th.
	leap := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := PeriodStart(leap, CycleMonthly, 1); got.Day() != 29 {
		t.Errorf("expected Feb 29 in a leap year, got %v", got)
	}

	lastDay := anchor.AddDate(1, 0, -1)
	if n := PeriodsBetween(anchor, lastDay, CycleMonthly); n != 12 {
		t.Errorf("expected 12 monthly periods in the first year, got %d", n)
	}
}

// TestPurpose: Verify unknown billing cycles are rejected.
// Scope: Unit Test
// Expected: ValidCycle is false for anything outside the known set.
// Test Case ID: CYC-03
func TestValidCycle(t *testing.T) {
	for _, cycle := range []string{CycleMonthly, CycleQuarterly, CycleSemiannual, CycleAnnual} {
		if !ValidCycle(cycle) {
			t.Errorf("expected %s to be a valid cycle", cycle)
		}
	}
	for _, cycle := range []string{"", "weekly", "biannual", "MONTHLY"} {
		if ValidCycle(cycle) {
			t.Errorf("expected %q to be rejected", cycle)
		}
	}
}

// TestPurpose: Verify the due day is clamped to the length of the month.
// Scope: Unit Test
// Expected: Due day 28 stays 28 in February; a due day beyond the month's
// last day clamps to the last day.
// Test Case ID: CYC-04
func TestDueDateForClampsToMonth(t *testing.T) {
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	got := DueDateFor(feb, 28)
	if got.Day() != 28 || got.Month() != time.February {
		t.Errorf("expected Feb 28, got %v", got)
	}

	// 2024 is a leap year; day 30 clamps to 29.
	leapFeb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got = DueDateFor(leapFeb, 30)
	if got.Day() != 29 {
		t.Errorf("expected clamp to Feb 29, got %v", got)
	}

	apr := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	got = DueDateFor(apr, 31)
	if got.Day() != 30 {
		t.Errorf("expected clamp to Apr 30, got %v", got)
	}
}

// TestPurpose: Verify period counting between two instants.
// Scope: Unit Test
// Expected: The period starting at start counts as the first; instants
// before start yield zero.
// Test Case ID: CYC-05
func TestPeriodsBetween(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if n := PeriodsBetween(start, start.AddDate(0, 0, -1), CycleMonthly); n != 0 {
		t.Errorf("expected 0 periods before start, got %d", n)
	}
	if n := PeriodsBetween(start, start, CycleMonthly); n != 1 {
		t.Errorf("expected 1 period at start, got %d", n)
	}
	if n := PeriodsBetween(start, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), CycleMonthly); n != 3 {
		t.Errorf("expected 3 monthly periods by mid March, got %d", n)
	}
	if n := PeriodsBetween(start, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), CycleQuarterly); n != 4 {
		t.Errorf("expected 4 quarterly periods in the year, got %d", n)
	}
}
