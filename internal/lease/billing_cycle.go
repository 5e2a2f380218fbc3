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

import "time"

// Billing cycle constants
const (
	CycleMonthly    = "monthly"
	CycleQuarterly  = "quarterly"
	CycleSemiannual = "semiannual"
	CycleAnnual     = "annual"
)

// CycleMonths returns the number of months in one billing period, or 0 for an
// unknown cycle.
func CycleMonths(cycle string) int {
	switch cycle {
	case CycleMonthly:
		return 1
	case CycleQuarterly:
		return 3
	case CycleSemiannual:
		return 6
	case CycleAnnual:
		return 12
	}
	return 0
}

// ValidCycle reports whether cycle is a known billing cycle.
func ValidCycle(cycle string) bool {
	return CycleMonths(cycle) > 0
}

// PeriodStart returns the start of the nth billing period, counting the
// period beginning at anchor as period 0. Every period is computed from the
// anchor, with the anchor's day clamped to the target month, so a lease
// starting Jan 31 bills Feb 28 and then Mar 31 instead of drifting into
// early March.
func PeriodStart(anchor time.Time, cycle string, n int) time.Time {
	year, month, day := anchor.Date()
	month += time.Month(n * CycleMonths(cycle))
	first := time.Date(year, month, 1, 0, 0, 0, 0, anchor.Location())
	y, m, _ := first.Date()
	if last := daysInMonth(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, anchor.Location())
}

// PeriodEnd returns the inclusive last day of the nth billing period, the
// day before the next period starts.
func PeriodEnd(anchor time.Time, cycle string, n int) time.Time {
	return PeriodStart(anchor, cycle, n+1).AddDate(0, 0, -1)
}

// DueDateFor returns the payment due date within the period starting at
// periodStart. dueDay is clamped to the length of the month, so a due day of
// 28 works for February too.
func DueDateFor(periodStart time.Time, dueDay int) time.Time {
	year, month, _ := periodStart.Date()
	last := daysInMonth(year, month)
	if dueDay > last {
		dueDay = last
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, periodStart.Location())
}

// PeriodsBetween returns how many billing periods start at or before t,
// counting the period beginning at anchor as the first. Returns 0 when t is
// before anchor.
func PeriodsBetween(anchor, t time.Time, cycle string) int {
	if t.Before(anchor) {
		return 0
	}
	n := 0
	for !PeriodStart(anchor, cycle, n).After(t) {
		n++
	}
	return n
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
