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

package subscription

import "math"

// ValidateDiscount enforces the plan discount rules: at most one discount
// kind, percent within [0, 100], and a fixed discount no larger than the
// base price.
func ValidateDiscount(basePriceCents int64, percent *float64, fixedCents *int64) error {
	if basePriceCents < 0 {
		return ErrInvalidPrice
	}
	if percent != nil && fixedCents != nil {
		return ErrConflictingDiscount
	}
	if percent != nil && (*percent < 0 || *percent > 100) {
		return ErrInvalidDiscount
	}
	if fixedCents != nil && (*fixedCents < 0 || *fixedCents > basePriceCents) {
		return ErrInvalidDiscount
	}
	return nil
}

// EffectivePriceCents returns the price per billing cycle after discount.
// Never negative.
func (p *Plan) EffectivePriceCents() int64 {
	price := p.BasePriceCents
	switch {
	case p.DiscountPercent != nil:
		price = int64(math.Round(float64(p.BasePriceCents) * (1 - *p.DiscountPercent/100)))
	case p.DiscountFixedCents != nil:
		price = p.BasePriceCents - *p.DiscountFixedCents
	}
	if price < 0 {
		price = 0
	}
	return price
}

// CycleMonths returns the number of months one billing of the plan covers,
// or 0 for an unknown cycle.
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

// MonthlyPriceCents normalizes the effective price to one month, dividing by
// the months the cycle covers and truncating fractional cents.
func (p *Plan) MonthlyPriceCents() int64 {
	months := int64(CycleMonths(p.Cycle))
	if months <= 1 {
		return p.EffectivePriceCents()
	}
	return p.EffectivePriceCents() / months
}
