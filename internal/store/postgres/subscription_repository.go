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

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quartershq/quarters/internal/subscription"
)

// PlanRepository implements subscription.PlanRepository
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, tier, cycle, base_price_cents, discount_percent,
		discount_fixed_cents, max_buildings, max_units, active,
		created_at, updated_at, retired_at`

func scanPlan(row pgx.Row) (*subscription.Plan, error) {
	var p subscription.Plan
	var percent sql.NullFloat64
	var fixed sql.NullInt64
	var retiredAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Name, &p.Tier, &p.Cycle, &p.BasePriceCents, &percent,
		&fixed, &p.MaxBuildings, &p.MaxUnits, &p.Active,
		&p.CreatedAt, &p.UpdatedAt, &retiredAt,
	)
	if err != nil {
		return nil, err
	}
	if percent.Valid {
		p.DiscountPercent = &percent.Float64
	}
	if fixed.Valid {
		p.DiscountFixedCents = &fixed.Int64
	}
	if retiredAt.Valid {
		p.RetiredAt = &retiredAt.Time
	}
	return &p, nil
}

// Create creates a new plan
func (r *PlanRepository) Create(ctx context.Context, p *subscription.Plan) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO plans (id, name, tier, cycle, base_price_cents, discount_percent,
			discount_fixed_cents, max_buildings, max_units, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		p.ID, p.Name, p.Tier, p.Cycle, p.BasePriceCents, p.DiscountPercent,
		p.DiscountFixedCents, p.MaxBuildings, p.MaxUnits, p.Active,
		p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	return nil
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*subscription.Plan, error) {
	p, err := scanPlan(r.db.pool.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM plans
		WHERE id = $1
	`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

// Update updates a plan
func (r *PlanRepository) Update(ctx context.Context, p *subscription.Plan) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE plans SET name = $2, tier = $3, base_price_cents = $4,
			discount_percent = $5, discount_fixed_cents = $6,
			max_buildings = $7, max_units = $8, active = $9,
			retired_at = $10, updated_at = $11
		WHERE id = $1
	`,
		p.ID, p.Name, p.Tier, p.BasePriceCents,
		p.DiscountPercent, p.DiscountFixedCents,
		p.MaxBuildings, p.MaxUnits, p.Active,
		p.RetiredAt, time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return subscription.ErrPlanNotFound
	}

	return nil
}

// List retrieves plans, optionally only active ones
func (r *PlanRepository) List(ctx context.Context, activeOnly bool) ([]*subscription.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY base_price_cents`
	if activeOnly {
		query = `SELECT ` + planColumns + ` FROM plans WHERE active ORDER BY base_price_cents`
	}

	rows, err := r.db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*subscription.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, nil
}

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, org_id, plan_id, status, started_at, cancelled_at,
		created_at, updated_at`

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var cancelledAt sql.NullTime

	err := row.Scan(
		&s.ID, &s.OrgID, &s.PlanID, &s.Status, &s.StartedAt, &cancelledAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		s.CancelledAt = &cancelledAt.Time
	}
	return &s, nil
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, org_id, plan_id, status, started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.OrgID, s.PlanID, s.Status, s.StartedAt, s.CreatedAt, s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	s, err := scanSubscription(r.db.pool.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE id = $1
	`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

// Update updates a subscription
func (r *SubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE subscriptions SET plan_id = $2, status = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1
	`, s.ID, s.PlanID, s.Status, s.CancelledAt, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return subscription.ErrSubscriptionNotFound
	}

	return nil
}

// GetActiveByOrg returns the organization's active subscription
func (r *SubscriptionRepository) GetActiveByOrg(ctx context.Context, orgID string) (*subscription.Subscription, error) {
	s, err := scanSubscription(r.db.pool.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE org_id = $1 AND status = 'active'
	`, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return s, nil
}

// ListActive returns all active subscriptions
func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]*subscription.Subscription, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE status = 'active'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, nil
}
