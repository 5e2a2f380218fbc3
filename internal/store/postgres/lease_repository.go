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
	"github.com/quartershq/quarters/internal/lease"
)

// LeaseRepository implements lease.Repository
type LeaseRepository struct {
	db *DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

const leaseColumns = `id, org_id, unit_id, resident_id, status, start_date, end_date,
		rent_cents, rent_source, billing_cycle, payment_due_day,
		late_fee_grace_days, late_fee_percent, terms_version, terms_accepted_at,
		terminated_at, termination_reason, created_at, updated_at`

func scanLease(row pgx.Row) (*lease.Lease, error) {
	var l lease.Lease
	var termsAcceptedAt, terminatedAt sql.NullTime

	err := row.Scan(
		&l.ID, &l.OrgID, &l.UnitID, &l.ResidentID, &l.Status, &l.StartDate, &l.EndDate,
		&l.RentCents, &l.RentSource, &l.BillingCycle, &l.PaymentDueDay,
		&l.LateFeeGraceDays, &l.LateFeePercent, &l.TermsVersion, &termsAcceptedAt,
		&terminatedAt, &l.TerminationReason, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if termsAcceptedAt.Valid {
		l.TermsAcceptedAt = &termsAcceptedAt.Time
	}
	if terminatedAt.Valid {
		l.TerminatedAt = &terminatedAt.Time
	}
	return &l, nil
}

// Create creates a new lease
func (r *LeaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO leases (id, org_id, unit_id, resident_id, status, start_date, end_date,
			rent_cents, rent_source, billing_cycle, payment_due_day,
			late_fee_grace_days, late_fee_percent, terms_version, terms_accepted_at,
			terminated_at, termination_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`,
		l.ID, l.OrgID, l.UnitID, l.ResidentID, l.Status, l.StartDate, l.EndDate,
		l.RentCents, l.RentSource, l.BillingCycle, l.PaymentDueDay,
		l.LateFeeGraceDays, l.LateFeePercent, l.TermsVersion, l.TermsAcceptedAt,
		l.TerminatedAt, l.TerminationReason, l.CreatedAt, l.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert lease: %w", err)
	}

	return nil
}

// GetByID retrieves a lease scoped to the organization
func (r *LeaseRepository) GetByID(ctx context.Context, orgID, id string) (*lease.Lease, error) {
	l, err := scanLease(r.db.pool.QueryRow(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, lease.ErrLeaseNotFound
		}
		return nil, fmt.Errorf("failed to get lease: %w", err)
	}
	return l, nil
}

// Update updates a lease
func (r *LeaseRepository) Update(ctx context.Context, l *lease.Lease) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE leases SET status = $3, rent_cents = $4, rent_source = $5,
			terms_version = $6, terms_accepted_at = $7,
			terminated_at = $8, termination_reason = $9, updated_at = $10
		WHERE org_id = $1 AND id = $2
	`,
		l.OrgID, l.ID, l.Status, l.RentCents, l.RentSource,
		l.TermsVersion, l.TermsAcceptedAt,
		l.TerminatedAt, l.TerminationReason, time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to update lease: %w", err)
	}

	if result.RowsAffected() == 0 {
		return lease.ErrLeaseNotFound
	}

	return nil
}

// List retrieves leases for an organization, optionally filtered by status
func (r *LeaseRepository) List(ctx context.Context, orgID, status string, limit, offset int) ([]*lease.Lease, error) {
	query := `
		SELECT ` + leaseColumns + `
		FROM leases
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	args := []any{orgID, limit, offset}

	if status != "" {
		query = `
		SELECT ` + leaseColumns + `
		FROM leases
		WHERE org_id = $1 AND status = $4
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
		args = append(args, status)
	}

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	return collectLeases(rows)
}

// ListByResident retrieves all leases held by a resident
func (r *LeaseRepository) ListByResident(ctx context.Context, orgID, residentID string) ([]*lease.Lease, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE org_id = $1 AND resident_id = $2
		ORDER BY start_date DESC
	`, orgID, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resident leases: %w", err)
	}
	defer rows.Close()

	return collectLeases(rows)
}

// FindOpenByUnit returns the pending or active lease claiming the unit.
// Ordering puts active first so a pending renewal never shadows the lease
// it follows.
func (r *LeaseRepository) FindOpenByUnit(ctx context.Context, orgID, unitID string) (*lease.Lease, error) {
	l, err := scanLease(r.db.pool.QueryRow(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE org_id = $1 AND unit_id = $2 AND status IN ('pending', 'active')
		ORDER BY CASE status WHEN 'active' THEN 0 ELSE 1 END
		LIMIT 1
	`, orgID, unitID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, lease.ErrLeaseNotFound
		}
		return nil, fmt.Errorf("failed to find open lease: %w", err)
	}
	return l, nil
}

// ListActiveEndingBefore returns active leases whose end date has passed
func (r *LeaseRepository) ListActiveEndingBefore(ctx context.Context, t time.Time) ([]*lease.Lease, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE status = 'active' AND end_date < $1
	`, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list ending leases: %w", err)
	}
	defer rows.Close()

	return collectLeases(rows)
}

// ListActive returns all active leases across organizations
func (r *LeaseRepository) ListActive(ctx context.Context) ([]*lease.Lease, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+leaseColumns+`
		FROM leases
		WHERE status = 'active'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active leases: %w", err)
	}
	defer rows.Close()

	return collectLeases(rows)
}

// HasOpenLease reports whether the resident holds a pending or active lease
func (r *LeaseRepository) HasOpenLease(ctx context.Context, orgID, residentID string) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leases
			WHERE org_id = $1 AND resident_id = $2 AND status IN ('pending', 'active')
		)
	`, orgID, residentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open lease: %w", err)
	}
	return exists, nil
}

func collectLeases(rows pgx.Rows) ([]*lease.Lease, error) {
	var leases []*lease.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lease: %w", err)
		}
		leases = append(leases, l)
	}
	return leases, nil
}
