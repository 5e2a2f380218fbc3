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
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quartershq/quarters/internal/billing"
)

// InvoiceRepository implements billing.InvoiceRepository
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, org_id, lease_id, period_start, period_end, due_date,
		amount_cents, late_fee_cents, status, created_at, updated_at`

func scanInvoice(row pgx.Row) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := row.Scan(
		&inv.ID, &inv.OrgID, &inv.LeaseID, &inv.PeriodStart, &inv.PeriodEnd,
		&inv.DueDate, &inv.AmountCents, &inv.LateFeeCents, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create creates a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, inv *billing.Invoice) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO invoices (id, org_id, lease_id, period_start, period_end, due_date,
			amount_cents, late_fee_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		inv.ID, inv.OrgID, inv.LeaseID, inv.PeriodStart, inv.PeriodEnd, inv.DueDate,
		inv.AmountCents, inv.LateFeeCents, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice scoped to the organization
func (r *InvoiceRepository) GetByID(ctx context.Context, orgID, id string) (*billing.Invoice, error) {
	inv, err := scanInvoice(r.db.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// Update updates an invoice's status and late fee
func (r *InvoiceRepository) Update(ctx context.Context, inv *billing.Invoice) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE invoices SET late_fee_cents = $3, status = $4, updated_at = $5
		WHERE org_id = $1 AND id = $2
	`, inv.OrgID, inv.ID, inv.LateFeeCents, inv.Status, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if result.RowsAffected() == 0 {
		return billing.ErrInvoiceNotFound
	}

	return nil
}

// List retrieves invoices for an organization, optionally filtered by status
func (r *InvoiceRepository) List(ctx context.Context, orgID, status string, limit, offset int) ([]*billing.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE org_id = $1
		ORDER BY due_date DESC
		LIMIT $2 OFFSET $3`
	args := []any{orgID, limit, offset}

	if status != "" {
		query = `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE org_id = $1 AND status = $4
		ORDER BY due_date DESC
		LIMIT $2 OFFSET $3`
		args = append(args, status)
	}

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// ListByLease retrieves every invoice raised against a lease
func (r *InvoiceRepository) ListByLease(ctx context.Context, orgID, leaseID string) ([]*billing.Invoice, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE org_id = $1 AND lease_id = $2
		ORDER BY period_start
	`, orgID, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lease invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// ExistsForPeriod reports whether the lease already has an invoice for the
// period starting at periodStart
func (r *InvoiceRepository) ExistsForPeriod(ctx context.Context, leaseID string, periodStart time.Time) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM invoices WHERE lease_id = $1 AND period_start = $2
		)
	`, leaseID, periodStart).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invoice period: %w", err)
	}
	return exists, nil
}

// ListOpenPastDue returns open invoices whose due date has passed
func (r *InvoiceRepository) ListOpenPastDue(ctx context.Context, now time.Time) ([]*billing.Invoice, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE status = 'open' AND due_date < $1
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list past-due invoices: %w", err)
	}
	defer rows.Close()

	return collectInvoices(rows)
}

// SumReconciled returns the total of reconciled payments linked to an invoice
func (r *InvoiceRepository) SumReconciled(ctx context.Context, invoiceID string) (int64, error) {
	var sum int64
	err := r.db.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE invoice_id = $1 AND reconciled
	`, invoiceID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum reconciled payments: %w", err)
	}
	return sum, nil
}

func collectInvoices(rows pgx.Rows) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
