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

	"github.com/jackc/pgx/v5"
	"github.com/quartershq/quarters/internal/billing"
)

// PaymentRepository implements billing.PaymentRepository
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, org_id, provider, amount_cents, reference, invoice_id,
		reconciled, reconciled_at, paid_at, created_at`

func scanPayment(row pgx.Row) (*billing.Payment, error) {
	var p billing.Payment
	var invoiceID sql.NullString
	var reconciledAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.OrgID, &p.Provider, &p.AmountCents, &p.Reference, &invoiceID,
		&p.Reconciled, &reconciledAt, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if invoiceID.Valid {
		p.InvoiceID = &invoiceID.String
	}
	if reconciledAt.Valid {
		p.ReconciledAt = &reconciledAt.Time
	}
	return &p, nil
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, p *billing.Payment) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO payments (id, org_id, provider, amount_cents, reference, invoice_id,
			reconciled, reconciled_at, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		p.ID, p.OrgID, p.Provider, p.AmountCents, p.Reference, p.InvoiceID,
		p.Reconciled, p.ReconciledAt, p.PaidAt, p.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment scoped to the organization
func (r *PaymentRepository) GetByID(ctx context.Context, orgID, id string) (*billing.Payment, error) {
	p, err := scanPayment(r.db.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, billing.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// Update updates a payment's reconciliation state
func (r *PaymentRepository) Update(ctx context.Context, p *billing.Payment) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE payments SET invoice_id = $3, reconciled = $4, reconciled_at = $5
		WHERE org_id = $1 AND id = $2
	`, p.OrgID, p.ID, p.InvoiceID, p.Reconciled, p.ReconciledAt)

	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return billing.ErrPaymentNotFound
	}

	return nil
}

// List retrieves payments for an organization with pagination
func (r *PaymentRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*billing.Payment, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE org_id = $1
		ORDER BY paid_at DESC
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*billing.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, nil
}

// GetByReference retrieves a payment by its provider reference
func (r *PaymentRepository) GetByReference(ctx context.Context, orgID, provider, reference string) (*billing.Payment, error) {
	p, err := scanPayment(r.db.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE org_id = $1 AND provider = $2 AND reference = $3
	`, orgID, provider, reference))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, billing.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by reference: %w", err)
	}
	return p, nil
}
