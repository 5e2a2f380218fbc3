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

package billing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/id"
	"github.com/quartershq/quarters/internal/lease"
	"github.com/quartershq/quarters/internal/observability/logger"
)

// Leases is the slice of lease storage the billing service needs.
// Satisfied by lease.Repository.
type Leases interface {
	ListActive(ctx context.Context) ([]*lease.Lease, error)
	GetByID(ctx context.Context, orgID, id string) (*lease.Lease, error)
}

// Service provides invoicing and payment business logic
type Service struct {
	invoices    InvoiceRepository
	payments    PaymentRepository
	leases      Leases
	auditLogger audit.Logger
}

// NewService creates a new billing service
func NewService(invoices InvoiceRepository, payments PaymentRepository, leases Leases, auditLogger audit.Logger) *Service {
	return &Service{
		invoices:    invoices,
		payments:    payments,
		leases:      leases,
		auditLogger: auditLogger,
	}
}

// GenerateDueInvoices walks every active lease and creates the invoice for
// each billing period whose due date falls within horizon of now and which
// has no invoice yet. Generation is idempotent: a unique index on
// (lease_id, period_start) backs the existence check, so re-running the
// sweep never double-bills a period. Returns the number of invoices created.
func (s *Service) GenerateDueInvoices(ctx context.Context, now time.Time, horizon time.Duration) (int, error) {
	leases, err := s.leases.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active leases: %w", err)
	}

	cutoff := now.Add(horizon)
	created := 0
	for _, l := range leases {
		n, err := s.generateForLease(ctx, l, cutoff)
		if err != nil {
			slog.Warn("invoice generation failed for lease",
				logger.LeaseID(l.ID),
				logger.Error(err))
			continue
		}
		created += n
	}
	return created, nil
}

func (s *Service) generateForLease(ctx context.Context, l *lease.Lease, cutoff time.Time) (int, error) {
	created := 0
	for n := 0; ; n++ {
		start := lease.PeriodStart(l.StartDate, l.BillingCycle, n)
		if start.After(l.EndDate) {
			break
		}
		due := lease.DueDateFor(start, l.PaymentDueDay)
		if due.After(cutoff) {
			break
		}
		exists, err := s.invoices.ExistsForPeriod(ctx, l.ID, start)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		now := time.Now()
		inv := &Invoice{
			ID:          id.NewUUIDv7(),
			OrgID:       l.OrgID,
			LeaseID:     l.ID,
			PeriodStart: start,
			PeriodEnd:   lease.PeriodEnd(l.StartDate, l.BillingCycle, n),
			DueDate:     due,
			AmountCents: l.RentCents,
			Status:      InvoiceOpen,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return created, err
		}
		created++

		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeInvoiceGenerated,
			OrgID:    l.OrgID,
			Resource: inv.ID,
			Metadata: map[string]any{audit.AttrAmount: inv.AmountCents},
		})
	}
	return created, nil
}

// ApplyLateFees marks open invoices past their due date plus the lease's
// grace period as overdue, adding the lease's late fee once. Invoices whose
// lease carries no late fee percent are still marked overdue. Returns the
// number of invoices touched.
func (s *Service) ApplyLateFees(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.invoices.ListOpenPastDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list past-due invoices: %w", err)
	}

	touched := 0
	for _, inv := range overdue {
		l, err := s.leases.GetByID(ctx, inv.OrgID, inv.LeaseID)
		if err != nil {
			slog.Warn("late fee sweep skipped invoice with missing lease",
				logger.InvoiceID(inv.ID),
				logger.Error(err))
			continue
		}

		graceEnd := inv.DueDate.AddDate(0, 0, l.LateFeeGraceDays)
		if !now.After(graceEnd) {
			continue
		}

		inv.Status = InvoiceOverdue
		if l.LateFeePercent > 0 && inv.LateFeeCents == 0 {
			inv.LateFeeCents = lateFee(inv.AmountCents, l.LateFeePercent)
		}
		inv.UpdatedAt = time.Now()
		if err := s.invoices.Update(ctx, inv); err != nil {
			slog.Warn("failed to apply late fee",
				logger.InvoiceID(inv.ID),
				logger.Error(err))
			continue
		}
		touched++

		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLateFeeApplied,
			OrgID:    inv.OrgID,
			Resource: inv.ID,
			Metadata: map[string]any{audit.AttrAmount: inv.LateFeeCents},
		})
	}
	return touched, nil
}

// lateFee rounds half away from zero so a 2.5% fee on 1000 cents is 25, not 24.
func lateFee(amountCents int64, percent float64) int64 {
	return int64(math.Round(float64(amountCents) * percent / 100))
}

// GetInvoice retrieves an invoice scoped to the organization.
func (s *Service) GetInvoice(ctx context.Context, orgID, invoiceID string) (*Invoice, error) {
	return s.invoices.GetByID(ctx, orgID, invoiceID)
}

// ListInvoices returns invoices for the organization, optionally filtered by
// status.
func (s *Service) ListInvoices(ctx context.Context, orgID, status string, limit, offset int) ([]*Invoice, error) {
	return s.invoices.List(ctx, orgID, status, limit, offset)
}

// ListInvoicesByLease returns every invoice raised against the lease.
func (s *Service) ListInvoicesByLease(ctx context.Context, orgID, leaseID string) ([]*Invoice, error) {
	return s.invoices.ListByLease(ctx, orgID, leaseID)
}

// VoidInvoice cancels an open or overdue invoice. Paid invoices cannot be
// voided.
func (s *Service) VoidInvoice(ctx context.Context, orgID, invoiceID, reason, actorID string) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != InvoiceOpen && inv.Status != InvoiceOverdue {
		return nil, ErrInvoiceClosed
	}

	inv.Status = InvoiceVoid
	inv.UpdatedAt = time.Now()
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to void invoice: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInvoiceVoided,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: inv.ID,
		Metadata: map[string]any{audit.AttrReason: reason},
	})
	return inv, nil
}

// RecordPayment validates and stores a payment. When the payment names an
// invoice the invoice must exist in the same organization; linking to the
// invoice balance happens in Reconcile.
func (s *Service) RecordPayment(ctx context.Context, orgID, provider, reference string, amountCents int64, invoiceID *string, paidAt time.Time, actorID string) (*Payment, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if !ValidProvider(provider) {
		return nil, ErrUnknownProvider
	}
	if invoiceID != nil {
		if _, err := s.invoices.GetByID(ctx, orgID, *invoiceID); err != nil {
			return nil, err
		}
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	p := &Payment{
		ID:          id.NewUUIDv7(),
		OrgID:       orgID,
		Provider:    provider,
		AmountCents: amountCents,
		Reference:   reference,
		InvoiceID:   invoiceID,
		PaidAt:      paidAt,
		CreatedAt:   time.Now(),
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePaymentRecorded,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: p.ID,
		Metadata: map[string]any{
			audit.AttrAmount: amountCents,
			"provider":       provider,
		},
	})
	return p, nil
}

// GetPayment retrieves a payment scoped to the organization.
func (s *Service) GetPayment(ctx context.Context, orgID, paymentID string) (*Payment, error) {
	return s.payments.GetByID(ctx, orgID, paymentID)
}

// ListPayments returns payments for the organization.
func (s *Service) ListPayments(ctx context.Context, orgID string, limit, offset int) ([]*Payment, error) {
	return s.payments.List(ctx, orgID, limit, offset)
}

// Reconcile links a payment to an invoice and marks the invoice paid once
// reconciled payments cover the full amount including late fees. A payment
// reconciles at most once.
func (s *Service) Reconcile(ctx context.Context, orgID, paymentID, invoiceID, actorID string) (*Invoice, error) {
	p, err := s.payments.GetByID(ctx, orgID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Reconciled {
		return nil, ErrAlreadyReconciled
	}

	inv, err := s.invoices.GetByID(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == InvoiceVoid {
		return nil, ErrInvoiceClosed
	}

	now := time.Now()
	p.InvoiceID = &inv.ID
	p.Reconciled = true
	p.ReconciledAt = &now
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to reconcile payment: %w", err)
	}

	covered, err := s.invoices.SumReconciled(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum reconciled payments: %w", err)
	}
	if covered >= inv.TotalCents() && inv.Status != InvoicePaid {
		inv.Status = InvoicePaid
		inv.UpdatedAt = now
		if err := s.invoices.Update(ctx, inv); err != nil {
			return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePaymentReconciled,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: p.ID,
		Metadata: map[string]any{
			"invoice_id":     inv.ID,
			audit.AttrAmount: p.AmountCents,
		},
	})
	return inv, nil
}
