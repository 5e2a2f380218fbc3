package billing

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUnknownProvider    = errors.New("unknown payment provider")
	ErrInvoiceClosed      = errors.New("invoice is not open")
	ErrAlreadyReconciled  = errors.New("payment already reconciled")
	ErrInvoiceExists      = errors.New("invoice already exists for period")
	ErrSignatureMismatch  = errors.New("webhook signature mismatch")
	ErrProviderDisabled   = errors.New("payment provider disabled")
	ErrMalformedSignature = errors.New("malformed webhook signature")
)

// Invoice status constants
const (
	InvoiceOpen    = "open"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
	InvoiceVoid    = "void"
)

// Payment provider constants
const (
	ProviderChapa        = "chapa"
	ProviderTelebirr     = "telebirr"
	ProviderCBEBirr      = "cbe_birr"
	ProviderHelloCash    = "hellocash"
	ProviderCash         = "cash"
	ProviderBankTransfer = "bank_transfer"
)

// Invoice bills one lease billing period.
type Invoice struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	LeaseID      string    `json:"lease_id"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	DueDate      time.Time `json:"due_date"`
	AmountCents  int64     `json:"amount_cents"`
	LateFeeCents int64     `json:"late_fee_cents"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TotalCents is the amount owed including late fees.
func (i *Invoice) TotalCents() int64 {
	return i.AmountCents + i.LateFeeCents
}

// Payment records money received, from a webhook or entered manually.
type Payment struct {
	ID           string     `json:"id"`
	OrgID        string     `json:"org_id"`
	Provider     string     `json:"provider"`
	AmountCents  int64      `json:"amount_cents"`
	Reference    string     `json:"reference"`
	InvoiceID    *string    `json:"invoice_id,omitempty"`
	Reconciled   bool       `json:"reconciled"`
	ReconciledAt *time.Time `json:"reconciled_at,omitempty"`
	PaidAt       time.Time  `json:"paid_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// InvoiceRepository defines the interface for invoice storage
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, orgID, id string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	List(ctx context.Context, orgID, status string, limit, offset int) ([]*Invoice, error)
	ListByLease(ctx context.Context, orgID, leaseID string) ([]*Invoice, error)

	// ExistsForPeriod reports whether the lease already has an invoice for
	// the period starting at periodStart.
	ExistsForPeriod(ctx context.Context, leaseID string, periodStart time.Time) (bool, error)

	// ListOpenPastDue returns open invoices whose due date has passed.
	ListOpenPastDue(ctx context.Context, now time.Time) ([]*Invoice, error)

	// SumReconciled returns the total of reconciled payments linked to the
	// invoice.
	SumReconciled(ctx context.Context, invoiceID string) (int64, error)
}

// PaymentRepository defines the interface for payment storage
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, orgID, id string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*Payment, error)
	GetByReference(ctx context.Context, orgID, provider, reference string) (*Payment, error)
}

// ValidProvider reports whether provider is a known payment provider.
func ValidProvider(provider string) bool {
	switch provider {
	case ProviderChapa, ProviderTelebirr, ProviderCBEBirr, ProviderHelloCash,
		ProviderCash, ProviderBankTransfer:
		return true
	}
	return false
}

// WebhookProvider reports whether provider delivers payments by webhook.
func WebhookProvider(provider string) bool {
	switch provider {
	case ProviderChapa, ProviderTelebirr, ProviderCBEBirr, ProviderHelloCash:
		return true
	}
	return false
}
