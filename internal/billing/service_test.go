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
	"errors"
	"testing"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/lease"
)

// MockBillingStore is an in-memory invoice and payment store for testing.
// It implements InvoiceRepository, PaymentRepository and Leases.
type MockBillingStore struct {
	invoices map[string]*Invoice
	payments map[string]*Payment
	leases   map[string]*lease.Lease
}

func NewMockBillingStore() *MockBillingStore {
	return &MockBillingStore{
		invoices: make(map[string]*Invoice),
		payments: make(map[string]*Payment),
		leases:   make(map[string]*lease.Lease),
	}
}

func (m *MockBillingStore) Create(ctx context.Context, inv *Invoice) error {
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *MockBillingStore) GetByID(ctx context.Context, orgID, id string) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.OrgID != orgID {
		return nil, ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *MockBillingStore) Update(ctx context.Context, inv *Invoice) error {
	if _, ok := m.invoices[inv.ID]; !ok {
		return ErrInvoiceNotFound
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *MockBillingStore) List(ctx context.Context, orgID, status string, limit, offset int) ([]*Invoice, error) {
	var out []*Invoice
	for _, inv := range m.invoices {
		if inv.OrgID == orgID && (status == "" || inv.Status == status) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *MockBillingStore) ListByLease(ctx context.Context, orgID, leaseID string) ([]*Invoice, error) {
	var out []*Invoice
	for _, inv := range m.invoices {
		if inv.OrgID == orgID && inv.LeaseID == leaseID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *MockBillingStore) ExistsForPeriod(ctx context.Context, leaseID string, periodStart time.Time) (bool, error) {
	for _, inv := range m.invoices {
		if inv.LeaseID == leaseID && inv.PeriodStart.Equal(periodStart) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockBillingStore) ListOpenPastDue(ctx context.Context, now time.Time) ([]*Invoice, error) {
	var out []*Invoice
	for _, inv := range m.invoices {
		if inv.Status == InvoiceOpen && inv.DueDate.Before(now) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockBillingStore) SumReconciled(ctx context.Context, invoiceID string) (int64, error) {
	var sum int64
	for _, p := range m.payments {
		if p.Reconciled && p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			sum += p.AmountCents
		}
	}
	return sum, nil
}

type mockPaymentStore struct{ store *MockBillingStore }

func (m *mockPaymentStore) Create(ctx context.Context, p *Payment) error {
	cp := *p
	m.store.payments[p.ID] = &cp
	return nil
}

func (m *mockPaymentStore) GetByID(ctx context.Context, orgID, id string) (*Payment, error) {
	p, ok := m.store.payments[id]
	if !ok || p.OrgID != orgID {
		return nil, ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentStore) Update(ctx context.Context, p *Payment) error {
	if _, ok := m.store.payments[p.ID]; !ok {
		return ErrPaymentNotFound
	}
	cp := *p
	m.store.payments[p.ID] = &cp
	return nil
}

func (m *mockPaymentStore) List(ctx context.Context, orgID string, limit, offset int) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.store.payments {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentStore) GetByReference(ctx context.Context, orgID, provider, reference string) (*Payment, error) {
	for _, p := range m.store.payments {
		if p.OrgID == orgID && p.Provider == provider && p.Reference == reference {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrPaymentNotFound
}

type mockLeaseSource struct{ store *MockBillingStore }

func (m *mockLeaseSource) ListActive(ctx context.Context) ([]*lease.Lease, error) {
	var out []*lease.Lease
	for _, l := range m.store.leases {
		if l.Status == lease.StatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLeaseSource) GetByID(ctx context.Context, orgID, id string) (*lease.Lease, error) {
	l, ok := m.store.leases[id]
	if !ok || l.OrgID != orgID {
		return nil, lease.ErrLeaseNotFound
	}
	return l, nil
}

type billingAuditLogger struct{ events []audit.Event }

func (b *billingAuditLogger) Log(ctx context.Context, event audit.Event) {
	b.events = append(b.events, event)
}

type billingFixture struct {
	svc      *Service
	store    *MockBillingStore
	auditLog *billingAuditLogger
}

func newBillingFixture() *billingFixture {
	store := NewMockBillingStore()
	auditLog := &billingAuditLogger{}
	svc := NewService(store, &mockPaymentStore{store}, &mockLeaseSource{store}, auditLog)
	return &billingFixture{svc: svc, store: store, auditLog: auditLog}
}

func activeTestLease() *lease.Lease {
	return &lease.Lease{
		ID:               "lease-1",
		OrgID:            "org-1",
		UnitID:           "unit-1",
		ResidentID:       "res-1",
		Status:           lease.StatusActive,
		StartDate:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		RentCents:        100000,
		BillingCycle:     lease.CycleMonthly,
		PaymentDueDay:    5,
		LateFeeGraceDays: 3,
		LateFeePercent:   2.5,
	}
}

// TestPurpose: Verify the invoice sweep bills each period within the horizon
// exactly once and re-running it creates nothing new.
// Scope: Unit Test
// Expected: Three monthly invoices by mid March; a second sweep creates zero.
// Test Case ID: BIL-01
func TestGenerateDueInvoicesIdempotent(t *testing.T) {
	f := newBillingFixture()
	f.store.leases["lease-1"] = activeTestLease()

	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	created, err := f.svc.GenerateDueInvoices(context.Background(), now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if created != 3 {
		t.Errorf("expected 3 invoices (Jan, Feb, Mar due days within horizon), got %d", created)
	}

	again, err := f.svc.GenerateDueInvoices(context.Background(), now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if again != 0 {
		t.Errorf("expected idempotent re-run, got %d new invoices", again)
	}

	for _, inv := range f.store.invoices {
		if inv.AmountCents != 100000 {
			t.Errorf("expected invoice amount to match lease rent, got %d", inv.AmountCents)
		}
		if inv.Status != InvoiceOpen {
			t.Errorf("expected open invoice, got %s", inv.Status)
		}
	}
}

// TestPurpose: Verify the sweep never bills periods beyond the lease end date.
// Scope: Unit Test
// Expected: A lease ending in February yields two invoices even with a long
// horizon.
// Test Case ID: BIL-02
func TestGenerateDueInvoicesStopsAtLeaseEnd(t *testing.T) {
	f := newBillingFixture()
	l := activeTestLease()
	l.EndDate = time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	f.store.leases["lease-1"] = l

	created, err := f.svc.GenerateDueInvoices(context.Background(),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if created != 2 {
		t.Errorf("expected 2 invoices for a two-month lease, got %d", created)
	}
}

// TestPurpose: Verify a lease starting on a month-end day bills every month.
// Period starts are computed from the lease start with the day clamped per
// month, so February is billed and later periods return to day 31.
// Scope: Unit Test
// Expected: A Jan 31 monthly lease swept on Apr 1 yields three invoices with
// period starts Jan 31, Feb 28 and Mar 31.
// Test Case ID: BIL-09
func TestGenerateDueInvoicesMonthEndStart(t *testing.T) {
	f := newBillingFixture()
	l := activeTestLease()
	l.StartDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	l.EndDate = time.Date(2027, 1, 30, 0, 0, 0, 0, time.UTC)
	f.store.leases["lease-1"] = l

	created, err := f.svc.GenerateDueInvoices(context.Background(),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 invoices for Jan through Mar, got %d", created)
	}

	want := map[string]bool{"2026-01-31": false, "2026-02-28": false, "2026-03-31": false}
	for _, inv := range f.store.invoices {
		key := inv.PeriodStart.Format("2006-01-02")
		if _, ok := want[key]; !ok {
			t.Errorf("unexpected period start %s", key)
			continue
		}
		want[key] = true
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("missing invoice for period starting %s", key)
		}
	}
}

// TestPurpose: Verify the late fee sweep respects the grace period, charges
// the fee once and rounds half away from zero.
// Scope: Unit Test
// Expected: No fee inside grace; 2.5% of 100000 cents is 2500 after grace;
// a second sweep does not double the fee.
// Test Case ID: BIL-03
func TestApplyLateFees(t *testing.T) {
	f := newBillingFixture()
	f.store.leases["lease-1"] = activeTestLease()
	ctx := context.Background()

	inv := &Invoice{
		ID:          "inv-1",
		OrgID:       "org-1",
		LeaseID:     "lease-1",
		DueDate:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		AmountCents: 100000,
		Status:      InvoiceOpen,
	}
	f.store.invoices["inv-1"] = inv

	// Day 7 is past due but inside the 3-day grace window.
	touched, err := f.svc.ApplyLateFees(ctx, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if touched != 0 {
		t.Errorf("expected no fee inside grace, touched %d", touched)
	}

	touched, err = f.svc.ApplyLateFees(ctx, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if touched != 1 {
		t.Fatalf("expected 1 invoice touched after grace, got %d", touched)
	}

	got := f.store.invoices["inv-1"]
	if got.Status != InvoiceOverdue {
		t.Errorf("expected overdue status, got %s", got.Status)
	}
	if got.LateFeeCents != 2500 {
		t.Errorf("expected 2.5%% late fee of 2500 cents, got %d", got.LateFeeCents)
	}

	// Overdue invoices leave the open past-due list, so the fee stays put.
	f.svc.ApplyLateFees(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if f.store.invoices["inv-1"].LateFeeCents != 2500 {
		t.Errorf("expected fee applied once, got %d", f.store.invoices["inv-1"].LateFeeCents)
	}
}

// TestPurpose: Verify the late fee rounding helper rounds half away from zero.
// Scope: Unit Test
// Expected: 2.5% of 1000 cents is 25, not the truncated 24.
// Test Case ID: BIL-04
func TestLateFeeRounding(t *testing.T) {
	if got := lateFee(1000, 2.5); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	if got := lateFee(999, 2.5); got != 25 {
		t.Errorf("expected 25 for 24.975 rounded, got %d", got)
	}
	if got := lateFee(100000, 0); got != 0 {
		t.Errorf("expected 0 for zero percent, got %d", got)
	}
}

// TestPurpose: Verify payment recording validates amount, provider and the
// referenced invoice.
// Scope: Unit Test
// Expected: Non-positive amounts, unknown providers and missing invoices are
// rejected; a valid payment is stored unreconciled.
// Test Case ID: BIL-05
func TestRecordPayment(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	if _, err := f.svc.RecordPayment(ctx, "org-1", ProviderCash, "r-1", 0, nil, time.Time{}, "actor-1"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.svc.RecordPayment(ctx, "org-1", "paypal", "r-1", 500, nil, time.Time{}, "actor-1"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}

	missing := "inv-missing"
	if _, err := f.svc.RecordPayment(ctx, "org-1", ProviderCash, "r-1", 500, &missing, time.Time{}, "actor-1"); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound, got %v", err)
	}

	p, err := f.svc.RecordPayment(ctx, "org-1", ProviderCash, "r-1", 500, nil, time.Time{}, "actor-1")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if p.Reconciled {
		t.Error("expected new payment to be unreconciled")
	}
	if p.PaidAt.IsZero() {
		t.Error("expected paid_at to default to now")
	}
}

// TestPurpose: Verify reconciliation links payments to invoices, marks the
// invoice paid only when payments cover amount plus late fee, and refuses to
// reconcile a payment twice.
// Scope: Unit Test
// Expected: A partial payment leaves the invoice open; covering the total
// marks it paid; the second reconcile of the same payment fails.
// Test Case ID: BIL-06
func TestReconcilePayment(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	f.store.invoices["inv-1"] = &Invoice{
		ID:           "inv-1",
		OrgID:        "org-1",
		LeaseID:      "lease-1",
		AmountCents:  100000,
		LateFeeCents: 2500,
		Status:       InvoiceOverdue,
	}

	p1, _ := f.svc.RecordPayment(ctx, "org-1", ProviderTelebirr, "ref-1", 60000, nil, time.Time{}, "actor-1")
	p2, _ := f.svc.RecordPayment(ctx, "org-1", ProviderTelebirr, "ref-2", 42500, nil, time.Time{}, "actor-1")

	inv, err := f.svc.Reconcile(ctx, "org-1", p1.ID, "inv-1", "actor-1")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if inv.Status == InvoicePaid {
		t.Error("expected invoice to stay unpaid after partial payment")
	}

	inv, err = f.svc.Reconcile(ctx, "org-1", p2.ID, "inv-1", "actor-1")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if inv.Status != InvoicePaid {
		t.Errorf("expected invoice paid once total covered, got %s", inv.Status)
	}

	if _, err := f.svc.Reconcile(ctx, "org-1", p1.ID, "inv-1", "actor-1"); !errors.Is(err, ErrAlreadyReconciled) {
		t.Errorf("expected ErrAlreadyReconciled, got %v", err)
	}
}

// TestPurpose: Verify void invoices reject reconciliation and paid invoices
// reject voiding.
// Scope: Unit Test
// Expected: Both operations fail with ErrInvoiceClosed.
// Test Case ID: BIL-07
func TestClosedInvoiceRules(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	f.store.invoices["inv-void"] = &Invoice{
		ID: "inv-void", OrgID: "org-1", LeaseID: "lease-1",
		AmountCents: 1000, Status: InvoiceVoid,
	}
	f.store.invoices["inv-paid"] = &Invoice{
		ID: "inv-paid", OrgID: "org-1", LeaseID: "lease-1",
		AmountCents: 1000, Status: InvoicePaid,
	}

	p, _ := f.svc.RecordPayment(ctx, "org-1", ProviderCash, "ref-3", 1000, nil, time.Time{}, "actor-1")
	if _, err := f.svc.Reconcile(ctx, "org-1", p.ID, "inv-void", "actor-1"); !errors.Is(err, ErrInvoiceClosed) {
		t.Errorf("expected ErrInvoiceClosed reconciling against void invoice, got %v", err)
	}

	if _, err := f.svc.VoidInvoice(ctx, "org-1", "inv-paid", "mistake", "actor-1"); !errors.Is(err, ErrInvoiceClosed) {
		t.Errorf("expected ErrInvoiceClosed voiding paid invoice, got %v", err)
	}
}

// TestPurpose: Verify voiding an open invoice records the reason in the
// audit trail.
// Scope: Unit Test
// Expected: Invoice moves to void and an invoice_voided event is recorded.
// Test Case ID: BIL-08
func TestVoidInvoice(t *testing.T) {
	f := newBillingFixture()

	f.store.invoices["inv-1"] = &Invoice{
		ID: "inv-1", OrgID: "org-1", LeaseID: "lease-1",
		AmountCents: 1000, Status: InvoiceOpen,
	}

	inv, err := f.svc.VoidInvoice(context.Background(), "org-1", "inv-1", "duplicate billing", "actor-1")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if inv.Status != InvoiceVoid {
		t.Errorf("expected void status, got %s", inv.Status)
	}

	found := false
	for _, e := range f.auditLog.events {
		if e.Type == audit.TypeInvoiceVoided && e.Metadata[audit.AttrReason] == "duplicate billing" {
			found = true
		}
	}
	if !found {
		t.Error("expected an invoice_voided audit event with the reason")
	}
}
