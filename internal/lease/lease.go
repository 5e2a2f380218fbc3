package lease

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLeaseNotFound     = errors.New("lease not found")
	ErrUnitUnavailable   = errors.New("unit already has an open lease")
	ErrUnitInMaintenance = errors.New("unit is under maintenance")
	ErrInvalidDates      = errors.New("lease end date must be after start date")
	ErrInvalidDueDay     = errors.New("payment due day must be between 1 and 28")
	ErrInvalidRent       = errors.New("rent must be positive")
	ErrInvalidCycle      = errors.New("unknown billing cycle")
	ErrInvalidRentSource = errors.New("unknown rent source")
	ErrInvalidLateFee    = errors.New("late fee percent must be between 0 and 100")
	ErrTermsNotAccepted  = errors.New("lease terms have not been accepted")
	ErrInvalidTransition = errors.New("invalid lease status transition")
)

// Lease status constants
const (
	StatusPending    = "pending"
	StatusActive     = "active"
	StatusExpired    = "expired"
	StatusTerminated = "terminated"
)

// Rent provenance constants
const (
	RentUnitDefault    = "unit_default"
	RentNegotiated     = "negotiated"
	RentMarketAdjusted = "market_adjusted"
)

// Lease binds a resident to a unit for a period at an agreed rent.
type Lease struct {
	ID                string     `json:"id"`
	OrgID             string     `json:"org_id"`
	UnitID            string     `json:"unit_id"`
	ResidentID        string     `json:"resident_id"`
	Status            string     `json:"status"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	RentCents         int64      `json:"rent_cents"`
	RentSource        string     `json:"rent_source"`
	BillingCycle      string     `json:"billing_cycle"`
	PaymentDueDay     int        `json:"payment_due_day"`
	LateFeeGraceDays  int        `json:"late_fee_grace_days"`
	LateFeePercent    float64    `json:"late_fee_percent"`
	TermsVersion      string     `json:"terms_version,omitempty"`
	TermsAcceptedAt   *time.Time `json:"terms_accepted_at,omitempty"`
	TerminatedAt      *time.Time `json:"terminated_at,omitempty"`
	TerminationReason string     `json:"termination_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsOpen reports whether the lease still claims its unit.
func (l *Lease) IsOpen() bool {
	return l.Status == StatusPending || l.Status == StatusActive
}

// Repository defines the interface for lease storage
type Repository interface {
	Create(ctx context.Context, l *Lease) error
	GetByID(ctx context.Context, orgID, id string) (*Lease, error)
	Update(ctx context.Context, l *Lease) error
	List(ctx context.Context, orgID, status string, limit, offset int) ([]*Lease, error)
	ListByResident(ctx context.Context, orgID, residentID string) ([]*Lease, error)

	// FindOpenByUnit returns the pending or active lease claiming the unit,
	// or ErrLeaseNotFound. When a pending renewal coexists with the active
	// lease it follows, the active lease is returned.
	FindOpenByUnit(ctx context.Context, orgID, unitID string) (*Lease, error)

	// ListActiveEndingBefore returns active leases whose end date has passed.
	ListActiveEndingBefore(ctx context.Context, t time.Time) ([]*Lease, error)

	// ListActive returns all active leases across organizations (billing sweep).
	ListActive(ctx context.Context) ([]*Lease, error)

	// HasOpenLease reports whether the resident holds a pending or active lease.
	HasOpenLease(ctx context.Context, orgID, residentID string) (bool, error)
}
