package subscription

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("organization already has an active subscription")
	ErrNotSubscribed        = errors.New("organization has no active subscription")
	ErrPlanInactive         = errors.New("plan is not active")
	ErrConflictingDiscount  = errors.New("plan cannot carry both percent and fixed discounts")
	ErrInvalidDiscount      = errors.New("discount is out of range")
	ErrInvalidPrice         = errors.New("base price must not be negative")
)

// Subscription status constants
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Plan cycle constants
const (
	CycleMonthly    = "monthly"
	CycleQuarterly  = "quarterly"
	CycleSemiannual = "semiannual"
	CycleAnnual     = "annual"
)

// Plan is a platform-level subscription tier organizations sign up for.
// A plan carries at most one discount, either a percentage or a fixed
// amount off the base price.
type Plan struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Tier               string     `json:"tier"`
	Cycle              string     `json:"cycle"`
	BasePriceCents     int64      `json:"base_price_cents"`
	DiscountPercent    *float64   `json:"discount_percent,omitempty"`
	DiscountFixedCents *int64     `json:"discount_fixed_cents,omitempty"`
	MaxBuildings       int        `json:"max_buildings"`
	MaxUnits           int        `json:"max_units"`
	Active             bool       `json:"active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	RetiredAt          *time.Time `json:"retired_at,omitempty"`
}

// Subscription ties an organization to a plan.
type Subscription struct {
	ID          string     `json:"id"`
	OrgID       string     `json:"org_id"`
	PlanID      string     `json:"plan_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PlanRepository defines the interface for plan storage
type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)
}

// Repository defines the interface for subscription storage
type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, s *Subscription) error

	// GetActiveByOrg returns the organization's active subscription or
	// ErrSubscriptionNotFound.
	GetActiveByOrg(ctx context.Context, orgID string) (*Subscription, error)

	// ListActive returns all active subscriptions (revenue rollups).
	ListActive(ctx context.Context) ([]*Subscription, error)
}
