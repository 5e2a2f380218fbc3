package frontdesk

import (
	"context"
	"errors"
	"time"
)

var (
	ErrVisitNotFound      = errors.New("visitor log entry not found")
	ErrAlreadyCheckedOut  = errors.New("visitor already checked out")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrDuplicatePlate     = errors.New("plate already registered")
	ErrViolationNotFound  = errors.New("parking violation not found")
	ErrViolationClosed    = errors.New("parking violation already closed")
	ErrInvalidVisitorName = errors.New("visitor name is required")
)

// Parking violation status constants
const (
	ViolationOpen   = "open"
	ViolationPaid   = "paid"
	ViolationWaived = "waived"
)

// Visit is one visitor log entry at a building's front desk.
type Visit struct {
	ID            string     `json:"id"`
	OrgID         string     `json:"org_id"`
	BuildingID    string     `json:"building_id"`
	UnitID        *string    `json:"unit_id,omitempty"`
	VisitorName   string     `json:"visitor_name"`
	VisitorPhone  string     `json:"visitor_phone,omitempty"`
	Purpose       string     `json:"purpose,omitempty"`
	LoggedBy      string     `json:"logged_by"`
	CheckedInAt   time.Time  `json:"checked_in_at"`
	CheckedOutAt  *time.Time `json:"checked_out_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Vehicle registers a resident's car for parking. Plates are unique within
// an organization.
type Vehicle struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"org_id"`
	ResidentID string    `json:"resident_id"`
	Plate      string    `json:"plate"`
	Make       string    `json:"make,omitempty"`
	Model      string    `json:"model,omitempty"`
	Color      string    `json:"color,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Violation is a parking fine issued against a plate, registered or not.
type Violation struct {
	ID         string     `json:"id"`
	OrgID      string     `json:"org_id"`
	BuildingID string     `json:"building_id"`
	VehicleID  *string    `json:"vehicle_id,omitempty"`
	Plate      string     `json:"plate"`
	Reason     string     `json:"reason"`
	FineCents  int64      `json:"fine_cents"`
	Status     string     `json:"status"`
	IssuedBy   string     `json:"issued_by"`
	IssuedAt   time.Time  `json:"issued_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// VisitRepository defines the interface for visitor log storage
type VisitRepository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, orgID, id string) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	List(ctx context.Context, orgID, buildingID string, openOnly bool, limit, offset int) ([]*Visit, error)
}

// VehicleRepository defines the interface for vehicle storage
type VehicleRepository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, orgID, id string) (*Vehicle, error)
	GetByPlate(ctx context.Context, orgID, plate string) (*Vehicle, error)
	Delete(ctx context.Context, orgID, id string) error
	ListByResident(ctx context.Context, orgID, residentID string) ([]*Vehicle, error)
}

// ViolationRepository defines the interface for parking violation storage
type ViolationRepository interface {
	Create(ctx context.Context, v *Violation) error
	GetByID(ctx context.Context, orgID, id string) (*Violation, error)
	Update(ctx context.Context, v *Violation) error
	List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*Violation, error)
}
