package resident

import (
	"context"
	"errors"
	"time"
)

var (
	ErrResidentNotFound  = errors.New("resident not found")
	ErrResidentHasLease  = errors.New("resident has an active lease")
	ErrDuplicateResident = errors.New("resident with this email already exists")
)

// Resident is the renting party on a lease. The original product calls this
// entity a "tenant"; it is named resident here because organizations already
// fill the multi-tenancy role.
type Resident struct {
	ID             string     `json:"id"`
	OrgID          string     `json:"org_id"`
	UserID         *string    `json:"user_id,omitempty"` // optional portal account
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	IDNumber       string     `json:"id_number,omitempty"`
	EmergencyName  string     `json:"emergency_name,omitempty"`
	EmergencyPhone string     `json:"emergency_phone,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}

// Repository defines the interface for resident storage
type Repository interface {
	Create(ctx context.Context, r *Resident) error
	GetByID(ctx context.Context, orgID, id string) (*Resident, error)
	GetByEmail(ctx context.Context, orgID, email string) (*Resident, error)
	Update(ctx context.Context, r *Resident) error
	Delete(ctx context.Context, orgID, id string) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*Resident, error)
}

// LeaseChecker reports whether a resident currently holds an active or
// pending lease. Implemented by the lease repository.
type LeaseChecker interface {
	HasOpenLease(ctx context.Context, orgID, residentID string) (bool, error)
}
