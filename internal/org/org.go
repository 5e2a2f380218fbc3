package org

import (
	"context"
	"errors"
	"time"
)

var (
	ErrOrgNotFound       = errors.New("organization not found")
	ErrOrgAlreadyExists  = errors.New("organization already exists")
	ErrRoleNotFound      = errors.New("role assignment not found")
	ErrRoleAlreadyExists = errors.New("role assignment already exists")
	ErrInvalidRole       = errors.New("invalid role")
)

// Org represents an organization: the multi-tenancy scope that owns
// buildings, residents, leases and everything billed.
type Org struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status constants
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// MemberRole represents a user's role assignment in an organization.
// A nil OrgID scopes the assignment to the platform.
type MemberRole struct {
	ID        string    `json:"id"`
	OrgID     *string   `json:"org_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
	GrantedBy string    `json:"granted_by"`
}

// Repository defines the interface for organization storage
type Repository interface {
	Create(ctx context.Context, o *Org) error
	GetByID(ctx context.Context, id string) (*Org, error)
	GetByName(ctx context.Context, name string) (*Org, error)
	Update(ctx context.Context, o *Org) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Org, error)
}

// RoleRepository defines the interface for member role storage
type RoleRepository interface {
	Grant(ctx context.Context, role *MemberRole) error
	Revoke(ctx context.Context, orgID *string, userID, role string) error
	ListForUser(ctx context.Context, userID string) ([]*MemberRole, error)
	ListForOrg(ctx context.Context, orgID string) ([]*MemberRole, error)
	HasRole(ctx context.Context, orgID *string, userID, role string) (bool, error)
}
