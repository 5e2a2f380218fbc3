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

package org

import (
	"context"
	"fmt"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/id"
	"github.com/quartershq/quarters/internal/rbac"
)

// Service provides organization management business logic
type Service struct {
	repo        Repository
	roleRepo    RoleRepository
	auditLogger audit.Logger
}

// NewService creates a new organization service
func NewService(repo Repository, roleRepo RoleRepository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		roleRepo:    roleRepo,
		auditLogger: auditLogger,
	}
}

// CreateOrg creates a new organization and grants the creator org_admin.
func (s *Service) CreateOrg(ctx context.Context, name, creatorID string) (*Org, error) {
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}

	if existing, err := s.repo.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrOrgAlreadyExists
	}

	now := time.Now()
	o := &Org{
		ID:        id.NewUUIDv7(),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	if creatorID != "" {
		if err := s.GrantRole(ctx, &o.ID, creatorID, rbac.RoleOrgAdmin, creatorID); err != nil {
			return nil, fmt.Errorf("failed to grant creator role: %w", err)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOrgCreated,
		OrgID:    o.ID,
		ActorID:  creatorID,
		Resource: "org",
		Metadata: map[string]any{"name": name},
	})

	return o, nil
}

// GetOrg retrieves an organization by ID
func (s *Service) GetOrg(ctx context.Context, id string) (*Org, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrgs lists organizations with pagination
func (s *Service) ListOrgs(ctx context.Context, limit, offset int) ([]*Org, error) {
	return s.repo.List(ctx, limit, offset)
}

// Suspend marks an organization suspended. Suspended organizations keep their
// data but all write operations are rejected at the transport layer.
func (s *Service) Suspend(ctx context.Context, orgID string) error {
	o, err := s.repo.GetByID(ctx, orgID)
	if err != nil {
		return err
	}
	o.Status = StatusSuspended
	o.UpdatedAt = time.Now()
	return s.repo.Update(ctx, o)
}

// GrantRole assigns a member role to a user. orgID nil means platform scope.
func (s *Service) GrantRole(ctx context.Context, orgID *string, userID, role, grantedBy string) error {
	if !rbac.Valid(role) {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	if role == rbac.RolePlatformAdmin && orgID != nil {
		return fmt.Errorf("%w: platform_admin is platform-scoped", ErrInvalidRole)
	}

	r := &MemberRole{
		ID:        id.NewUUIDv7(),
		OrgID:     orgID,
		UserID:    userID,
		Role:      role,
		GrantedAt: time.Now(),
		GrantedBy: grantedBy,
	}

	if err := s.roleRepo.Grant(ctx, r); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleGranted,
		OrgID:    deref(orgID),
		ActorID:  grantedBy,
		Resource: role,
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// RevokeRole revokes a member role from a user
func (s *Service) RevokeRole(ctx context.Context, orgID *string, userID, role, revokedBy string) error {
	if err := s.roleRepo.Revoke(ctx, orgID, userID, role); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleRevoked,
		OrgID:    deref(orgID),
		ActorID:  revokedBy,
		Resource: role,
		Metadata: map[string]any{"user_id": userID},
	})

	return nil
}

// UserRoles retrieves all role assignments a user holds
func (s *Service) UserRoles(ctx context.Context, userID string) ([]*MemberRole, error) {
	return s.roleRepo.ListForUser(ctx, userID)
}

// OrgMembers retrieves all role assignments within an organization
func (s *Service) OrgMembers(ctx context.Context, orgID string) ([]*MemberRole, error) {
	return s.roleRepo.ListForOrg(ctx, orgID)
}

// HasRole reports whether the user holds the role in the given scope.
func (s *Service) HasRole(ctx context.Context, orgID *string, userID, role string) (bool, error) {
	return s.roleRepo.HasRole(ctx, orgID, userID, role)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
