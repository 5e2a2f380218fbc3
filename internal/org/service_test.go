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
	"errors"
	"testing"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/rbac"
)

// MockOrgRepository is an in-memory organization store for testing
type MockOrgRepository struct {
	orgs map[string]*Org
}

func NewMockOrgRepository() *MockOrgRepository {
	return &MockOrgRepository{orgs: make(map[string]*Org)}
}

func (m *MockOrgRepository) Create(ctx context.Context, o *Org) error {
	cp := *o
	m.orgs[o.ID] = &cp
	return nil
}

func (m *MockOrgRepository) GetByID(ctx context.Context, id string) (*Org, error) {
	o, ok := m.orgs[id]
	if !ok {
		return nil, ErrOrgNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrgRepository) GetByName(ctx context.Context, name string) (*Org, error) {
	for _, o := range m.orgs {
		if o.Name == name {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrOrgNotFound
}

func (m *MockOrgRepository) Update(ctx context.Context, o *Org) error {
	if _, ok := m.orgs[o.ID]; !ok {
		return ErrOrgNotFound
	}
	cp := *o
	m.orgs[o.ID] = &cp
	return nil
}

func (m *MockOrgRepository) Delete(ctx context.Context, id string) error {
	delete(m.orgs, id)
	return nil
}

func (m *MockOrgRepository) List(ctx context.Context, limit, offset int) ([]*Org, error) {
	var out []*Org
	for _, o := range m.orgs {
		out = append(out, o)
	}
	return out, nil
}

// MockRoleRepository is an in-memory role assignment store for testing
type MockRoleRepository struct {
	roles []*MemberRole
}

func (m *MockRoleRepository) Grant(ctx context.Context, role *MemberRole) error {
	for _, r := range m.roles {
		if sameScope(r.OrgID, role.OrgID) && r.UserID == role.UserID && r.Role == role.Role {
			return ErrRoleAlreadyExists
		}
	}
	cp := *role
	m.roles = append(m.roles, &cp)
	return nil
}

func (m *MockRoleRepository) Revoke(ctx context.Context, orgID *string, userID, role string) error {
	for i, r := range m.roles {
		if sameScope(r.OrgID, orgID) && r.UserID == userID && r.Role == role {
			m.roles = append(m.roles[:i], m.roles[i+1:]...)
			return nil
		}
	}
	return ErrRoleNotFound
}

func (m *MockRoleRepository) ListForUser(ctx context.Context, userID string) ([]*MemberRole, error) {
	var out []*MemberRole
	for _, r := range m.roles {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRoleRepository) ListForOrg(ctx context.Context, orgID string) ([]*MemberRole, error) {
	var out []*MemberRole
	for _, r := range m.roles {
		if r.OrgID != nil && *r.OrgID == orgID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRoleRepository) HasRole(ctx context.Context, orgID *string, userID, role string) (bool, error) {
	for _, r := range m.roles {
		if sameScope(r.OrgID, orgID) && r.UserID == userID && r.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type orgAuditLogger struct{ events []audit.Event }

func (l *orgAuditLogger) Log(ctx context.Context, event audit.Event) {
	l.events = append(l.events, event)
}

func newOrgService() (*Service, *MockOrgRepository, *MockRoleRepository) {
	repo := NewMockOrgRepository()
	roles := &MockRoleRepository{}
	return NewService(repo, roles, &orgAuditLogger{}), repo, roles
}

// TestPurpose: Verify organization creation grants the founder org_admin and
// rejects duplicate names.
// Scope: Unit Test
// Expected: The creator holds org_admin in the new organization; a second
// organization with the same name fails.
// Test Case ID: ORG-01
func TestCreateOrg(t *testing.T) {
	svc, _, roles := newOrgService()
	ctx := context.Background()

	o, err := svc.CreateOrg(ctx, "Sunrise Properties", "founder-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if o.Status != StatusActive {
		t.Errorf("expected active org, got %s", o.Status)
	}

	isAdmin, _ := roles.HasRole(ctx, &o.ID, "founder-1", rbac.RoleOrgAdmin)
	if !isAdmin {
		t.Error("expected founder to hold org_admin")
	}

	if _, err := svc.CreateOrg(ctx, "Sunrise Properties", "founder-2"); !errors.Is(err, ErrOrgAlreadyExists) {
		t.Errorf("expected ErrOrgAlreadyExists, got %v", err)
	}
}

// TestPurpose: Verify role grants validate the role name and its scope.
// Scope: Unit Test
// Security: platform_admin can only exist at platform scope; granting it
// inside an organization must fail.
// Expected: Unknown roles and org-scoped platform_admin are rejected;
// duplicate grants fail with ErrRoleAlreadyExists.
// Test Case ID: ORG-02
func TestGrantRoleValidation(t *testing.T) {
	svc, _, _ := newOrgService()
	ctx := context.Background()
	orgID := "org-1"

	if err := svc.GrantRole(ctx, &orgID, "user-1", "superuser", "admin-1"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	if err := svc.GrantRole(ctx, &orgID, "user-1", rbac.RolePlatformAdmin, "admin-1"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole for org-scoped platform_admin, got %v", err)
	}

	if err := svc.GrantRole(ctx, &orgID, "user-1", rbac.RoleTechnician, "admin-1"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.GrantRole(ctx, &orgID, "user-1", rbac.RoleTechnician, "admin-1"); !errors.Is(err, ErrRoleAlreadyExists) {
		t.Errorf("expected ErrRoleAlreadyExists, got %v", err)
	}

	// Platform scope is valid for platform_admin.
	if err := svc.GrantRole(ctx, nil, "user-2", rbac.RolePlatformAdmin, "bootstrap"); err != nil {
		t.Errorf("expected platform-scoped grant to succeed, got %v", err)
	}
}

// TestPurpose: Verify role checks distinguish platform scope from
// organization scope.
// Scope: Unit Test
// Security: An org-scoped grant must not satisfy a platform-scoped check.
// Expected: HasRole matches only within the granted scope; revocation
// removes the grant.
// Test Case ID: ORG-03
func TestRoleScoping(t *testing.T) {
	svc, _, _ := newOrgService()
	ctx := context.Background()
	orgID := "org-1"

	svc.GrantRole(ctx, &orgID, "user-1", rbac.RoleSecurity, "admin-1")

	if ok, _ := svc.HasRole(ctx, &orgID, "user-1", rbac.RoleSecurity); !ok {
		t.Error("expected org-scoped role to match")
	}
	if ok, _ := svc.HasRole(ctx, nil, "user-1", rbac.RoleSecurity); ok {
		t.Error("expected platform-scoped check to miss an org grant")
	}
	otherOrg := "org-2"
	if ok, _ := svc.HasRole(ctx, &otherOrg, "user-1", rbac.RoleSecurity); ok {
		t.Error("expected role check to miss in another org")
	}

	if err := svc.RevokeRole(ctx, &orgID, "user-1", rbac.RoleSecurity, "admin-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := svc.HasRole(ctx, &orgID, "user-1", rbac.RoleSecurity); ok {
		t.Error("expected role gone after revocation")
	}
	if err := svc.RevokeRole(ctx, &orgID, "user-1", rbac.RoleSecurity, "admin-1"); !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("expected ErrRoleNotFound, got %v", err)
	}
}

// TestPurpose: Verify suspension flips the organization status.
// Scope: Unit Test
// Expected: The organization reads back suspended.
// Test Case ID: ORG-04
func TestSuspendOrg(t *testing.T) {
	svc, repo, _ := newOrgService()
	ctx := context.Background()

	o, _ := svc.CreateOrg(ctx, "Sunrise Properties", "founder-1")
	if err := svc.Suspend(ctx, o.ID); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if repo.orgs[o.ID].Status != StatusSuspended {
		t.Errorf("expected suspended, got %s", repo.orgs[o.ID].Status)
	}
}
