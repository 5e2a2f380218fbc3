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

package resident

import (
	"context"
	"errors"
	"testing"
)

// MockResidentRepository is an in-memory resident store for testing
type MockResidentRepository struct {
	residents map[string]*Resident
}

func NewMockResidentRepository() *MockResidentRepository {
	return &MockResidentRepository{residents: make(map[string]*Resident)}
}

func (m *MockResidentRepository) Create(ctx context.Context, r *Resident) error {
	cp := *r
	m.residents[r.ID] = &cp
	return nil
}

func (m *MockResidentRepository) GetByID(ctx context.Context, orgID, id string) (*Resident, error) {
	r, ok := m.residents[id]
	if !ok || r.OrgID != orgID {
		return nil, ErrResidentNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockResidentRepository) GetByEmail(ctx context.Context, orgID, email string) (*Resident, error) {
	for _, r := range m.residents {
		if r.OrgID == orgID && r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrResidentNotFound
}

func (m *MockResidentRepository) Update(ctx context.Context, r *Resident) error {
	if _, ok := m.residents[r.ID]; !ok {
		return ErrResidentNotFound
	}
	cp := *r
	m.residents[r.ID] = &cp
	return nil
}

func (m *MockResidentRepository) Delete(ctx context.Context, orgID, id string) error {
	r, ok := m.residents[id]
	if !ok || r.OrgID != orgID {
		return ErrResidentNotFound
	}
	delete(m.residents, id)
	return nil
}

func (m *MockResidentRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*Resident, error) {
	var out []*Resident
	for _, r := range m.residents {
		if r.OrgID == orgID {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockLeaseChecker reports open leases for a fixed set of residents
type MockLeaseChecker struct {
	openLeases map[string]bool
}

func (m *MockLeaseChecker) HasOpenLease(ctx context.Context, orgID, residentID string) (bool, error) {
	return m.openLeases[residentID], nil
}

func newResidentService() (*Service, *MockResidentRepository, *MockLeaseChecker) {
	repo := NewMockResidentRepository()
	checker := &MockLeaseChecker{openLeases: make(map[string]bool)}
	return NewService(repo, checker), repo, checker
}

// TestPurpose: Verify resident registration requires a name and a contact
// channel and rejects duplicate emails within the organization.
// Scope: Unit Test
// Expected: Missing name or contact fails; a second resident with the same
// email fails with ErrDuplicateResident.
// Test Case ID: RES-01
func TestCreateResident(t *testing.T) {
	svc, _, _ := newResidentService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &Resident{OrgID: "org-1", Email: "a@example.com"}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := svc.Create(ctx, &Resident{OrgID: "org-1", FullName: "Avery Tern"}); err == nil {
		t.Error("expected error for missing contact")
	}

	r, err := svc.Create(ctx, &Resident{OrgID: "org-1", FullName: "Avery Tern", Email: "avery@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if r.ID == "" {
		t.Error("expected generated resident ID")
	}

	if _, err := svc.Create(ctx, &Resident{OrgID: "org-1", FullName: "Other", Email: "avery@example.com"}); !errors.Is(err, ErrDuplicateResident) {
		t.Errorf("expected ErrDuplicateResident, got %v", err)
	}

	// The same email may exist in another organization.
	if _, err := svc.Create(ctx, &Resident{OrgID: "org-2", FullName: "Avery Tern", Email: "avery@example.com"}); err != nil {
		t.Errorf("expected cross-org create to succeed, got %v", err)
	}
}

// TestPurpose: Verify deletion is refused while the resident holds an open
// lease.
// Scope: Unit Test
// Expected: ErrResidentHasLease while the lease is open; deletion succeeds
// once it closes.
// Test Case ID: RES-02
func TestDeleteResidentWithLease(t *testing.T) {
	svc, repo, checker := newResidentService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, &Resident{OrgID: "org-1", FullName: "Avery Tern", Phone: "0911"})
	checker.openLeases[r.ID] = true

	if err := svc.Delete(ctx, "org-1", r.ID); !errors.Is(err, ErrResidentHasLease) {
		t.Errorf("expected ErrResidentHasLease, got %v", err)
	}

	checker.openLeases[r.ID] = false
	if err := svc.Delete(ctx, "org-1", r.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := repo.residents[r.ID]; ok {
		t.Error("expected resident removed")
	}
}

// TestPurpose: Verify profile updates keep identity fields and linking a
// portal user attaches the account.
// Scope: Unit Test
// Expected: Blank update fields leave current values; LinkUser sets UserID.
// Test Case ID: RES-03
func TestUpdateAndLinkResident(t *testing.T) {
	svc, repo, _ := newResidentService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, &Resident{OrgID: "org-1", FullName: "Avery Tern", Email: "avery@example.com"})

	updated, err := svc.Update(ctx, "org-1", r.ID, &Resident{Phone: "0922", EmergencyName: "Kin"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FullName != "Avery Tern" || updated.Email != "avery@example.com" {
		t.Error("expected identity fields kept on partial update")
	}
	if updated.Phone != "0922" || updated.EmergencyName != "Kin" {
		t.Errorf("expected contact fields updated, got %+v", updated)
	}

	if err := svc.LinkUser(ctx, "org-1", r.ID, "user-9"); err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if got := repo.residents[r.ID].UserID; got == nil || *got != "user-9" {
		t.Error("expected portal user linked")
	}
}

// TestPurpose: Verify residents are invisible across organizations.
// Scope: Unit Test
// Security: Organization scoping must hold for reads and deletes.
// Expected: Another organization's ID yields ErrResidentNotFound.
// Test Case ID: RES-04
func TestResidentOrgScoping(t *testing.T) {
	svc, _, _ := newResidentService()
	ctx := context.Background()

	r, _ := svc.Create(ctx, &Resident{OrgID: "org-1", FullName: "Avery Tern", Phone: "0911"})

	if _, err := svc.Get(ctx, "org-2", r.ID); !errors.Is(err, ErrResidentNotFound) {
		t.Errorf("expected ErrResidentNotFound across orgs, got %v", err)
	}
	if err := svc.Delete(ctx, "org-2", r.ID); !errors.Is(err, ErrResidentNotFound) {
		t.Errorf("expected ErrResidentNotFound on cross-org delete, got %v", err)
	}
}
