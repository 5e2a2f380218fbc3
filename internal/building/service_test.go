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

package building

import (
	"context"
	"errors"
	"testing"
)

// MockBuildingRepository is an in-memory building store for testing
type MockBuildingRepository struct {
	buildings map[string]*Building
}

func NewMockBuildingRepository() *MockBuildingRepository {
	return &MockBuildingRepository{buildings: make(map[string]*Building)}
}

func (m *MockBuildingRepository) Create(ctx context.Context, b *Building) error {
	cp := *b
	m.buildings[b.ID] = &cp
	return nil
}

func (m *MockBuildingRepository) GetByID(ctx context.Context, orgID, id string) (*Building, error) {
	b, ok := m.buildings[id]
	if !ok || b.OrgID != orgID {
		return nil, ErrBuildingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBuildingRepository) Update(ctx context.Context, b *Building) error {
	if _, ok := m.buildings[b.ID]; !ok {
		return ErrBuildingNotFound
	}
	cp := *b
	m.buildings[b.ID] = &cp
	return nil
}

func (m *MockBuildingRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*Building, error) {
	var out []*Building
	for _, b := range m.buildings {
		if b.OrgID == orgID {
			out = append(out, b)
		}
	}
	return out, nil
}

// MockUnitRepository is an in-memory unit store for testing
type MockUnitRepository struct {
	units map[string]*Unit
}

func NewMockUnitRepository() *MockUnitRepository {
	return &MockUnitRepository{units: make(map[string]*Unit)}
}

func (m *MockUnitRepository) Create(ctx context.Context, u *Unit) error {
	cp := *u
	m.units[u.ID] = &cp
	return nil
}

func (m *MockUnitRepository) GetByID(ctx context.Context, orgID, id string) (*Unit, error) {
	u, ok := m.units[id]
	if !ok || u.OrgID != orgID {
		return nil, ErrUnitNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUnitRepository) GetByLabel(ctx context.Context, orgID, buildingID, label string) (*Unit, error) {
	for _, u := range m.units {
		if u.OrgID == orgID && u.BuildingID == buildingID && u.Label == label {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUnitNotFound
}

func (m *MockUnitRepository) Update(ctx context.Context, u *Unit) error {
	if _, ok := m.units[u.ID]; !ok {
		return ErrUnitNotFound
	}
	cp := *u
	m.units[u.ID] = &cp
	return nil
}

func (m *MockUnitRepository) UpdateStatus(ctx context.Context, orgID, id, status string) error {
	u, ok := m.units[id]
	if !ok || u.OrgID != orgID {
		return ErrUnitNotFound
	}
	u.Status = status
	return nil
}

func (m *MockUnitRepository) ListByBuilding(ctx context.Context, orgID, buildingID string) ([]*Unit, error) {
	var out []*Unit
	for _, u := range m.units {
		if u.OrgID == orgID && u.BuildingID == buildingID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockUnitRepository) CountByStatus(ctx context.Context, orgID, buildingID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, u := range m.units {
		if u.OrgID == orgID && u.BuildingID == buildingID {
			counts[u.Status]++
		}
	}
	return counts, nil
}

func newBuildingService() (*Service, *MockBuildingRepository, *MockUnitRepository) {
	repo := NewMockBuildingRepository()
	units := NewMockUnitRepository()
	return NewService(repo, units, nil), repo, units
}

// TestPurpose: Verify building creation validates name and floor count.
// Scope: Unit Test
// Expected: Empty name and zero floors are rejected; a valid building is
// stored.
// Test Case ID: BLD-01
func TestCreateBuilding(t *testing.T) {
	svc, _, _ := newBuildingService()
	ctx := context.Background()

	if _, err := svc.CreateBuilding(ctx, "org-1", "", "Main St", "Addis Ababa", 4); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := svc.CreateBuilding(ctx, "org-1", "Sunrise Tower", "Main St", "Addis Ababa", 0); err == nil {
		t.Error("expected error for zero floors")
	}

	b, err := svc.CreateBuilding(ctx, "org-1", "Sunrise Tower", "Main St", "Addis Ababa", 4)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.Floors != 4 {
		t.Errorf("expected 4 floors, got %d", b.Floors)
	}
}

// TestPurpose: Verify unit creation enforces floor range and per-building
// label uniqueness.
// Scope: Unit Test
// Expected: Floors outside the building and duplicate labels are rejected;
// new units start vacant.
// Test Case ID: BLD-02
func TestCreateUnit(t *testing.T) {
	svc, _, _ := newBuildingService()
	ctx := context.Background()

	b, _ := svc.CreateBuilding(ctx, "org-1", "Sunrise Tower", "Main St", "Addis Ababa", 4)

	if _, err := svc.CreateUnit(ctx, "org-1", b.ID, "5A", 5, 2, 1, 68, 100000); err == nil {
		t.Error("expected error for floor above building height")
	}

	u, err := svc.CreateUnit(ctx, "org-1", b.ID, "2A", 2, 2, 1, 68, 100000)
	if err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	if u.Status != UnitVacant {
		t.Errorf("expected vacant unit, got %s", u.Status)
	}

	if _, err := svc.CreateUnit(ctx, "org-1", b.ID, "2A", 2, 1, 1, 50, 80000); !errors.Is(err, ErrUnitLabelTaken) {
		t.Errorf("expected ErrUnitLabelTaken, got %v", err)
	}
}

// TestPurpose: Verify the unit status state machine rejects undefined moves.
// Scope: Unit Test
// Expected: Vacant to occupied works; occupied to reserved does not; setting
// the current status is a no-op; unknown statuses are rejected.
// Test Case ID: BLD-03
func TestSetUnitStatus(t *testing.T) {
	svc, _, _ := newBuildingService()
	ctx := context.Background()

	b, _ := svc.CreateBuilding(ctx, "org-1", "Sunrise Tower", "Main St", "Addis Ababa", 4)
	u, _ := svc.CreateUnit(ctx, "org-1", b.ID, "2A", 2, 2, 1, 68, 100000)

	if _, err := svc.SetUnitStatus(ctx, "org-1", u.ID, "demolished"); !errors.Is(err, ErrUnknownUnitStatus) {
		t.Errorf("expected ErrUnknownUnitStatus, got %v", err)
	}

	got, err := svc.SetUnitStatus(ctx, "org-1", u.ID, UnitOccupied)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if got.Status != UnitOccupied {
		t.Errorf("expected occupied, got %s", got.Status)
	}

	if _, err := svc.SetUnitStatus(ctx, "org-1", u.ID, UnitReserved); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// Same-status set is a no-op.
	if _, err := svc.SetUnitStatus(ctx, "org-1", u.ID, UnitOccupied); err != nil {
		t.Errorf("expected same-status set to succeed, got %v", err)
	}
}

// TestPurpose: Verify the occupancy summary counts units by status.
// Scope: Unit Test
// Expected: Totals match the created units and their statuses.
// Test Case ID: BLD-04
func TestOccupancy(t *testing.T) {
	svc, _, _ := newBuildingService()
	ctx := context.Background()

	b, _ := svc.CreateBuilding(ctx, "org-1", "Sunrise Tower", "Main St", "Addis Ababa", 4)
	u1, _ := svc.CreateUnit(ctx, "org-1", b.ID, "1A", 1, 1, 1, 40, 60000)
	u2, _ := svc.CreateUnit(ctx, "org-1", b.ID, "1B", 1, 1, 1, 40, 60000)
	svc.CreateUnit(ctx, "org-1", b.ID, "2A", 2, 2, 1, 68, 100000)

	svc.SetUnitStatus(ctx, "org-1", u1.ID, UnitOccupied)
	svc.SetUnitStatus(ctx, "org-1", u2.ID, UnitMaintenance)

	summary, err := svc.Occupancy(ctx, "org-1", b.ID)
	if err != nil {
		t.Fatalf("occupancy failed: %v", err)
	}
	if summary.Total != 3 {
		t.Errorf("expected 3 units, got %d", summary.Total)
	}
	if summary.Occupied != 1 || summary.Maintenance != 1 || summary.Vacant != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

// TestPurpose: Verify units are invisible across organizations.
// Scope: Unit Test
// Security: Organization scoping must hold even with a valid unit ID.
// Expected: Reads from another organization fail with ErrUnitNotFound.
// Test Case ID: BLD-05
func TestUnitOrgScoping(t *testing.T) {
	svc, _, _ := newBuildingService()
	ctx := context.Background()

	b, _ := svc.CreateBuilding(ctx, "org-1", "Sunrise Tower", "Main St", "Addis Ababa", 4)
	u, _ := svc.CreateUnit(ctx, "org-1", b.ID, "2A", 2, 2, 1, 68, 100000)

	if _, err := svc.GetUnit(ctx, "org-2", u.ID); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("expected ErrUnitNotFound across orgs, got %v", err)
	}
	if _, err := svc.GetBuilding(ctx, "org-2", b.ID); !errors.Is(err, ErrBuildingNotFound) {
		t.Errorf("expected ErrBuildingNotFound across orgs, got %v", err)
	}
}
