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

package frontdesk

import (
	"context"
	"errors"
	"testing"

	"github.com/quartershq/quarters/internal/audit"
)

// MockFrontDeskStore is an in-memory store for visits, vehicles and
// violations.
type MockFrontDeskStore struct {
	visits     map[string]*Visit
	vehicles   map[string]*Vehicle
	violations map[string]*Violation
}

func NewMockFrontDeskStore() *MockFrontDeskStore {
	return &MockFrontDeskStore{
		visits:     make(map[string]*Visit),
		vehicles:   make(map[string]*Vehicle),
		violations: make(map[string]*Violation),
	}
}

type mockVisitRepo struct{ store *MockFrontDeskStore }

func (m *mockVisitRepo) Create(ctx context.Context, v *Visit) error {
	cp := *v
	m.store.visits[v.ID] = &cp
	return nil
}

func (m *mockVisitRepo) GetByID(ctx context.Context, orgID, id string) (*Visit, error) {
	v, ok := m.store.visits[id]
	if !ok || v.OrgID != orgID {
		return nil, ErrVisitNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockVisitRepo) Update(ctx context.Context, v *Visit) error {
	if _, ok := m.store.visits[v.ID]; !ok {
		return ErrVisitNotFound
	}
	cp := *v
	m.store.visits[v.ID] = &cp
	return nil
}

func (m *mockVisitRepo) List(ctx context.Context, orgID, buildingID string, openOnly bool, limit, offset int) ([]*Visit, error) {
	var out []*Visit
	for _, v := range m.store.visits {
		if v.OrgID != orgID {
			continue
		}
		if buildingID != "" && v.BuildingID != buildingID {
			continue
		}
		if openOnly && v.CheckedOutAt != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type mockVehicleRepo struct{ store *MockFrontDeskStore }

func (m *mockVehicleRepo) Create(ctx context.Context, v *Vehicle) error {
	cp := *v
	m.store.vehicles[v.ID] = &cp
	return nil
}

func (m *mockVehicleRepo) GetByID(ctx context.Context, orgID, id string) (*Vehicle, error) {
	v, ok := m.store.vehicles[id]
	if !ok || v.OrgID != orgID {
		return nil, ErrVehicleNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockVehicleRepo) GetByPlate(ctx context.Context, orgID, plate string) (*Vehicle, error) {
	for _, v := range m.store.vehicles {
		if v.OrgID == orgID && v.Plate == plate {
			cp := *v
			return &cp, nil
		}
	}
	return nil, ErrVehicleNotFound
}

func (m *mockVehicleRepo) Delete(ctx context.Context, orgID, id string) error {
	v, ok := m.store.vehicles[id]
	if !ok || v.OrgID != orgID {
		return ErrVehicleNotFound
	}
	delete(m.store.vehicles, id)
	return nil
}

func (m *mockVehicleRepo) ListByResident(ctx context.Context, orgID, residentID string) ([]*Vehicle, error) {
	var out []*Vehicle
	for _, v := range m.store.vehicles {
		if v.OrgID == orgID && v.ResidentID == residentID {
			out = append(out, v)
		}
	}
	return out, nil
}

type mockViolationRepo struct{ store *MockFrontDeskStore }

func (m *mockViolationRepo) Create(ctx context.Context, v *Violation) error {
	cp := *v
	m.store.violations[v.ID] = &cp
	return nil
}

func (m *mockViolationRepo) GetByID(ctx context.Context, orgID, id string) (*Violation, error) {
	v, ok := m.store.violations[id]
	if !ok || v.OrgID != orgID {
		return nil, ErrViolationNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockViolationRepo) Update(ctx context.Context, v *Violation) error {
	if _, ok := m.store.violations[v.ID]; !ok {
		return ErrViolationNotFound
	}
	cp := *v
	m.store.violations[v.ID] = &cp
	return nil
}

func (m *mockViolationRepo) List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*Violation, error) {
	var out []*Violation
	for _, v := range m.store.violations {
		if v.OrgID == orgID &&
			(buildingID == "" || v.BuildingID == buildingID) &&
			(status == "" || v.Status == status) {
			out = append(out, v)
		}
	}
	return out, nil
}

type frontDeskAuditLogger struct{ events []audit.Event }

func (l *frontDeskAuditLogger) Log(ctx context.Context, event audit.Event) {
	l.events = append(l.events, event)
}

func newFrontDeskService() (*Service, *MockFrontDeskStore) {
	store := NewMockFrontDeskStore()
	svc := NewService(&mockVisitRepo{store}, &mockVehicleRepo{store}, &mockViolationRepo{store}, &frontDeskAuditLogger{})
	return svc, store
}

// TestPurpose: Verify visitor check-in requires a name and check-out stamps
// departure exactly once.
// Scope: Unit Test
// Expected: Blank names are rejected; the second check-out fails with
// ErrAlreadyCheckedOut.
// Test Case ID: FDK-01
func TestVisitorCheckInOut(t *testing.T) {
	svc, _ := newFrontDeskService()
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "org-1", "bld-1", nil, "   ", "", "", "guard-1"); !errors.Is(err, ErrInvalidVisitorName) {
		t.Errorf("expected ErrInvalidVisitorName, got %v", err)
	}

	v, err := svc.CheckIn(ctx, "org-1", "bld-1", nil, "  Dana Reed ", "0911", "delivery", "guard-1")
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if v.VisitorName != "Dana Reed" {
		t.Errorf("expected trimmed name, got %q", v.VisitorName)
	}
	if v.CheckedOutAt != nil {
		t.Error("expected open visit after check-in")
	}

	out, err := svc.CheckOut(ctx, "org-1", v.ID, "guard-1")
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if out.CheckedOutAt == nil {
		t.Error("expected departure timestamp")
	}

	if _, err := svc.CheckOut(ctx, "org-1", v.ID, "guard-1"); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Errorf("expected ErrAlreadyCheckedOut, got %v", err)
	}
}

// TestPurpose: Verify the open-only visit filter returns only visitors still
// on site.
// Scope: Unit Test
// Expected: After one of two visitors checks out, the open filter returns
// one entry.
// Test Case ID: FDK-02
func TestListOpenVisits(t *testing.T) {
	svc, _ := newFrontDeskService()
	ctx := context.Background()

	v1, _ := svc.CheckIn(ctx, "org-1", "bld-1", nil, "First Visitor", "", "", "guard-1")
	svc.CheckIn(ctx, "org-1", "bld-1", nil, "Second Visitor", "", "", "guard-1")
	svc.CheckOut(ctx, "org-1", v1.ID, "guard-1")

	open, err := svc.ListVisits(ctx, "org-1", "bld-1", true, 50, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(open) != 1 || open[0].VisitorName != "Second Visitor" {
		t.Errorf("expected only the second visitor open, got %d entries", len(open))
	}
}

// TestPurpose: Verify plate normalization and the per-organization plate
// uniqueness rule.
// Scope: Unit Test
// Expected: Plates are upper-cased with spaces removed; registering the same
// plate in another casing fails with ErrDuplicatePlate.
// Test Case ID: FDK-03
func TestRegisterVehiclePlateRules(t *testing.T) {
	svc, _ := newFrontDeskService()
	ctx := context.Background()

	v, err := svc.RegisterVehicle(ctx, "org-1", "res-1", " ab 12 cd ", "Toyota", "Corolla", "silver")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if v.Plate != "AB12CD" {
		t.Errorf("expected normalized plate AB12CD, got %q", v.Plate)
	}

	if _, err := svc.RegisterVehicle(ctx, "org-1", "res-2", "AB12cd", "", "", ""); !errors.Is(err, ErrDuplicatePlate) {
		t.Errorf("expected ErrDuplicatePlate, got %v", err)
	}

	// A different organization may register the same plate.
	if _, err := svc.RegisterVehicle(ctx, "org-2", "res-9", "ab12cd", "", "", ""); err != nil {
		t.Errorf("expected cross-org registration to succeed, got %v", err)
	}
}

// TestPurpose: Verify violations link to a registered vehicle by normalized
// plate and stay unlinked for unknown plates.
// Scope: Unit Test
// Expected: Registered plate yields a vehicle link; unknown plate yields an
// open unlinked violation.
// Test Case ID: FDK-04
func TestIssueViolationLinksVehicle(t *testing.T) {
	svc, _ := newFrontDeskService()
	ctx := context.Background()

	veh, _ := svc.RegisterVehicle(ctx, "org-1", "res-1", "XY99ZZ", "", "", "")

	linked, err := svc.IssueViolation(ctx, "org-1", "bld-1", "xy 99 zz", "blocking exit", 5000, "guard-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if linked.VehicleID == nil || *linked.VehicleID != veh.ID {
		t.Error("expected violation linked to the registered vehicle")
	}

	unlinked, err := svc.IssueViolation(ctx, "org-1", "bld-1", "UNKNOWN1", "no permit", 2500, "guard-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if unlinked.VehicleID != nil {
		t.Error("expected no vehicle link for an unregistered plate")
	}
	if unlinked.Status != ViolationOpen {
		t.Errorf("expected open violation, got %s", unlinked.Status)
	}
}

// TestPurpose: Verify settling and waiving close an open violation once.
// Scope: Unit Test
// Expected: Settle marks the violation paid with a closing timestamp; any
// further close attempt fails with ErrViolationClosed.
// Test Case ID: FDK-05
func TestCloseViolationOnce(t *testing.T) {
	svc, _ := newFrontDeskService()
	ctx := context.Background()

	v, _ := svc.IssueViolation(ctx, "org-1", "bld-1", "AA11BB", "double parked", 3000, "guard-1")

	paid, err := svc.SettleViolation(ctx, "org-1", v.ID)
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if paid.Status != ViolationPaid || paid.ClosedAt == nil {
		t.Errorf("expected paid with closing timestamp, got %+v", paid)
	}

	if _, err := svc.WaiveViolation(ctx, "org-1", v.ID); !errors.Is(err, ErrViolationClosed) {
		t.Errorf("expected ErrViolationClosed, got %v", err)
	}
}

// TestPurpose: Verify deregistering removes the vehicle and frees its plate.
// Scope: Unit Test
// Expected: The plate can be registered again after deregistration; deleting
// an unknown vehicle fails with ErrVehicleNotFound.
// Test Case ID: FDK-06
func TestDeregisterVehicle(t *testing.T) {
	svc, _ := newFrontDeskService()
	ctx := context.Background()

	v, _ := svc.RegisterVehicle(ctx, "org-1", "res-1", "CC33DD", "", "", "")
	if err := svc.DeregisterVehicle(ctx, "org-1", v.ID); err != nil {
		t.Fatalf("deregister failed: %v", err)
	}
	if err := svc.DeregisterVehicle(ctx, "org-1", v.ID); !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("expected ErrVehicleNotFound, got %v", err)
	}

	if _, err := svc.RegisterVehicle(ctx, "org-1", "res-2", "cc33dd", "", "", ""); err != nil {
		t.Errorf("expected plate to be free after deregistration, got %v", err)
	}
}
