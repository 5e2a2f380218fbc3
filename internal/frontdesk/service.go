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
	"fmt"
	"strings"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/id"
)

// Service provides front desk business logic: visitor logging, vehicle
// registration and parking violations.
type Service struct {
	visits      VisitRepository
	vehicles    VehicleRepository
	violations  ViolationRepository
	auditLogger audit.Logger
}

// NewService creates a new front desk service
func NewService(visits VisitRepository, vehicles VehicleRepository, violations ViolationRepository, auditLogger audit.Logger) *Service {
	return &Service{
		visits:      visits,
		vehicles:    vehicles,
		violations:  violations,
		auditLogger: auditLogger,
	}
}

// CheckIn logs a visitor arriving at a building.
func (s *Service) CheckIn(ctx context.Context, orgID, buildingID string, unitID *string, name, phone, purpose, loggedBy string) (*Visit, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidVisitorName
	}

	now := time.Now()
	v := &Visit{
		ID:           id.NewUUIDv7(),
		OrgID:        orgID,
		BuildingID:   buildingID,
		UnitID:       unitID,
		VisitorName:  strings.TrimSpace(name),
		VisitorPhone: phone,
		Purpose:      purpose,
		LoggedBy:     loggedBy,
		CheckedInAt:  now,
		CreatedAt:    now,
	}
	if err := s.visits.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to log visit: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeVisitorCheckedIn,
		OrgID:    orgID,
		ActorID:  loggedBy,
		Resource: v.ID,
	})
	return v, nil
}

// CheckOut stamps the visitor's departure. Checking out twice fails.
func (s *Service) CheckOut(ctx context.Context, orgID, visitID, actorID string) (*Visit, error) {
	v, err := s.visits.GetByID(ctx, orgID, visitID)
	if err != nil {
		return nil, err
	}
	if v.CheckedOutAt != nil {
		return nil, ErrAlreadyCheckedOut
	}

	now := time.Now()
	v.CheckedOutAt = &now
	if err := s.visits.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to check out visitor: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeVisitorCheckedOut,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: v.ID,
	})
	return v, nil
}

// ListVisits returns visitor log entries for a building, newest first.
// openOnly restricts to visitors still inside.
func (s *Service) ListVisits(ctx context.Context, orgID, buildingID string, openOnly bool, limit, offset int) ([]*Visit, error) {
	return s.visits.List(ctx, orgID, buildingID, openOnly, limit, offset)
}

// RegisterVehicle records a resident's vehicle. Plates are normalized to
// upper case and must be unique within the organization.
func (s *Service) RegisterVehicle(ctx context.Context, orgID, residentID, plate, make_, model, color string) (*Vehicle, error) {
	plate = normalizePlate(plate)
	if plate == "" {
		return nil, fmt.Errorf("plate is required")
	}
	if _, err := s.vehicles.GetByPlate(ctx, orgID, plate); err == nil {
		return nil, ErrDuplicatePlate
	} else if !errors.Is(err, ErrVehicleNotFound) {
		return nil, err
	}

	now := time.Now()
	v := &Vehicle{
		ID:         id.NewUUIDv7(),
		OrgID:      orgID,
		ResidentID: residentID,
		Plate:      plate,
		Make:       make_,
		Model:      model,
		Color:      color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to register vehicle: %w", err)
	}
	return v, nil
}

// DeregisterVehicle removes a vehicle registration.
func (s *Service) DeregisterVehicle(ctx context.Context, orgID, vehicleID string) error {
	if _, err := s.vehicles.GetByID(ctx, orgID, vehicleID); err != nil {
		return err
	}
	return s.vehicles.Delete(ctx, orgID, vehicleID)
}

// ResidentVehicles lists the vehicles registered to a resident.
func (s *Service) ResidentVehicles(ctx context.Context, orgID, residentID string) ([]*Vehicle, error) {
	return s.vehicles.ListByResident(ctx, orgID, residentID)
}

// IssueViolation records a parking fine against a plate. When the plate is
// registered the violation links to the vehicle.
func (s *Service) IssueViolation(ctx context.Context, orgID, buildingID, plate, reason string, fineCents int64, issuedBy string) (*Violation, error) {
	plate = normalizePlate(plate)
	if plate == "" {
		return nil, fmt.Errorf("plate is required")
	}
	if fineCents < 0 {
		return nil, fmt.Errorf("fine must not be negative")
	}

	var vehicleID *string
	if veh, err := s.vehicles.GetByPlate(ctx, orgID, plate); err == nil {
		vehicleID = &veh.ID
	} else if !errors.Is(err, ErrVehicleNotFound) {
		return nil, err
	}

	now := time.Now()
	v := &Violation{
		ID:         id.NewUUIDv7(),
		OrgID:      orgID,
		BuildingID: buildingID,
		VehicleID:  vehicleID,
		Plate:      plate,
		Reason:     reason,
		FineCents:  fineCents,
		Status:     ViolationOpen,
		IssuedBy:   issuedBy,
		IssuedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.violations.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to issue violation: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeViolationIssued,
		OrgID:    orgID,
		ActorID:  issuedBy,
		Resource: v.ID,
		Metadata: map[string]any{audit.AttrAmount: fineCents, "plate": plate},
	})
	return v, nil
}

// SettleViolation closes an open violation as paid.
func (s *Service) SettleViolation(ctx context.Context, orgID, violationID string) (*Violation, error) {
	return s.closeViolation(ctx, orgID, violationID, ViolationPaid)
}

// WaiveViolation closes an open violation without payment.
func (s *Service) WaiveViolation(ctx context.Context, orgID, violationID string) (*Violation, error) {
	return s.closeViolation(ctx, orgID, violationID, ViolationWaived)
}

// ListViolations returns violations filtered by building and status, both
// optional.
func (s *Service) ListViolations(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*Violation, error) {
	return s.violations.List(ctx, orgID, buildingID, status, limit, offset)
}

func (s *Service) closeViolation(ctx context.Context, orgID, violationID, status string) (*Violation, error) {
	v, err := s.violations.GetByID(ctx, orgID, violationID)
	if err != nil {
		return nil, err
	}
	if v.Status != ViolationOpen {
		return nil, ErrViolationClosed
	}

	now := time.Now()
	v.Status = status
	v.ClosedAt = &now
	v.UpdatedAt = now
	if err := s.violations.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to close violation: %w", err)
	}
	return v, nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}
