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

package lease

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/building"
	"github.com/quartershq/quarters/internal/id"
	"github.com/quartershq/quarters/internal/observability/logger"
	"github.com/quartershq/quarters/internal/resident"
)

// Units is the slice of the building service the lease service needs.
type Units interface {
	GetUnit(ctx context.Context, orgID, unitID string) (*building.Unit, error)
	SetUnitStatus(ctx context.Context, orgID, unitID, status string) (*building.Unit, error)
}

// Residents is the slice of the resident service the lease service needs.
type Residents interface {
	GetByID(ctx context.Context, orgID, residentID string) (*resident.Resident, error)
}

// CreateRequest carries the fields for a new lease.
type CreateRequest struct {
	OrgID            string
	UnitID           string
	ResidentID       string
	StartDate        time.Time
	EndDate          time.Time
	RentSource       string
	RentCents        int64 // ignored for unit_default
	BillingCycle     string
	PaymentDueDay    int
	LateFeeGraceDays int
	LateFeePercent   float64
	TermsVersion     string
}

// Service provides lease lifecycle business logic
type Service struct {
	repo        Repository
	units       Units
	residents   Residents
	auditLogger audit.Logger
}

// NewService creates a new lease service
func NewService(repo Repository, units Units, residents Residents, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		units:       units,
		residents:   residents,
		auditLogger: auditLogger,
	}
}

// Create validates and creates a pending lease, reserving the unit.
// The unit must belong to the organization, must not be under maintenance,
// and must not be claimed by another open lease. The one-open-lease-per-unit
// rule is additionally enforced by a partial unique index, so a concurrent
// create loses at insert time instead of double-booking.
func (s *Service) Create(ctx context.Context, req CreateRequest, actorID string) (*Lease, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDates
	}
	if req.PaymentDueDay < 1 || req.PaymentDueDay > 28 {
		return nil, ErrInvalidDueDay
	}
	if !ValidCycle(req.BillingCycle) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCycle, req.BillingCycle)
	}
	if req.LateFeePercent < 0 || req.LateFeePercent > 100 {
		return nil, ErrInvalidLateFee
	}
	if req.LateFeeGraceDays < 0 {
		return nil, fmt.Errorf("late fee grace days must not be negative")
	}

	// Membership checks: both sides of the lease must belong to the org.
	if _, err := s.residents.GetByID(ctx, req.OrgID, req.ResidentID); err != nil {
		return nil, fmt.Errorf("resident lookup: %w", err)
	}
	unit, err := s.units.GetUnit(ctx, req.OrgID, req.UnitID)
	if err != nil {
		return nil, fmt.Errorf("unit lookup: %w", err)
	}
	if unit.Status == building.UnitMaintenance {
		return nil, ErrUnitInMaintenance
	}

	if open, err := s.repo.FindOpenByUnit(ctx, req.OrgID, req.UnitID); err == nil && open != nil {
		return nil, ErrUnitUnavailable
	} else if err != nil && !errors.Is(err, ErrLeaseNotFound) {
		return nil, fmt.Errorf("failed to check unit availability: %w", err)
	}

	rent, err := resolveRent(req.RentSource, req.RentCents, unit.MarketRentCents)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	l := &Lease{
		ID:               id.NewUUIDv7(),
		OrgID:            req.OrgID,
		UnitID:           req.UnitID,
		ResidentID:       req.ResidentID,
		Status:           StatusPending,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		RentCents:        rent,
		RentSource:       req.RentSource,
		BillingCycle:     req.BillingCycle,
		PaymentDueDay:    req.PaymentDueDay,
		LateFeeGraceDays: req.LateFeeGraceDays,
		LateFeePercent:   req.LateFeePercent,
		TermsVersion:     req.TermsVersion,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create lease: %w", err)
	}

	// Reserve the unit. Occupied units were rejected above; a unit already
	// reserved by a cancelled flow is left as-is.
	if unit.Status == building.UnitVacant {
		if _, err := s.units.SetUnitStatus(ctx, req.OrgID, req.UnitID, building.UnitReserved); err != nil {
			slog.WarnContext(ctx, "failed to reserve unit for lease",
				logger.Error(err), logger.LeaseID(l.ID), logger.UnitID(req.UnitID))
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLeaseCreated,
		OrgID:    req.OrgID,
		ActorID:  actorID,
		Resource: l.ID,
		Metadata: map[string]any{"unit_id": req.UnitID, "resident_id": req.ResidentID},
	})

	return l, nil
}

// Get retrieves a lease by ID within an organization
func (s *Service) Get(ctx context.Context, orgID, leaseID string) (*Lease, error) {
	return s.repo.GetByID(ctx, orgID, leaseID)
}

// List lists leases in an organization, optionally filtered by status.
func (s *Service) List(ctx context.Context, orgID, status string, limit, offset int) ([]*Lease, error) {
	return s.repo.List(ctx, orgID, status, limit, offset)
}

// ListByResident lists a resident's leases.
func (s *Service) ListByResident(ctx context.Context, orgID, residentID string) ([]*Lease, error) {
	return s.repo.ListByResident(ctx, orgID, residentID)
}

// AcceptTerms records that the resident accepted the lease terms.
func (s *Service) AcceptTerms(ctx context.Context, orgID, leaseID, version string) (*Lease, error) {
	l, err := s.repo.GetByID(ctx, orgID, leaseID)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPending {
		return nil, fmt.Errorf("%w: terms can only be accepted on a pending lease", ErrInvalidTransition)
	}

	now := time.Now()
	l.TermsVersion = version
	l.TermsAcceptedAt = &now
	l.UpdatedAt = now

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to record terms acceptance: %w", err)
	}

	return l, nil
}

// Activate moves a pending lease to active and marks the unit occupied.
// Requires accepted terms.
func (s *Service) Activate(ctx context.Context, orgID, leaseID, actorID string) (*Lease, error) {
	l, err := s.repo.GetByID(ctx, orgID, leaseID)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, StatusActive)
	}
	if l.TermsAcceptedAt == nil {
		return nil, ErrTermsNotAccepted
	}

	// A pending renewal cannot activate while its predecessor is still active.
	open, err := s.repo.FindOpenByUnit(ctx, orgID, l.UnitID)
	if err != nil && !errors.Is(err, ErrLeaseNotFound) {
		return nil, fmt.Errorf("failed to check unit availability: %w", err)
	}
	if open != nil && open.ID != l.ID && open.Status == StatusActive {
		return nil, ErrUnitUnavailable
	}

	l.Status = StatusActive
	l.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to activate lease: %w", err)
	}

	if _, err := s.units.SetUnitStatus(ctx, orgID, l.UnitID, building.UnitOccupied); err != nil {
		slog.WarnContext(ctx, "failed to mark unit occupied",
			logger.Error(err), logger.LeaseID(l.ID), logger.UnitID(l.UnitID))
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLeaseActivated,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: l.ID,
	})

	return l, nil
}

// Terminate ends an open lease, records the reason, and frees the unit.
func (s *Service) Terminate(ctx context.Context, orgID, leaseID, reason, actorID string) (*Lease, error) {
	l, err := s.repo.GetByID(ctx, orgID, leaseID)
	if err != nil {
		return nil, err
	}
	if !l.IsOpen() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, StatusTerminated)
	}

	now := time.Now()
	l.Status = StatusTerminated
	l.TerminatedAt = &now
	l.TerminationReason = reason
	l.UpdatedAt = now

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to terminate lease: %w", err)
	}

	s.freeUnit(ctx, orgID, l)

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLeaseTerminated,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: l.ID,
		Metadata: map[string]any{audit.AttrReason: reason},
	})

	return l, nil
}

// ExpireDue marks active leases past their end date as expired and frees
// their units. Run periodically from the server. Returns the number expired.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListActiveEndingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expiring leases: %w", err)
	}

	expired := 0
	for _, l := range due {
		l.Status = StatusExpired
		l.UpdatedAt = now
		if err := s.repo.Update(ctx, l); err != nil {
			slog.ErrorContext(ctx, "failed to expire lease", logger.Error(err), logger.LeaseID(l.ID))
			continue
		}
		s.freeUnit(ctx, l.OrgID, l)
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLeaseExpired,
			OrgID:    l.OrgID,
			Resource: l.ID,
		})
		expired++
	}

	return expired, nil
}

// Renew creates a pending follow-up lease with the same terms and new dates.
// Allowed on active and expired leases; the open-lease check ignores the
// source so an active lease can be renewed before it ends.
func (s *Service) Renew(ctx context.Context, orgID, leaseID string, newStart, newEnd time.Time, actorID string) (*Lease, error) {
	src, err := s.repo.GetByID(ctx, orgID, leaseID)
	if err != nil {
		return nil, err
	}
	if src.Status != StatusActive && src.Status != StatusExpired {
		return nil, fmt.Errorf("%w: cannot renew a %s lease", ErrInvalidTransition, src.Status)
	}
	if !newEnd.After(newStart) {
		return nil, ErrInvalidDates
	}

	if open, err := s.repo.FindOpenByUnit(ctx, orgID, src.UnitID); err == nil && open != nil && open.ID != src.ID {
		return nil, ErrUnitUnavailable
	} else if err != nil && !errors.Is(err, ErrLeaseNotFound) {
		return nil, fmt.Errorf("failed to check unit availability: %w", err)
	}

	now := time.Now()
	l := &Lease{
		ID:               id.NewUUIDv7(),
		OrgID:            orgID,
		UnitID:           src.UnitID,
		ResidentID:       src.ResidentID,
		Status:           StatusPending,
		StartDate:        newStart,
		EndDate:          newEnd,
		RentCents:        src.RentCents,
		RentSource:       src.RentSource,
		BillingCycle:     src.BillingCycle,
		PaymentDueDay:    src.PaymentDueDay,
		LateFeeGraceDays: src.LateFeeGraceDays,
		LateFeePercent:   src.LateFeePercent,
		TermsVersion:     src.TermsVersion,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create renewal lease: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLeaseRenewed,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: l.ID,
		Metadata: map[string]any{"renewed_from": src.ID},
	})

	return l, nil
}

// HasOpenLease implements resident.LeaseChecker.
func (s *Service) HasOpenLease(ctx context.Context, orgID, residentID string) (bool, error) {
	return s.repo.HasOpenLease(ctx, orgID, residentID)
}

// freeUnit releases the unit claimed by a closed lease, unless another open
// lease (a renewal) already claims it.
func (s *Service) freeUnit(ctx context.Context, orgID string, l *Lease) {
	if open, err := s.repo.FindOpenByUnit(ctx, orgID, l.UnitID); err == nil && open != nil {
		return
	}
	if _, err := s.units.SetUnitStatus(ctx, orgID, l.UnitID, building.UnitVacant); err != nil {
		slog.WarnContext(ctx, "failed to free unit",
			logger.Error(err), logger.LeaseID(l.ID), logger.UnitID(l.UnitID))
	}
}

func resolveRent(source string, requested, unitDefault int64) (int64, error) {
	switch source {
	case RentUnitDefault:
		if unitDefault <= 0 {
			return 0, fmt.Errorf("%w: unit has no market rent configured", ErrInvalidRent)
		}
		return unitDefault, nil
	case RentNegotiated, RentMarketAdjusted:
		if requested <= 0 {
			return 0, ErrInvalidRent
		}
		return requested, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidRentSource, source)
	}
}
