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
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/quartershq/quarters/internal/cache"
	"github.com/quartershq/quarters/internal/id"
	"github.com/quartershq/quarters/internal/observability/logger"
)

const occupancyCacheTTL = 60 * time.Second

// Service provides building and unit management business logic
type Service struct {
	repo     Repository
	unitRepo UnitRepository
	cache    cache.Cache
}

// NewService creates a new building service
func NewService(repo Repository, unitRepo UnitRepository, c cache.Cache) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		repo:     repo,
		unitRepo: unitRepo,
		cache:    c,
	}
}

// CreateBuilding creates a new building
func (s *Service) CreateBuilding(ctx context.Context, orgID, name, address, city string, floors int) (*Building, error) {
	if name == "" {
		return nil, fmt.Errorf("building name is required")
	}
	if floors < 1 {
		return nil, fmt.Errorf("building must have at least one floor")
	}

	now := time.Now()
	b := &Building{
		ID:        id.NewUUIDv7(),
		OrgID:     orgID,
		Name:      name,
		Address:   address,
		City:      city,
		Floors:    floors,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}

	return b, nil
}

// GetBuilding retrieves a building by ID within an organization
func (s *Service) GetBuilding(ctx context.Context, orgID, buildingID string) (*Building, error) {
	return s.repo.GetByID(ctx, orgID, buildingID)
}

// UpdateBuilding updates mutable building fields
func (s *Service) UpdateBuilding(ctx context.Context, orgID, buildingID, name, address, city, notes string) (*Building, error) {
	b, err := s.repo.GetByID(ctx, orgID, buildingID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		b.Name = name
	}
	if address != "" {
		b.Address = address
	}
	if city != "" {
		b.City = city
	}
	b.Notes = notes
	b.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update building: %w", err)
	}

	return b, nil
}

// ListBuildings lists buildings in an organization with pagination
func (s *Service) ListBuildings(ctx context.Context, orgID string, limit, offset int) ([]*Building, error) {
	return s.repo.List(ctx, orgID, limit, offset)
}

// CreateUnit creates a new unit in a building. Labels are unique per building.
func (s *Service) CreateUnit(ctx context.Context, orgID, buildingID, label string, floor, bedrooms, bathrooms int, areaSqM float64, marketRentCents int64) (*Unit, error) {
	if label == "" {
		return nil, fmt.Errorf("unit label is required")
	}
	if marketRentCents < 0 {
		return nil, fmt.Errorf("market rent must not be negative")
	}

	b, err := s.repo.GetByID(ctx, orgID, buildingID)
	if err != nil {
		return nil, err
	}
	if floor < 0 || floor > b.Floors {
		return nil, fmt.Errorf("floor %d out of range for building with %d floors", floor, b.Floors)
	}

	if existing, err := s.unitRepo.GetByLabel(ctx, orgID, buildingID, label); err == nil && existing != nil {
		return nil, ErrUnitLabelTaken
	}

	now := time.Now()
	u := &Unit{
		ID:              id.NewUUIDv7(),
		OrgID:           orgID,
		BuildingID:      buildingID,
		Label:           label,
		Floor:           floor,
		Bedrooms:        bedrooms,
		Bathrooms:       bathrooms,
		AreaSqM:         areaSqM,
		MarketRentCents: marketRentCents,
		Status:          UnitVacant,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.unitRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	s.invalidateOccupancy(ctx, orgID, buildingID)

	return u, nil
}

// GetUnit retrieves a unit by ID within an organization
func (s *Service) GetUnit(ctx context.Context, orgID, unitID string) (*Unit, error) {
	return s.unitRepo.GetByID(ctx, orgID, unitID)
}

// ListUnits lists all units in a building
func (s *Service) ListUnits(ctx context.Context, orgID, buildingID string) ([]*Unit, error) {
	return s.unitRepo.ListByBuilding(ctx, orgID, buildingID)
}

// UpdateUnit updates mutable unit fields (not status; see SetUnitStatus).
func (s *Service) UpdateUnit(ctx context.Context, orgID, unitID string, bedrooms, bathrooms int, areaSqM float64, marketRentCents int64) (*Unit, error) {
	u, err := s.unitRepo.GetByID(ctx, orgID, unitID)
	if err != nil {
		return nil, err
	}

	if marketRentCents < 0 {
		return nil, fmt.Errorf("market rent must not be negative")
	}

	u.Bedrooms = bedrooms
	u.Bathrooms = bathrooms
	u.AreaSqM = areaSqM
	u.MarketRentCents = marketRentCents
	u.UpdatedAt = time.Now()

	if err := s.unitRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	return u, nil
}

// SetUnitStatus moves a unit through the status state machine.
func (s *Service) SetUnitStatus(ctx context.Context, orgID, unitID, status string) (*Unit, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnitStatus, status)
	}

	u, err := s.unitRepo.GetByID(ctx, orgID, unitID)
	if err != nil {
		return nil, err
	}

	if u.Status == status {
		return u, nil
	}
	if !CanTransition(u.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, u.Status, status)
	}

	if err := s.unitRepo.UpdateStatus(ctx, orgID, unitID, status); err != nil {
		return nil, fmt.Errorf("failed to update unit status: %w", err)
	}
	u.Status = status
	u.UpdatedAt = time.Now()

	s.invalidateOccupancy(ctx, orgID, u.BuildingID)

	return u, nil
}

// Occupancy returns the occupancy summary for a building, served from cache
// when fresh.
func (s *Service) Occupancy(ctx context.Context, orgID, buildingID string) (*OccupancySummary, error) {
	key := cache.OccupancyKey(orgID, buildingID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var summary OccupancySummary
		if err := json.Unmarshal(raw, &summary); err == nil {
			return &summary, nil
		}
	}

	if _, err := s.repo.GetByID(ctx, orgID, buildingID); err != nil {
		return nil, err
	}

	counts, err := s.unitRepo.CountByStatus(ctx, orgID, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to count units: %w", err)
	}

	summary := &OccupancySummary{
		BuildingID:  buildingID,
		Vacant:      counts[UnitVacant],
		Reserved:    counts[UnitReserved],
		Occupied:    counts[UnitOccupied],
		Maintenance: counts[UnitMaintenance],
	}
	summary.Total = summary.Vacant + summary.Reserved + summary.Occupied + summary.Maintenance

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, raw, occupancyCacheTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache occupancy summary", logger.Error(err))
		}
	}

	return summary, nil
}

func (s *Service) invalidateOccupancy(ctx context.Context, orgID, buildingID string) {
	if err := s.cache.Delete(ctx, cache.OccupancyKey(orgID, buildingID)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate occupancy cache",
			logger.Error(err), logger.BuildingID(buildingID))
	}
}
