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
	"fmt"
	"time"

	"github.com/quartershq/quarters/internal/id"
)

// Service provides resident management business logic
type Service struct {
	repo         Repository
	leaseChecker LeaseChecker
}

// NewService creates a new resident service
func NewService(repo Repository, leaseChecker LeaseChecker) *Service {
	return &Service{
		repo:         repo,
		leaseChecker: leaseChecker,
	}
}

// Create registers a new resident in an organization.
func (s *Service) Create(ctx context.Context, r *Resident) (*Resident, error) {
	if r.FullName == "" {
		return nil, fmt.Errorf("resident full name is required")
	}
	if r.Email == "" && r.Phone == "" {
		return nil, fmt.Errorf("resident email or phone is required")
	}

	if r.Email != "" {
		if existing, err := s.repo.GetByEmail(ctx, r.OrgID, r.Email); err == nil && existing != nil {
			return nil, ErrDuplicateResident
		}
	}

	now := time.Now()
	r.ID = id.NewUUIDv7()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create resident: %w", err)
	}

	return r, nil
}

// Get retrieves a resident by ID within an organization
func (s *Service) Get(ctx context.Context, orgID, residentID string) (*Resident, error) {
	return s.repo.GetByID(ctx, orgID, residentID)
}

// List lists residents in an organization with pagination
func (s *Service) List(ctx context.Context, orgID string, limit, offset int) ([]*Resident, error) {
	return s.repo.List(ctx, orgID, limit, offset)
}

// Update updates contact and emergency information.
func (s *Service) Update(ctx context.Context, orgID, residentID string, update *Resident) (*Resident, error) {
	r, err := s.repo.GetByID(ctx, orgID, residentID)
	if err != nil {
		return nil, err
	}

	if update.FullName != "" {
		r.FullName = update.FullName
	}
	if update.Email != "" {
		r.Email = update.Email
	}
	if update.Phone != "" {
		r.Phone = update.Phone
	}
	r.IDNumber = update.IDNumber
	r.EmergencyName = update.EmergencyName
	r.EmergencyPhone = update.EmergencyPhone
	r.Notes = update.Notes
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update resident: %w", err)
	}

	return r, nil
}

// LinkUser attaches a portal user account to a resident.
func (s *Service) LinkUser(ctx context.Context, orgID, residentID, userID string) error {
	r, err := s.repo.GetByID(ctx, orgID, residentID)
	if err != nil {
		return err
	}

	r.UserID = &userID
	r.UpdatedAt = time.Now()
	return s.repo.Update(ctx, r)
}

// Delete soft-deletes a resident. Refused while the resident holds an open
// lease.
func (s *Service) Delete(ctx context.Context, orgID, residentID string) error {
	if _, err := s.repo.GetByID(ctx, orgID, residentID); err != nil {
		return err
	}

	open, err := s.leaseChecker.HasOpenLease(ctx, orgID, residentID)
	if err != nil {
		return fmt.Errorf("failed to check leases: %w", err)
	}
	if open {
		return ErrResidentHasLease
	}

	return s.repo.Delete(ctx, orgID, residentID)
}
