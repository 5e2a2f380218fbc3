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

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quartershq/quarters/internal/building"
)

// BuildingRepository implements building.Repository
type BuildingRepository struct {
	db *DB
}

// NewBuildingRepository creates a new building repository
func NewBuildingRepository(db *DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// Create creates a new building
func (r *BuildingRepository) Create(ctx context.Context, b *building.Building) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO buildings (id, org_id, name, address, city, floors, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, b.ID, b.OrgID, b.Name, b.Address, b.City, b.Floors, b.Notes, b.CreatedAt, b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert building: %w", err)
	}

	return nil
}

// GetByID retrieves a building scoped to the organization
func (r *BuildingRepository) GetByID(ctx context.Context, orgID, id string) (*building.Building, error) {
	var b building.Building

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, org_id, name, address, city, floors, notes, created_at, updated_at
		FROM buildings
		WHERE org_id = $1 AND id = $2
	`, orgID, id).Scan(
		&b.ID, &b.OrgID, &b.Name, &b.Address, &b.City, &b.Floors, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, building.ErrBuildingNotFound
		}
		return nil, fmt.Errorf("failed to get building: %w", err)
	}

	return &b, nil
}

// Update updates a building
func (r *BuildingRepository) Update(ctx context.Context, b *building.Building) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE buildings SET name = $3, address = $4, city = $5, floors = $6, notes = $7, updated_at = $8
		WHERE org_id = $1 AND id = $2
	`, b.OrgID, b.ID, b.Name, b.Address, b.City, b.Floors, b.Notes, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update building: %w", err)
	}

	if result.RowsAffected() == 0 {
		return building.ErrBuildingNotFound
	}

	return nil
}

// List retrieves buildings for an organization with pagination
func (r *BuildingRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*building.Building, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, org_id, name, address, city, floors, notes, created_at, updated_at
		FROM buildings
		WHERE org_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	var buildings []*building.Building
	for rows.Next() {
		var b building.Building
		if err := rows.Scan(
			&b.ID, &b.OrgID, &b.Name, &b.Address, &b.City, &b.Floors, &b.Notes,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, &b)
	}

	return buildings, nil
}

// UnitRepository implements building.UnitRepository
type UnitRepository struct {
	db *DB
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *DB) *UnitRepository {
	return &UnitRepository{db: db}
}

const unitColumns = `id, org_id, building_id, label, floor, bedrooms, bathrooms,
		area_sqm, market_rent_cents, status, created_at, updated_at`

func scanUnit(row pgx.Row) (*building.Unit, error) {
	var u building.Unit
	err := row.Scan(
		&u.ID, &u.OrgID, &u.BuildingID, &u.Label, &u.Floor, &u.Bedrooms, &u.Bathrooms,
		&u.AreaSqM, &u.MarketRentCents, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new unit
func (r *UnitRepository) Create(ctx context.Context, u *building.Unit) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO units (id, org_id, building_id, label, floor, bedrooms, bathrooms,
			area_sqm, market_rent_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		u.ID, u.OrgID, u.BuildingID, u.Label, u.Floor, u.Bedrooms, u.Bathrooms,
		u.AreaSqM, u.MarketRentCents, u.Status, u.CreatedAt, u.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert unit: %w", err)
	}

	return nil
}

// GetByID retrieves a unit scoped to the organization
func (r *UnitRepository) GetByID(ctx context.Context, orgID, id string) (*building.Unit, error) {
	u, err := scanUnit(r.db.pool.QueryRow(ctx, `
		SELECT `+unitColumns+`
		FROM units
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, building.ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return u, nil
}

// GetByLabel retrieves a unit by its label within a building
func (r *UnitRepository) GetByLabel(ctx context.Context, orgID, buildingID, label string) (*building.Unit, error) {
	u, err := scanUnit(r.db.pool.QueryRow(ctx, `
		SELECT `+unitColumns+`
		FROM units
		WHERE org_id = $1 AND building_id = $2 AND label = $3
	`, orgID, buildingID, label))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, building.ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return u, nil
}

// Update updates unit attributes
func (r *UnitRepository) Update(ctx context.Context, u *building.Unit) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE units SET bedrooms = $3, bathrooms = $4, area_sqm = $5,
			market_rent_cents = $6, updated_at = $7
		WHERE org_id = $1 AND id = $2
	`, u.OrgID, u.ID, u.Bedrooms, u.Bathrooms, u.AreaSqM, u.MarketRentCents, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return building.ErrUnitNotFound
	}

	return nil
}

// UpdateStatus sets a unit's status
func (r *UnitRepository) UpdateStatus(ctx context.Context, orgID, id, status string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE units SET status = $3, updated_at = $4
		WHERE org_id = $1 AND id = $2
	`, orgID, id, status, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update unit status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return building.ErrUnitNotFound
	}

	return nil
}

// ListByBuilding retrieves all units in a building
func (r *UnitRepository) ListByBuilding(ctx context.Context, orgID, buildingID string) ([]*building.Unit, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+unitColumns+`
		FROM units
		WHERE org_id = $1 AND building_id = $2
		ORDER BY label
	`, orgID, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []*building.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}

	return units, nil
}

// CountByStatus counts a building's units grouped by status
func (r *UnitRepository) CountByStatus(ctx context.Context, orgID, buildingID string) (map[string]int, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM units
		WHERE org_id = $1 AND building_id = $2
		GROUP BY status
	`, orgID, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to count units: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan unit count: %w", err)
		}
		counts[status] = n
	}

	return counts, nil
}
