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
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quartershq/quarters/internal/frontdesk"
)

// VisitRepository implements frontdesk.VisitRepository
type VisitRepository struct {
	db *DB
}

// NewVisitRepository creates a new visitor log repository
func NewVisitRepository(db *DB) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `id, org_id, building_id, unit_id, visitor_name, visitor_phone,
		purpose, logged_by, checked_in_at, checked_out_at, created_at`

func scanVisit(row pgx.Row) (*frontdesk.Visit, error) {
	var v frontdesk.Visit
	var unitID sql.NullString
	var checkedOutAt sql.NullTime

	err := row.Scan(
		&v.ID, &v.OrgID, &v.BuildingID, &unitID, &v.VisitorName, &v.VisitorPhone,
		&v.Purpose, &v.LoggedBy, &v.CheckedInAt, &checkedOutAt, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		v.UnitID = &unitID.String
	}
	if checkedOutAt.Valid {
		v.CheckedOutAt = &checkedOutAt.Time
	}
	return &v, nil
}

// Create creates a new visitor log entry
func (r *VisitRepository) Create(ctx context.Context, v *frontdesk.Visit) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO visits (id, org_id, building_id, unit_id, visitor_name, visitor_phone,
			purpose, logged_by, checked_in_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		v.ID, v.OrgID, v.BuildingID, v.UnitID, v.VisitorName, v.VisitorPhone,
		v.Purpose, v.LoggedBy, v.CheckedInAt, v.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	return nil
}

// GetByID retrieves a visitor log entry scoped to the organization
func (r *VisitRepository) GetByID(ctx context.Context, orgID, id string) (*frontdesk.Visit, error) {
	v, err := scanVisit(r.db.pool.QueryRow(ctx, `
		SELECT `+visitColumns+`
		FROM visits
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, frontdesk.ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return v, nil
}

// Update updates a visitor log entry's checkout time
func (r *VisitRepository) Update(ctx context.Context, v *frontdesk.Visit) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE visits SET checked_out_at = $3
		WHERE org_id = $1 AND id = $2
	`, v.OrgID, v.ID, v.CheckedOutAt)

	if err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return frontdesk.ErrVisitNotFound
	}

	return nil
}

// List retrieves visitor log entries for a building, newest first
func (r *VisitRepository) List(ctx context.Context, orgID, buildingID string, openOnly bool, limit, offset int) ([]*frontdesk.Visit, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+visitColumns+`
		FROM visits
		WHERE org_id = $1 AND building_id = $2
			AND (NOT $3 OR checked_out_at IS NULL)
		ORDER BY checked_in_at DESC
		LIMIT $4 OFFSET $5
	`, orgID, buildingID, openOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []*frontdesk.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	return visits, nil
}

// VehicleRepository implements frontdesk.VehicleRepository
type VehicleRepository struct {
	db *DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, org_id, resident_id, plate, make, model, color,
		created_at, updated_at`

func scanVehicle(row pgx.Row) (*frontdesk.Vehicle, error) {
	var v frontdesk.Vehicle
	err := row.Scan(
		&v.ID, &v.OrgID, &v.ResidentID, &v.Plate, &v.Make, &v.Model, &v.Color,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create creates a new vehicle registration
func (r *VehicleRepository) Create(ctx context.Context, v *frontdesk.Vehicle) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO vehicles (id, org_id, resident_id, plate, make, model, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, v.ID, v.OrgID, v.ResidentID, v.Plate, v.Make, v.Model, v.Color, v.CreatedAt, v.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}

	return nil
}

// GetByID retrieves a vehicle scoped to the organization
func (r *VehicleRepository) GetByID(ctx context.Context, orgID, id string) (*frontdesk.Vehicle, error) {
	v, err := scanVehicle(r.db.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, frontdesk.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

// GetByPlate retrieves a vehicle by plate within an organization
func (r *VehicleRepository) GetByPlate(ctx context.Context, orgID, plate string) (*frontdesk.Vehicle, error) {
	v, err := scanVehicle(r.db.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE org_id = $1 AND plate = $2
	`, orgID, plate))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, frontdesk.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle by plate: %w", err)
	}
	return v, nil
}

// Delete removes a vehicle registration
func (r *VehicleRepository) Delete(ctx context.Context, orgID, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM vehicles WHERE org_id = $1 AND id = $2
	`, orgID, id)

	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	if result.RowsAffected() == 0 {
		return frontdesk.ErrVehicleNotFound
	}

	return nil
}

// ListByResident retrieves the vehicles registered to a resident
func (r *VehicleRepository) ListByResident(ctx context.Context, orgID, residentID string) ([]*frontdesk.Vehicle, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE org_id = $1 AND resident_id = $2
		ORDER BY plate
	`, orgID, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*frontdesk.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}

// ViolationRepository implements frontdesk.ViolationRepository
type ViolationRepository struct {
	db *DB
}

// NewViolationRepository creates a new parking violation repository
func NewViolationRepository(db *DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

const violationColumns = `id, org_id, building_id, vehicle_id, plate, reason,
		fine_cents, status, issued_by, issued_at, closed_at, created_at, updated_at`

func scanViolation(row pgx.Row) (*frontdesk.Violation, error) {
	var v frontdesk.Violation
	var vehicleID sql.NullString
	var closedAt sql.NullTime

	err := row.Scan(
		&v.ID, &v.OrgID, &v.BuildingID, &vehicleID, &v.Plate, &v.Reason,
		&v.FineCents, &v.Status, &v.IssuedBy, &v.IssuedAt, &closedAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vehicleID.Valid {
		v.VehicleID = &vehicleID.String
	}
	if closedAt.Valid {
		v.ClosedAt = &closedAt.Time
	}
	return &v, nil
}

// Create creates a new parking violation
func (r *ViolationRepository) Create(ctx context.Context, v *frontdesk.Violation) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO parking_violations (id, org_id, building_id, vehicle_id, plate, reason,
			fine_cents, status, issued_by, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		v.ID, v.OrgID, v.BuildingID, v.VehicleID, v.Plate, v.Reason,
		v.FineCents, v.Status, v.IssuedBy, v.IssuedAt, v.CreatedAt, v.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert violation: %w", err)
	}

	return nil
}

// GetByID retrieves a parking violation scoped to the organization
func (r *ViolationRepository) GetByID(ctx context.Context, orgID, id string) (*frontdesk.Violation, error) {
	v, err := scanViolation(r.db.pool.QueryRow(ctx, `
		SELECT `+violationColumns+`
		FROM parking_violations
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, frontdesk.ErrViolationNotFound
		}
		return nil, fmt.Errorf("failed to get violation: %w", err)
	}
	return v, nil
}

// Update updates a parking violation
func (r *ViolationRepository) Update(ctx context.Context, v *frontdesk.Violation) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE parking_violations SET status = $3, closed_at = $4, updated_at = $5
		WHERE org_id = $1 AND id = $2
	`, v.OrgID, v.ID, v.Status, v.ClosedAt, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update violation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return frontdesk.ErrViolationNotFound
	}

	return nil
}

// List retrieves violations filtered by building and status, both optional
func (r *ViolationRepository) List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*frontdesk.Violation, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+violationColumns+`
		FROM parking_violations
		WHERE org_id = $1
			AND ($2 = '' OR building_id::text = $2)
			AND ($3 = '' OR status = $3)
		ORDER BY issued_at DESC
		LIMIT $4 OFFSET $5
	`, orgID, buildingID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	var violations []*frontdesk.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		violations = append(violations, v)
	}

	return violations, nil
}
