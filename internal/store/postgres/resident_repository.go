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
	"github.com/quartershq/quarters/internal/resident"
)

// ResidentRepository implements resident.Repository
type ResidentRepository struct {
	db *DB
}

// NewResidentRepository creates a new resident repository
func NewResidentRepository(db *DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

const residentColumns = `id, org_id, user_id, full_name, email, phone, id_number,
		emergency_name, emergency_phone, notes, created_at, updated_at, deleted_at`

func scanResident(row pgx.Row) (*resident.Resident, error) {
	var res resident.Resident
	var userID sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&res.ID, &res.OrgID, &userID, &res.FullName, &res.Email, &res.Phone,
		&res.IDNumber, &res.EmergencyName, &res.EmergencyPhone, &res.Notes,
		&res.CreatedAt, &res.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		res.UserID = &userID.String
	}
	if deletedAt.Valid {
		res.DeletedAt = &deletedAt.Time
	}
	return &res, nil
}

// Create creates a new resident
func (r *ResidentRepository) Create(ctx context.Context, res *resident.Resident) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO residents (id, org_id, user_id, full_name, email, phone, id_number,
			emergency_name, emergency_phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		res.ID, res.OrgID, res.UserID, res.FullName, res.Email, res.Phone,
		res.IDNumber, res.EmergencyName, res.EmergencyPhone, res.Notes,
		res.CreatedAt, res.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert resident: %w", err)
	}

	return nil
}

// GetByID retrieves a resident scoped to the organization
func (r *ResidentRepository) GetByID(ctx context.Context, orgID, id string) (*resident.Resident, error) {
	res, err := scanResident(r.db.pool.QueryRow(ctx, `
		SELECT `+residentColumns+`
		FROM residents
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, resident.ErrResidentNotFound
		}
		return nil, fmt.Errorf("failed to get resident: %w", err)
	}
	return res, nil
}

// GetByEmail retrieves a resident by email within an organization
func (r *ResidentRepository) GetByEmail(ctx context.Context, orgID, email string) (*resident.Resident, error) {
	res, err := scanResident(r.db.pool.QueryRow(ctx, `
		SELECT `+residentColumns+`
		FROM residents
		WHERE org_id = $1 AND email = $2 AND deleted_at IS NULL
	`, orgID, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, resident.ErrResidentNotFound
		}
		return nil, fmt.Errorf("failed to get resident: %w", err)
	}
	return res, nil
}

// Update updates resident information
func (r *ResidentRepository) Update(ctx context.Context, res *resident.Resident) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE residents SET user_id = $3, full_name = $4, email = $5, phone = $6,
			id_number = $7, emergency_name = $8, emergency_phone = $9, notes = $10,
			updated_at = $11
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
	`,
		res.OrgID, res.ID, res.UserID, res.FullName, res.Email, res.Phone,
		res.IDNumber, res.EmergencyName, res.EmergencyPhone, res.Notes, time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}

	if result.RowsAffected() == 0 {
		return resident.ErrResidentNotFound
	}

	return nil
}

// Delete soft-deletes a resident
func (r *ResidentRepository) Delete(ctx context.Context, orgID, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE residents SET deleted_at = $3
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
	`, orgID, id, time.Now())

	if err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}

	if result.RowsAffected() == 0 {
		return resident.ErrResidentNotFound
	}

	return nil
}

// List retrieves residents for an organization with pagination
func (r *ResidentRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*resident.Resident, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+residentColumns+`
		FROM residents
		WHERE org_id = $1 AND deleted_at IS NULL
		ORDER BY full_name
		LIMIT $2 OFFSET $3
	`, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}
	defer rows.Close()

	var residents []*resident.Resident
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resident: %w", err)
		}
		residents = append(residents, res)
	}

	return residents, nil
}
