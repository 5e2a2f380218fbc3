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
	"github.com/quartershq/quarters/internal/org"
)

// OrgRepository implements org.Repository
type OrgRepository struct {
	db *DB
}

// NewOrgRepository creates a new organization repository
func NewOrgRepository(db *DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// Create creates a new organization
func (r *OrgRepository) Create(ctx context.Context, o *org.Org) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO orgs (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, o.ID, o.Name, o.Status, o.CreatedAt, o.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by ID
func (r *OrgRepository) GetByID(ctx context.Context, id string) (*org.Org, error) {
	var o org.Org

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM orgs
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, org.ErrOrgNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &o, nil
}

// GetByName retrieves an organization by name
func (r *OrgRepository) GetByName(ctx context.Context, name string) (*org.Org, error) {
	var o org.Org

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM orgs
		WHERE name = $1
	`, name).Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, org.ErrOrgNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &o, nil
}

// Update updates an organization
func (r *OrgRepository) Update(ctx context.Context, o *org.Org) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE orgs SET name = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, o.ID, o.Name, o.Status, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return org.ErrOrgNotFound
	}

	return nil
}

// Delete deletes an organization
func (r *OrgRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM orgs WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return org.ErrOrgNotFound
	}

	return nil
}

// List retrieves organizations with pagination
func (r *OrgRepository) List(ctx context.Context, limit, offset int) ([]*org.Org, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM orgs
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*org.Org
	for rows.Next() {
		var o org.Org
		if err := rows.Scan(&o.ID, &o.Name, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &o)
	}

	return orgs, nil
}
