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
	"github.com/quartershq/quarters/internal/org"
)

// MemberRoleRepository implements org.RoleRepository
type MemberRoleRepository struct {
	db *DB
}

// NewMemberRoleRepository creates a new member role repository
func NewMemberRoleRepository(db *DB) *MemberRoleRepository {
	return &MemberRoleRepository{db: db}
}

// Grant assigns a role to a user. A nil OrgID grants a platform-scoped role.
func (r *MemberRoleRepository) Grant(ctx context.Context, role *org.MemberRole) error {
	role.GrantedAt = time.Now()

	var grantedBy sql.NullString
	if role.GrantedBy != "" {
		grantedBy = sql.NullString{String: role.GrantedBy, Valid: true}
	}

	result, err := r.db.pool.Exec(ctx, `
		INSERT INTO member_roles (id, org_id, user_id, role, granted_at, granted_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (org_id, user_id, role) DO NOTHING
	`, role.ID, role.OrgID, role.UserID, role.Role, role.GrantedAt, grantedBy)

	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return org.ErrRoleAlreadyExists
	}

	return nil
}

// Revoke removes a role assignment
func (r *MemberRoleRepository) Revoke(ctx context.Context, orgID *string, userID, role string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM member_roles
		WHERE org_id IS NOT DISTINCT FROM $1 AND user_id = $2 AND role = $3
	`, orgID, userID, role)

	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return org.ErrRoleNotFound
	}

	return nil
}

// ListForUser retrieves all role assignments a user holds, across
// organizations and at platform scope.
func (r *MemberRoleRepository) ListForUser(ctx context.Context, userID string) ([]*org.MemberRole, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, org_id, user_id, role, granted_at, granted_by
		FROM member_roles
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	defer rows.Close()

	return scanMemberRoles(rows)
}

// ListForOrg retrieves all role assignments within an organization
func (r *MemberRoleRepository) ListForOrg(ctx context.Context, orgID string) ([]*org.MemberRole, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, org_id, user_id, role, granted_at, granted_by
		FROM member_roles
		WHERE org_id = $1
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization roles: %w", err)
	}
	defer rows.Close()

	return scanMemberRoles(rows)
}

// HasRole reports whether the user holds the role at the given scope
func (r *MemberRoleRepository) HasRole(ctx context.Context, orgID *string, userID, role string) (bool, error) {
	var exists bool
	err := r.db.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM member_roles
			WHERE org_id IS NOT DISTINCT FROM $1 AND user_id = $2 AND role = $3
		)
	`, orgID, userID, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return exists, nil
}

func scanMemberRoles(rows pgx.Rows) ([]*org.MemberRole, error) {
	var roles []*org.MemberRole
	for rows.Next() {
		var role org.MemberRole
		var grantedBy sql.NullString
		if err := rows.Scan(&role.ID, &role.OrgID, &role.UserID, &role.Role, &role.GrantedAt, &grantedBy); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if grantedBy.Valid {
			role.GrantedBy = grantedBy.String
		}
		roles = append(roles, &role)
	}
	return roles, nil
}
