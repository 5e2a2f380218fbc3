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
	"github.com/quartershq/quarters/internal/workorder"
)

// WorkOrderRepository implements workorder.Repository
type WorkOrderRepository struct {
	db *DB
}

// NewWorkOrderRepository creates a new work order repository
func NewWorkOrderRepository(db *DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

const workOrderColumns = `id, org_id, building_id, unit_id, title, description,
		priority, status, assignee_id, complaint_id, created_by, completed_at,
		created_at, updated_at`

func scanWorkOrder(row pgx.Row) (*workorder.WorkOrder, error) {
	var w workorder.WorkOrder
	var unitID, assigneeID, complaintID sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&w.ID, &w.OrgID, &w.BuildingID, &unitID, &w.Title, &w.Description,
		&w.Priority, &w.Status, &assigneeID, &complaintID, &w.CreatedBy, &completedAt,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		w.UnitID = &unitID.String
	}
	if assigneeID.Valid {
		w.AssigneeID = &assigneeID.String
	}
	if complaintID.Valid {
		w.ComplaintID = &complaintID.String
	}
	if completedAt.Valid {
		w.CompletedAt = &completedAt.Time
	}
	return &w, nil
}

// Create creates a new work order
func (r *WorkOrderRepository) Create(ctx context.Context, w *workorder.WorkOrder) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO work_orders (id, org_id, building_id, unit_id, title, description,
			priority, status, assignee_id, complaint_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		w.ID, w.OrgID, w.BuildingID, w.UnitID, w.Title, w.Description,
		w.Priority, w.Status, w.AssigneeID, w.ComplaintID, w.CreatedBy,
		w.CreatedAt, w.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert work order: %w", err)
	}

	return nil
}

// GetByID retrieves a work order scoped to the organization
func (r *WorkOrderRepository) GetByID(ctx context.Context, orgID, id string) (*workorder.WorkOrder, error) {
	w, err := scanWorkOrder(r.db.pool.QueryRow(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, workorder.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return w, nil
}

// Update updates a work order
func (r *WorkOrderRepository) Update(ctx context.Context, w *workorder.WorkOrder) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE work_orders SET status = $3, assignee_id = $4, complaint_id = $5,
			priority = $6, completed_at = $7, updated_at = $8
		WHERE org_id = $1 AND id = $2
	`, w.OrgID, w.ID, w.Status, w.AssigneeID, w.ComplaintID, w.Priority, w.CompletedAt, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return workorder.ErrWorkOrderNotFound
	}

	return nil
}

// List retrieves work orders filtered by building and status, both optional
func (r *WorkOrderRepository) List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*workorder.WorkOrder, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders
		WHERE org_id = $1
			AND ($2 = '' OR building_id::text = $2)
			AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, orgID, buildingID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	return collectWorkOrders(rows)
}

// ListByAssignee retrieves the work orders assigned to a technician
func (r *WorkOrderRepository) ListByAssignee(ctx context.Context, orgID, assigneeID string) ([]*workorder.WorkOrder, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+workOrderColumns+`
		FROM work_orders
		WHERE org_id = $1 AND assignee_id = $2
		ORDER BY created_at DESC
	`, orgID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned work orders: %w", err)
	}
	defer rows.Close()

	return collectWorkOrders(rows)
}

func collectWorkOrders(rows pgx.Rows) ([]*workorder.WorkOrder, error) {
	var orders []*workorder.WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		orders = append(orders, w)
	}
	return orders, nil
}

// ComplaintRepository implements workorder.ComplaintRepository
type ComplaintRepository struct {
	db *DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `id, org_id, building_id, unit_id, resident_id, category,
		subject, body, status, work_order_id, resolved_at, created_at, updated_at`

func scanComplaint(row pgx.Row) (*workorder.Complaint, error) {
	var c workorder.Complaint
	var unitID, residentID, workOrderID sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.OrgID, &c.BuildingID, &unitID, &residentID, &c.Category,
		&c.Subject, &c.Body, &c.Status, &workOrderID, &resolvedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if unitID.Valid {
		c.UnitID = &unitID.String
	}
	if residentID.Valid {
		c.ResidentID = &residentID.String
	}
	if workOrderID.Valid {
		c.WorkOrderID = &workOrderID.String
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}
	return &c, nil
}

// Create creates a new complaint
func (r *ComplaintRepository) Create(ctx context.Context, c *workorder.Complaint) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO complaints (id, org_id, building_id, unit_id, resident_id, category,
			subject, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		c.ID, c.OrgID, c.BuildingID, c.UnitID, c.ResidentID, c.Category,
		c.Subject, c.Body, c.Status, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}

	return nil
}

// GetByID retrieves a complaint scoped to the organization
func (r *ComplaintRepository) GetByID(ctx context.Context, orgID, id string) (*workorder.Complaint, error) {
	c, err := scanComplaint(r.db.pool.QueryRow(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE org_id = $1 AND id = $2
	`, orgID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, workorder.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return c, nil
}

// Update updates a complaint
func (r *ComplaintRepository) Update(ctx context.Context, c *workorder.Complaint) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE complaints SET status = $3, work_order_id = $4, resolved_at = $5, updated_at = $6
		WHERE org_id = $1 AND id = $2
	`, c.OrgID, c.ID, c.Status, c.WorkOrderID, c.ResolvedAt, time.Now())

	if err != nil {
		return fmt.Errorf("failed to update complaint: %w", err)
	}

	if result.RowsAffected() == 0 {
		return workorder.ErrComplaintNotFound
	}

	return nil
}

// List retrieves complaints filtered by building and status, both optional
func (r *ComplaintRepository) List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*workorder.Complaint, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE org_id = $1
			AND ($2 = '' OR building_id::text = $2)
			AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, orgID, buildingID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*workorder.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}

	return complaints, nil
}
