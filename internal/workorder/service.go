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

package workorder

import (
	"context"
	"fmt"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/id"
	"github.com/quartershq/quarters/internal/rbac"
)

// Roles is the slice of the org service the work order service needs to
// verify assignees. A nil orgID checks platform-scoped grants.
type Roles interface {
	HasRole(ctx context.Context, orgID *string, userID, role string) (bool, error)
}

// Service provides maintenance business logic
type Service struct {
	orders      Repository
	complaints  ComplaintRepository
	roles       Roles
	auditLogger audit.Logger
}

// NewService creates a new work order service
func NewService(orders Repository, complaints ComplaintRepository, roles Roles, auditLogger audit.Logger) *Service {
	return &Service{
		orders:      orders,
		complaints:  complaints,
		roles:       roles,
		auditLogger: auditLogger,
	}
}

// CreateWorkOrder opens a maintenance task.
func (s *Service) CreateWorkOrder(ctx context.Context, orgID, buildingID string, unitID *string, title, description, priority, createdBy string) (*WorkOrder, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	now := time.Now()
	w := &WorkOrder{
		ID:          id.NewUUIDv7(),
		OrgID:       orgID,
		BuildingID:  buildingID,
		UnitID:      unitID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      StatusOpen,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orders.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}
	return w, nil
}

// GetWorkOrder retrieves a work order scoped to the organization.
func (s *Service) GetWorkOrder(ctx context.Context, orgID, workOrderID string) (*WorkOrder, error) {
	return s.orders.GetByID(ctx, orgID, workOrderID)
}

// ListWorkOrders returns work orders filtered by building and status, both
// optional.
func (s *Service) ListWorkOrders(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*WorkOrder, error) {
	return s.orders.List(ctx, orgID, buildingID, status, limit, offset)
}

// ListAssigned returns the work orders assigned to a technician.
func (s *Service) ListAssigned(ctx context.Context, orgID, assigneeID string) ([]*WorkOrder, error) {
	return s.orders.ListByAssignee(ctx, orgID, assigneeID)
}

// Assign hands an open work order to a technician. The assignee must hold
// the technician role in the organization.
func (s *Service) Assign(ctx context.Context, orgID, workOrderID, assigneeID, actorID string) (*WorkOrder, error) {
	w, err := s.orders.GetByID(ctx, orgID, workOrderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(w.Status, StatusAssigned) {
		return nil, ErrInvalidTransition
	}

	isTech, err := s.roles.HasRole(ctx, &orgID, assigneeID, rbac.RoleTechnician)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignee role: %w", err)
	}
	if !isTech {
		return nil, ErrAssigneeNotTech
	}

	w.Status = StatusAssigned
	w.AssigneeID = &assigneeID
	w.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to assign work order: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeWorkOrderAssigned,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: w.ID,
		Metadata: map[string]any{"assignee_id": assigneeID},
	})
	return w, nil
}

// Start moves an assigned work order to in progress.
func (s *Service) Start(ctx context.Context, orgID, workOrderID string) (*WorkOrder, error) {
	return s.transition(ctx, orgID, workOrderID, StatusInProgress)
}

// Complete closes a work order in progress and stamps completion time.
func (s *Service) Complete(ctx context.Context, orgID, workOrderID string) (*WorkOrder, error) {
	w, err := s.transition(ctx, orgID, workOrderID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	w.CompletedAt = &now
	if err := s.orders.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to stamp completion: %w", err)
	}
	return w, nil
}

// Cancel abandons a work order in any non-terminal status.
func (s *Service) Cancel(ctx context.Context, orgID, workOrderID string) (*WorkOrder, error) {
	return s.transition(ctx, orgID, workOrderID, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, orgID, workOrderID, to string) (*WorkOrder, error) {
	w, err := s.orders.GetByID(ctx, orgID, workOrderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(w.Status, to) {
		return nil, ErrInvalidTransition
	}
	if to == StatusInProgress && w.AssigneeID == nil {
		return nil, ErrWorkOrderUnassigned
	}
	w.Status = to
	w.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to update work order: %w", err)
	}
	return w, nil
}

// FileComplaint opens a resident-facing complaint.
func (s *Service) FileComplaint(ctx context.Context, orgID, buildingID string, unitID, residentID *string, category, subject, body string) (*Complaint, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	now := time.Now()
	c := &Complaint{
		ID:         id.NewUUIDv7(),
		OrgID:      orgID,
		BuildingID: buildingID,
		UnitID:     unitID,
		ResidentID: residentID,
		Category:   category,
		Subject:    subject,
		Body:       body,
		Status:     ComplaintOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to file complaint: %w", err)
	}
	return c, nil
}

// GetComplaint retrieves a complaint scoped to the organization.
func (s *Service) GetComplaint(ctx context.Context, orgID, complaintID string) (*Complaint, error) {
	return s.complaints.GetByID(ctx, orgID, complaintID)
}

// ListComplaints returns complaints filtered by building and status, both
// optional.
func (s *Service) ListComplaints(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*Complaint, error) {
	return s.complaints.List(ctx, orgID, buildingID, status, limit, offset)
}

// ReviewComplaint moves an open complaint into review.
func (s *Service) ReviewComplaint(ctx context.Context, orgID, complaintID string) (*Complaint, error) {
	return s.resolveStatus(ctx, orgID, complaintID, ComplaintOpen, ComplaintInReview, false)
}

// ResolveComplaint closes a complaint under review as resolved.
func (s *Service) ResolveComplaint(ctx context.Context, orgID, complaintID string) (*Complaint, error) {
	return s.resolveStatus(ctx, orgID, complaintID, ComplaintInReview, ComplaintResolved, true)
}

// DismissComplaint closes an open or in-review complaint without action.
func (s *Service) DismissComplaint(ctx context.Context, orgID, complaintID string) (*Complaint, error) {
	c, err := s.complaints.GetByID(ctx, orgID, complaintID)
	if err != nil {
		return nil, err
	}
	if c.Status != ComplaintOpen && c.Status != ComplaintInReview {
		return nil, ErrComplaintClosed
	}
	c.Status = ComplaintDismissed
	c.UpdatedAt = time.Now()
	if err := s.complaints.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to dismiss complaint: %w", err)
	}
	return c, nil
}

func (s *Service) resolveStatus(ctx context.Context, orgID, complaintID, from, to string, stampResolved bool) (*Complaint, error) {
	c, err := s.complaints.GetByID(ctx, orgID, complaintID)
	if err != nil {
		return nil, err
	}
	if c.Status != from {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	c.Status = to
	if stampResolved {
		c.ResolvedAt = &now
	}
	c.UpdatedAt = now
	if err := s.complaints.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}
	return c, nil
}

// Escalate turns a complaint into a work order and links the two. The
// complaint moves into review if still open. A complaint escalates at most
// once.
func (s *Service) Escalate(ctx context.Context, orgID, complaintID, priority, actorID string) (*WorkOrder, error) {
	c, err := s.complaints.GetByID(ctx, orgID, complaintID)
	if err != nil {
		return nil, err
	}
	if c.WorkOrderID != nil {
		return nil, ErrAlreadyEscalated
	}
	if c.Status != ComplaintOpen && c.Status != ComplaintInReview {
		return nil, ErrComplaintClosed
	}

	w, err := s.CreateWorkOrder(ctx, orgID, c.BuildingID, c.UnitID, c.Subject, c.Body, priority, actorID)
	if err != nil {
		return nil, err
	}
	w.ComplaintID = &c.ID
	if err := s.orders.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to link work order: %w", err)
	}

	c.WorkOrderID = &w.ID
	if c.Status == ComplaintOpen {
		c.Status = ComplaintInReview
	}
	c.UpdatedAt = time.Now()
	if err := s.complaints.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to link complaint: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeComplaintEscalated,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: c.ID,
		Metadata: map[string]any{"work_order_id": w.ID},
	})
	return w, nil
}
