package workorder

import (
	"context"
	"errors"
	"time"
)

var (
	ErrWorkOrderNotFound   = errors.New("work order not found")
	ErrComplaintNotFound   = errors.New("complaint not found")
	ErrInvalidPriority     = errors.New("unknown priority")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAssigneeNotTech     = errors.New("assignee does not hold the technician role")
	ErrAlreadyEscalated    = errors.New("complaint already escalated")
	ErrComplaintClosed     = errors.New("complaint is closed")
	ErrWorkOrderUnassigned = errors.New("work order has no assignee")
)

// Work order status constants
const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Complaint status constants
const (
	ComplaintOpen      = "open"
	ComplaintInReview  = "in_review"
	ComplaintResolved  = "resolved"
	ComplaintDismissed = "dismissed"
)

// WorkOrder is a maintenance task against a building or a specific unit.
type WorkOrder struct {
	ID          string     `json:"id"`
	OrgID       string     `json:"org_id"`
	BuildingID  string     `json:"building_id"`
	UnitID      *string    `json:"unit_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	ComplaintID *string    `json:"complaint_id,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Complaint is a resident-facing issue report. It may be escalated into a
// work order, after which the two stay linked.
type Complaint struct {
	ID          string     `json:"id"`
	OrgID       string     `json:"org_id"`
	BuildingID  string     `json:"building_id"`
	UnitID      *string    `json:"unit_id,omitempty"`
	ResidentID  *string    `json:"resident_id,omitempty"`
	Category    string     `json:"category"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body,omitempty"`
	Status      string     `json:"status"`
	WorkOrderID *string    `json:"work_order_id,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Repository defines the interface for work order storage
type Repository interface {
	Create(ctx context.Context, w *WorkOrder) error
	GetByID(ctx context.Context, orgID, id string) (*WorkOrder, error)
	Update(ctx context.Context, w *WorkOrder) error
	List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*WorkOrder, error)
	ListByAssignee(ctx context.Context, orgID, assigneeID string) ([]*WorkOrder, error)
}

// ComplaintRepository defines the interface for complaint storage
type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, orgID, id string) (*Complaint, error)
	Update(ctx context.Context, c *Complaint) error
	List(ctx context.Context, orgID, buildingID, status string, limit, offset int) ([]*Complaint, error)
}

var validTransitions = map[string][]string{
	StatusOpen:       {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusOpen, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a work order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
