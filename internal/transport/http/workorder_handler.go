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

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quartershq/quarters/internal/workorder"
)

// CreateWorkOrderRequest represents work order creation data
type CreateWorkOrderRequest struct {
	BuildingID  string `json:"building_id" binding:"required"`
	UnitID      string `json:"unit_id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" example:"medium"`
}

// CreateWorkOrder opens a maintenance work order
// @Summary Create Work Order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateWorkOrderRequest true "Work Order Data"
// @Success 201 {object} workorder.WorkOrder
// @Failure 400 {object} map[string]string
// @Router /workorders [post]
func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var unitID *string
	if req.UnitID != "" {
		unitID = &req.UnitID
	}

	wo, err := h.workOrderService.CreateWorkOrder(r.Context(), GetOrgID(r.Context()), req.BuildingID,
		unitID, req.Title, req.Description, req.Priority, GetUserID(r.Context()))
	if err != nil {
		if err == workorder.ErrInvalidPriority {
			respondError(w, http.StatusBadRequest, "unknown priority")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, wo)
}

// ListWorkOrders lists work orders with optional building and status filters
// @Summary List Work Orders
// @Tags WorkOrders
// @Produce json
// @Security CookieAuth
// @Param building_id query string false "Building filter"
// @Param status query string false "Status filter"
// @Success 200 {array} workorder.WorkOrder
// @Router /workorders [get]
func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	orders, err := h.workOrderService.ListWorkOrders(r.Context(), GetOrgID(r.Context()),
		r.URL.Query().Get("building_id"), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list work orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// ListAssignedWorkOrders lists work orders assigned to the caller
// @Summary My Assigned Work Orders
// @Tags WorkOrders
// @Produce json
// @Security CookieAuth
// @Success 200 {array} workorder.WorkOrder
// @Router /workorders/assigned [get]
func (h *Handler) ListAssignedWorkOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.workOrderService.ListAssigned(r.Context(), GetOrgID(r.Context()), GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list work orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetWorkOrder returns a single work order
// @Summary Get Work Order
// @Tags WorkOrders
// @Produce json
// @Security CookieAuth
// @Param workOrderID path string true "Work Order ID"
// @Success 200 {object} workorder.WorkOrder
// @Failure 404 {object} map[string]string
// @Router /workorders/{workOrderID} [get]
func (h *Handler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.workOrderService.GetWorkOrder(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "workOrderID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "work order not found")
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// AssignWorkOrderRequest names the technician
type AssignWorkOrderRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

// AssignWorkOrder assigns a work order to a technician
// @Summary Assign Work Order
// @Description Assign a work order. The assignee must hold the technician role.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param workOrderID path string true "Work Order ID"
// @Param request body AssignWorkOrderRequest true "Assignee"
// @Success 200 {object} workorder.WorkOrder
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /workorders/{workOrderID}/assign [post]
func (h *Handler) AssignWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req AssignWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.workOrderService.Assign(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "workOrderID"),
		req.AssigneeID, GetUserID(r.Context()))
	if err != nil {
		h.respondWorkOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// StartWorkOrder moves an assigned work order to in progress
// @Summary Start Work Order
// @Tags WorkOrders
// @Produce json
// @Security CookieAuth
// @Param workOrderID path string true "Work Order ID"
// @Success 200 {object} workorder.WorkOrder
// @Failure 409 {object} map[string]string
// @Router /workorders/{workOrderID}/start [post]
func (h *Handler) StartWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.workOrderService.Start(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "workOrderID"))
	if err != nil {
		h.respondWorkOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// CompleteWorkOrder marks a work order completed
// @Summary Complete Work Order
// @Tags WorkOrders
// @Produce json
// @Security CookieAuth
// @Param workOrderID path string true "Work Order ID"
// @Success 200 {object} workorder.WorkOrder
// @Failure 409 {object} map[string]string
// @Router /workorders/{workOrderID}/complete [post]
func (h *Handler) CompleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.workOrderService.Complete(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "workOrderID"))
	if err != nil {
		h.respondWorkOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

// CancelWorkOrder cancels a work order
// @Summary Cancel Work Order
// @Tags WorkOrders
// @Produce json
// @Security CookieAuth
// @Param workOrderID path string true "Work Order ID"
// @Success 200 {object} workorder.WorkOrder
// @Failure 409 {object} map[string]string
// @Router /workorders/{workOrderID}/cancel [post]
func (h *Handler) CancelWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.workOrderService.Cancel(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "workOrderID"))
	if err != nil {
		h.respondWorkOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wo)
}

func (h *Handler) respondWorkOrderError(w http.ResponseWriter, err error) {
	switch err {
	case workorder.ErrWorkOrderNotFound:
		respondError(w, http.StatusNotFound, "work order not found")
	case workorder.ErrAssigneeNotTech:
		respondError(w, http.StatusBadRequest, "assignee does not hold the technician role")
	case workorder.ErrInvalidTransition:
		respondError(w, http.StatusConflict, "invalid status transition")
	case workorder.ErrWorkOrderUnassigned:
		respondError(w, http.StatusConflict, "work order has no assignee")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}

// FileComplaintRequest represents complaint filing data
type FileComplaintRequest struct {
	BuildingID string `json:"building_id" binding:"required"`
	UnitID     string `json:"unit_id"`
	ResidentID string `json:"resident_id"`
	Category   string `json:"category" example:"noise"`
	Subject    string `json:"subject" binding:"required"`
	Body       string `json:"body"`
}

// FileComplaint files a resident complaint
// @Summary File Complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body FileComplaintRequest true "Complaint Data"
// @Success 201 {object} workorder.Complaint
// @Failure 400 {object} map[string]string
// @Router /complaints [post]
func (h *Handler) FileComplaint(w http.ResponseWriter, r *http.Request) {
	var req FileComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var unitID, residentID *string
	if req.UnitID != "" {
		unitID = &req.UnitID
	}
	if req.ResidentID != "" {
		residentID = &req.ResidentID
	}

	c, err := h.workOrderService.FileComplaint(r.Context(), GetOrgID(r.Context()), req.BuildingID,
		unitID, residentID, req.Category, req.Subject, req.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// ListComplaints lists complaints with optional building and status filters
// @Summary List Complaints
// @Tags Complaints
// @Produce json
// @Security CookieAuth
// @Param building_id query string false "Building filter"
// @Param status query string false "Status filter"
// @Success 200 {array} workorder.Complaint
// @Router /complaints [get]
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	complaints, err := h.workOrderService.ListComplaints(r.Context(), GetOrgID(r.Context()),
		r.URL.Query().Get("building_id"), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list complaints")
		return
	}
	respondJSON(w, http.StatusOK, complaints)
}

// GetComplaint returns a single complaint
// @Summary Get Complaint
// @Tags Complaints
// @Produce json
// @Security CookieAuth
// @Param complaintID path string true "Complaint ID"
// @Success 200 {object} workorder.Complaint
// @Failure 404 {object} map[string]string
// @Router /complaints/{complaintID} [get]
func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := h.workOrderService.GetComplaint(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "complaintID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "complaint not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ReviewComplaint moves a complaint into review
// @Summary Review Complaint
// @Tags Complaints
// @Produce json
// @Security CookieAuth
// @Param complaintID path string true "Complaint ID"
// @Success 200 {object} workorder.Complaint
// @Failure 409 {object} map[string]string
// @Router /complaints/{complaintID}/review [post]
func (h *Handler) ReviewComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := h.workOrderService.ReviewComplaint(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "complaintID"))
	if err != nil {
		h.respondComplaintError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ResolveComplaint resolves a complaint
// @Summary Resolve Complaint
// @Tags Complaints
// @Produce json
// @Security CookieAuth
// @Param complaintID path string true "Complaint ID"
// @Success 200 {object} workorder.Complaint
// @Failure 409 {object} map[string]string
// @Router /complaints/{complaintID}/resolve [post]
func (h *Handler) ResolveComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := h.workOrderService.ResolveComplaint(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "complaintID"))
	if err != nil {
		h.respondComplaintError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DismissComplaint dismisses a complaint
// @Summary Dismiss Complaint
// @Tags Complaints
// @Produce json
// @Security CookieAuth
// @Param complaintID path string true "Complaint ID"
// @Success 200 {object} workorder.Complaint
// @Failure 409 {object} map[string]string
// @Router /complaints/{complaintID}/dismiss [post]
func (h *Handler) DismissComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := h.workOrderService.DismissComplaint(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "complaintID"))
	if err != nil {
		h.respondComplaintError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// EscalateComplaintRequest sets the escalation priority
type EscalateComplaintRequest struct {
	Priority string `json:"priority" example:"high"`
}

// EscalateComplaint escalates a complaint into a linked work order
// @Summary Escalate Complaint
// @Description Create a work order from a complaint. A complaint escalates at most once.
// @Tags Complaints
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param complaintID path string true "Complaint ID"
// @Param request body EscalateComplaintRequest true "Escalation Priority"
// @Success 201 {object} workorder.WorkOrder
// @Failure 409 {object} map[string]string
// @Router /complaints/{complaintID}/escalate [post]
func (h *Handler) EscalateComplaint(w http.ResponseWriter, r *http.Request) {
	var req EscalateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.workOrderService.Escalate(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "complaintID"),
		req.Priority, GetUserID(r.Context()))
	if err != nil {
		h.respondComplaintError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, wo)
}

func (h *Handler) respondComplaintError(w http.ResponseWriter, err error) {
	switch err {
	case workorder.ErrComplaintNotFound:
		respondError(w, http.StatusNotFound, "complaint not found")
	case workorder.ErrAlreadyEscalated:
		respondError(w, http.StatusConflict, "complaint already escalated")
	case workorder.ErrComplaintClosed:
		respondError(w, http.StatusConflict, "complaint is closed")
	case workorder.ErrInvalidTransition:
		respondError(w, http.StatusConflict, "invalid status transition")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
