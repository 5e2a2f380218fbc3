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
	"github.com/quartershq/quarters/internal/frontdesk"
)

// CheckInRequest represents visitor check-in data
type CheckInRequest struct {
	BuildingID string `json:"building_id" binding:"required"`
	UnitID     string `json:"unit_id"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Purpose    string `json:"purpose"`
}

// CheckInVisitor logs a visitor into a building
// @Summary Check In Visitor
// @Tags FrontDesk
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CheckInRequest true "Visitor Data"
// @Success 201 {object} frontdesk.Visit
// @Failure 400 {object} map[string]string
// @Router /visits [post]
func (h *Handler) CheckInVisitor(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var unitID *string
	if req.UnitID != "" {
		unitID = &req.UnitID
	}

	v, err := h.frontDeskService.CheckIn(r.Context(), GetOrgID(r.Context()), req.BuildingID,
		unitID, req.Name, req.Phone, req.Purpose, GetUserID(r.Context()))
	if err != nil {
		if err == frontdesk.ErrInvalidVisitorName {
			respondError(w, http.StatusBadRequest, "visitor name is required")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

// ListVisits lists visitor log entries
// @Summary List Visits
// @Tags FrontDesk
// @Produce json
// @Security CookieAuth
// @Param building_id query string false "Building filter"
// @Param open query boolean false "Only visitors still on site"
// @Success 200 {array} frontdesk.Visit
// @Router /visits [get]
func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	openOnly := r.URL.Query().Get("open") == "true"
	visits, err := h.frontDeskService.ListVisits(r.Context(), GetOrgID(r.Context()),
		r.URL.Query().Get("building_id"), openOnly, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list visits")
		return
	}
	respondJSON(w, http.StatusOK, visits)
}

// CheckOutVisitor stamps a visitor's departure
// @Summary Check Out Visitor
// @Tags FrontDesk
// @Produce json
// @Security CookieAuth
// @Param visitID path string true "Visit ID"
// @Success 200 {object} frontdesk.Visit
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /visits/{visitID}/checkout [post]
func (h *Handler) CheckOutVisitor(w http.ResponseWriter, r *http.Request) {
	v, err := h.frontDeskService.CheckOut(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "visitID"), GetUserID(r.Context()))
	if err != nil {
		switch err {
		case frontdesk.ErrVisitNotFound:
			respondError(w, http.StatusNotFound, "visit not found")
		case frontdesk.ErrAlreadyCheckedOut:
			respondError(w, http.StatusConflict, "visitor already checked out")
		default:
			respondError(w, http.StatusInternalServerError, "failed to check out visitor")
		}
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// RegisterVehicleRequest represents vehicle registration data
type RegisterVehicleRequest struct {
	ResidentID string `json:"resident_id" binding:"required"`
	Plate      string `json:"plate" binding:"required"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Color      string `json:"color"`
}

// RegisterVehicle registers a resident's vehicle
// @Summary Register Vehicle
// @Description Register a vehicle. Plates are normalized and unique per organization.
// @Tags FrontDesk
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RegisterVehicleRequest true "Vehicle Data"
// @Success 201 {object} frontdesk.Vehicle
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /vehicles [post]
func (h *Handler) RegisterVehicle(w http.ResponseWriter, r *http.Request) {
	var req RegisterVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.frontDeskService.RegisterVehicle(r.Context(), GetOrgID(r.Context()), req.ResidentID,
		req.Plate, req.Make, req.Model, req.Color)
	if err != nil {
		if err == frontdesk.ErrDuplicatePlate {
			respondError(w, http.StatusConflict, "plate already registered")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

// DeregisterVehicle removes a vehicle registration
// @Summary Deregister Vehicle
// @Tags FrontDesk
// @Produce json
// @Security CookieAuth
// @Param vehicleID path string true "Vehicle ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vehicles/{vehicleID} [delete]
func (h *Handler) DeregisterVehicle(w http.ResponseWriter, r *http.Request) {
	err := h.frontDeskService.DeregisterVehicle(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "vehicleID"))
	if err != nil {
		if err == frontdesk.ErrVehicleNotFound {
			respondError(w, http.StatusNotFound, "vehicle not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deregister vehicle")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "vehicle deregistered"})
}

// IssueViolationRequest represents a parking violation
type IssueViolationRequest struct {
	BuildingID string `json:"building_id" binding:"required"`
	Plate      string `json:"plate" binding:"required"`
	Reason     string `json:"reason"`
	FineCents  int64  `json:"fine_cents"`
}

// IssueViolation issues a parking violation against a plate
// @Summary Issue Violation
// @Description Issue a violation. If the plate is registered the violation links to the vehicle.
// @Tags FrontDesk
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body IssueViolationRequest true "Violation Data"
// @Success 201 {object} frontdesk.Violation
// @Failure 400 {object} map[string]string
// @Router /violations [post]
func (h *Handler) IssueViolation(w http.ResponseWriter, r *http.Request) {
	var req IssueViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.frontDeskService.IssueViolation(r.Context(), GetOrgID(r.Context()), req.BuildingID,
		req.Plate, req.Reason, req.FineCents, GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

// ListViolations lists parking violations
// @Summary List Violations
// @Tags FrontDesk
// @Produce json
// @Security CookieAuth
// @Param building_id query string false "Building filter"
// @Param status query string false "Status filter"
// @Success 200 {array} frontdesk.Violation
// @Router /violations [get]
func (h *Handler) ListViolations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	violations, err := h.frontDeskService.ListViolations(r.Context(), GetOrgID(r.Context()),
		r.URL.Query().Get("building_id"), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list violations")
		return
	}
	respondJSON(w, http.StatusOK, violations)
}

// SettleViolation marks a violation paid
// @Summary Settle Violation
// @Tags FrontDesk
// @Produce json
// @Security CookieAuth
// @Param violationID path string true "Violation ID"
// @Success 200 {object} frontdesk.Violation
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /violations/{violationID}/settle [post]
func (h *Handler) SettleViolation(w http.ResponseWriter, r *http.Request) {
	v, err := h.frontDeskService.SettleViolation(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "violationID"))
	if err != nil {
		h.respondViolationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// WaiveViolation waives a violation
// @Summary Waive Violation
// @Tags FrontDesk
// @Produce json
// @Security CookieAuth
// @Param violationID path string true "Violation ID"
// @Success 200 {object} frontdesk.Violation
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /violations/{violationID}/waive [post]
func (h *Handler) WaiveViolation(w http.ResponseWriter, r *http.Request) {
	v, err := h.frontDeskService.WaiveViolation(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "violationID"))
	if err != nil {
		h.respondViolationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *Handler) respondViolationError(w http.ResponseWriter, err error) {
	switch err {
	case frontdesk.ErrViolationNotFound:
		respondError(w, http.StatusNotFound, "violation not found")
	case frontdesk.ErrViolationClosed:
		respondError(w, http.StatusConflict, "violation already closed")
	default:
		respondError(w, http.StatusInternalServerError, "failed to update violation")
	}
}
