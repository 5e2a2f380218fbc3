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
	"github.com/quartershq/quarters/internal/resident"
)

// ResidentRequest represents resident create and update data
type ResidentRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	IDNumber       string `json:"id_number"`
	EmergencyName  string `json:"emergency_name"`
	EmergencyPhone string `json:"emergency_phone"`
	Notes          string `json:"notes"`
}

func (req *ResidentRequest) toResident(orgID string) *resident.Resident {
	return &resident.Resident{
		OrgID:          orgID,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		IDNumber:       req.IDNumber,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
		Notes:          req.Notes,
	}
}

// CreateResident registers a resident
// @Summary Create Resident
// @Tags Residents
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ResidentRequest true "Resident Data"
// @Success 201 {object} resident.Resident
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /residents [post]
func (h *Handler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var req ResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.residentService.Create(r.Context(), req.toResident(GetOrgID(r.Context())))
	if err != nil {
		if err == resident.ErrDuplicateResident {
			respondError(w, http.StatusConflict, "resident with this email already exists")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

// ListResidents lists the organization's residents
// @Summary List Residents
// @Tags Residents
// @Produce json
// @Security CookieAuth
// @Success 200 {array} resident.Resident
// @Router /residents [get]
func (h *Handler) ListResidents(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	residents, err := h.residentService.List(r.Context(), GetOrgID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list residents")
		return
	}
	respondJSON(w, http.StatusOK, residents)
}

// GetResident returns a single resident
// @Summary Get Resident
// @Tags Residents
// @Produce json
// @Security CookieAuth
// @Param residentID path string true "Resident ID"
// @Success 200 {object} resident.Resident
// @Failure 404 {object} map[string]string
// @Router /residents/{residentID} [get]
func (h *Handler) GetResident(w http.ResponseWriter, r *http.Request) {
	res, err := h.residentService.Get(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "residentID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "resident not found")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// UpdateResident updates resident details
// @Summary Update Resident
// @Tags Residents
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param residentID path string true "Resident ID"
// @Param request body ResidentRequest true "Resident Data"
// @Success 200 {object} resident.Resident
// @Failure 404 {object} map[string]string
// @Router /residents/{residentID} [put]
func (h *Handler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	var req ResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orgID := GetOrgID(r.Context())
	res, err := h.residentService.Update(r.Context(), orgID, chi.URLParam(r, "residentID"), req.toResident(orgID))
	if err != nil {
		if err == resident.ErrResidentNotFound {
			respondError(w, http.StatusNotFound, "resident not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// DeleteResident soft-deletes a resident without an open lease
// @Summary Delete Resident
// @Tags Residents
// @Produce json
// @Security CookieAuth
// @Param residentID path string true "Resident ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /residents/{residentID} [delete]
func (h *Handler) DeleteResident(w http.ResponseWriter, r *http.Request) {
	err := h.residentService.Delete(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "residentID"))
	if err != nil {
		switch err {
		case resident.ErrResidentNotFound:
			respondError(w, http.StatusNotFound, "resident not found")
		case resident.ErrResidentHasLease:
			respondError(w, http.StatusConflict, "resident has an open lease")
		default:
			respondError(w, http.StatusInternalServerError, "failed to delete resident")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "resident deleted"})
}

// LinkUserRequest represents a portal account link
type LinkUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// LinkResidentUser links a portal user account to a resident record
// @Summary Link Portal Account
// @Tags Residents
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param residentID path string true "Resident ID"
// @Param request body LinkUserRequest true "User Link"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /residents/{residentID}/link-user [post]
func (h *Handler) LinkResidentUser(w http.ResponseWriter, r *http.Request) {
	var req LinkUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.residentService.LinkUser(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "residentID"), req.UserID)
	if err != nil {
		if err == resident.ErrResidentNotFound {
			respondError(w, http.StatusNotFound, "resident not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "portal account linked"})
}

// ListResidentLeases lists a resident's leases
// @Summary List Resident Leases
// @Tags Residents
// @Produce json
// @Security CookieAuth
// @Param residentID path string true "Resident ID"
// @Success 200 {array} lease.Lease
// @Router /residents/{residentID}/leases [get]
func (h *Handler) ListResidentLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := h.leaseService.ListByResident(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "residentID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list leases")
		return
	}
	respondJSON(w, http.StatusOK, leases)
}

// ListResidentVehicles lists a resident's registered vehicles
// @Summary List Resident Vehicles
// @Tags Residents
// @Produce json
// @Security CookieAuth
// @Param residentID path string true "Resident ID"
// @Success 200 {array} frontdesk.Vehicle
// @Router /residents/{residentID}/vehicles [get]
func (h *Handler) ListResidentVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.frontDeskService.ResidentVehicles(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "residentID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}
