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
	"github.com/quartershq/quarters/internal/building"
)

// CreateBuildingRequest represents building creation data
type CreateBuildingRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
	Floors  int    `json:"floors"`
}

// CreateBuilding creates a building
// @Summary Create Building
// @Description Register a new building in the organization
// @Tags Buildings
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateBuildingRequest true "Building Data"
// @Success 201 {object} building.Building
// @Failure 400 {object} map[string]string
// @Router /buildings [post]
func (h *Handler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req CreateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.buildingService.CreateBuilding(r.Context(), GetOrgID(r.Context()), req.Name, req.Address, req.City, req.Floors)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// ListBuildings lists the organization's buildings
// @Summary List Buildings
// @Tags Buildings
// @Produce json
// @Security CookieAuth
// @Success 200 {array} building.Building
// @Router /buildings [get]
func (h *Handler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	buildings, err := h.buildingService.ListBuildings(r.Context(), GetOrgID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list buildings")
		return
	}
	respondJSON(w, http.StatusOK, buildings)
}

// GetBuilding returns a single building
// @Summary Get Building
// @Tags Buildings
// @Produce json
// @Security CookieAuth
// @Param buildingID path string true "Building ID"
// @Success 200 {object} building.Building
// @Failure 404 {object} map[string]string
// @Router /buildings/{buildingID} [get]
func (h *Handler) GetBuilding(w http.ResponseWriter, r *http.Request) {
	b, err := h.buildingService.GetBuilding(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "buildingID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "building not found")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// UpdateBuildingRequest represents building update data
type UpdateBuildingRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

// UpdateBuilding updates a building's details
// @Summary Update Building
// @Tags Buildings
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param buildingID path string true "Building ID"
// @Param request body UpdateBuildingRequest true "Building Data"
// @Success 200 {object} building.Building
// @Failure 404 {object} map[string]string
// @Router /buildings/{buildingID} [put]
func (h *Handler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	var req UpdateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.buildingService.UpdateBuilding(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "buildingID"),
		req.Name, req.Address, req.City, req.Notes)
	if err != nil {
		if err == building.ErrBuildingNotFound {
			respondError(w, http.StatusNotFound, "building not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// BuildingOccupancy returns the occupancy summary for a building
// @Summary Building Occupancy
// @Description Aggregate unit status counts for a building
// @Tags Buildings
// @Produce json
// @Security CookieAuth
// @Param buildingID path string true "Building ID"
// @Success 200 {object} building.OccupancySummary
// @Failure 404 {object} map[string]string
// @Router /buildings/{buildingID}/occupancy [get]
func (h *Handler) BuildingOccupancy(w http.ResponseWriter, r *http.Request) {
	summary, err := h.buildingService.Occupancy(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "buildingID"))
	if err != nil {
		if err == building.ErrBuildingNotFound {
			respondError(w, http.StatusNotFound, "building not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to compute occupancy")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// CreateUnitRequest represents unit creation data
type CreateUnitRequest struct {
	Label           string  `json:"label" binding:"required"`
	Floor           int     `json:"floor"`
	Bedrooms        int     `json:"bedrooms"`
	Bathrooms       int     `json:"bathrooms"`
	AreaSqM         float64 `json:"area_sqm"`
	MarketRentCents int64   `json:"market_rent_cents"`
}

// CreateUnit adds a unit to a building
// @Summary Create Unit
// @Tags Buildings
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param buildingID path string true "Building ID"
// @Param request body CreateUnitRequest true "Unit Data"
// @Success 201 {object} building.Unit
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /buildings/{buildingID}/units [post]
func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.buildingService.CreateUnit(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "buildingID"),
		req.Label, req.Floor, req.Bedrooms, req.Bathrooms, req.AreaSqM, req.MarketRentCents)
	if err != nil {
		switch err {
		case building.ErrBuildingNotFound:
			respondError(w, http.StatusNotFound, "building not found")
		case building.ErrUnitLabelTaken:
			respondError(w, http.StatusConflict, "unit label already used in building")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

// ListUnits lists units in a building
// @Summary List Units
// @Tags Buildings
// @Produce json
// @Security CookieAuth
// @Param buildingID path string true "Building ID"
// @Success 200 {array} building.Unit
// @Router /buildings/{buildingID}/units [get]
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.buildingService.ListUnits(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "buildingID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list units")
		return
	}
	respondJSON(w, http.StatusOK, units)
}

// GetUnit returns a single unit
// @Summary Get Unit
// @Tags Units
// @Produce json
// @Security CookieAuth
// @Param unitID path string true "Unit ID"
// @Success 200 {object} building.Unit
// @Failure 404 {object} map[string]string
// @Router /units/{unitID} [get]
func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	u, err := h.buildingService.GetUnit(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "unitID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "unit not found")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// UpdateUnitRequest represents unit update data
type UpdateUnitRequest struct {
	Bedrooms        int     `json:"bedrooms"`
	Bathrooms       int     `json:"bathrooms"`
	AreaSqM         float64 `json:"area_sqm"`
	MarketRentCents int64   `json:"market_rent_cents"`
}

// UpdateUnit updates a unit's physical attributes and market rent
// @Summary Update Unit
// @Tags Units
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param unitID path string true "Unit ID"
// @Param request body UpdateUnitRequest true "Unit Data"
// @Success 200 {object} building.Unit
// @Failure 404 {object} map[string]string
// @Router /units/{unitID} [put]
func (h *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	var req UpdateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.buildingService.UpdateUnit(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "unitID"),
		req.Bedrooms, req.Bathrooms, req.AreaSqM, req.MarketRentCents)
	if err != nil {
		if err == building.ErrUnitNotFound {
			respondError(w, http.StatusNotFound, "unit not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// SetUnitStatusRequest represents a unit status change
type SetUnitStatusRequest struct {
	Status string `json:"status" binding:"required" example:"maintenance"`
}

// SetUnitStatus transitions a unit between vacant, reserved, occupied and maintenance
// @Summary Set Unit Status
// @Tags Units
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param unitID path string true "Unit ID"
// @Param request body SetUnitStatusRequest true "Status"
// @Success 200 {object} building.Unit
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /units/{unitID}/status [post]
func (h *Handler) SetUnitStatus(w http.ResponseWriter, r *http.Request) {
	var req SetUnitStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.buildingService.SetUnitStatus(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "unitID"), req.Status)
	if err != nil {
		switch err {
		case building.ErrUnitNotFound:
			respondError(w, http.StatusNotFound, "unit not found")
		case building.ErrUnknownUnitStatus, building.ErrInvalidTransition:
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update unit status")
		}
		return
	}
	respondJSON(w, http.StatusOK, u)
}
