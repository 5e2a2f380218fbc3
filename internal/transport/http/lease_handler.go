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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quartershq/quarters/internal/lease"
)

const dateLayout = "2006-01-02"

// CreateLeaseRequest represents lease creation data
type CreateLeaseRequest struct {
	UnitID           string  `json:"unit_id" binding:"required"`
	ResidentID       string  `json:"resident_id" binding:"required"`
	StartDate        string  `json:"start_date" example:"2026-09-01"`
	EndDate          string  `json:"end_date" example:"2027-08-31"`
	RentSource       string  `json:"rent_source" example:"unit_default"`
	RentCents        int64   `json:"rent_cents"`
	BillingCycle     string  `json:"billing_cycle" example:"monthly"`
	PaymentDueDay    int     `json:"payment_due_day" example:"1"`
	LateFeeGraceDays int     `json:"late_fee_grace_days" example:"5"`
	LateFeePercent   float64 `json:"late_fee_percent" example:"2.5"`
	TermsVersion     string  `json:"terms_version"`
}

// CreateLease drafts a pending lease and reserves the unit
// @Summary Create Lease
// @Tags Leases
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateLeaseRequest true "Lease Data"
// @Success 201 {object} lease.Lease
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /leases [post]
func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
		return
	}

	l, err := h.leaseService.Create(r.Context(), lease.CreateRequest{
		OrgID:            GetOrgID(r.Context()),
		UnitID:           req.UnitID,
		ResidentID:       req.ResidentID,
		StartDate:        start,
		EndDate:          end,
		RentSource:       req.RentSource,
		RentCents:        req.RentCents,
		BillingCycle:     req.BillingCycle,
		PaymentDueDay:    req.PaymentDueDay,
		LateFeeGraceDays: req.LateFeeGraceDays,
		LateFeePercent:   req.LateFeePercent,
		TermsVersion:     req.TermsVersion,
	}, GetUserID(r.Context()))
	if err != nil {
		switch err {
		case lease.ErrUnitUnavailable:
			respondError(w, http.StatusConflict, "unit already has an open lease")
		case lease.ErrUnitInMaintenance:
			respondError(w, http.StatusConflict, "unit is under maintenance")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusCreated, l)
}

// ListLeases lists leases, optionally filtered by status
// @Summary List Leases
// @Tags Leases
// @Produce json
// @Security CookieAuth
// @Param status query string false "Lease status filter"
// @Success 200 {array} lease.Lease
// @Router /leases [get]
func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	leases, err := h.leaseService.List(r.Context(), GetOrgID(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list leases")
		return
	}
	respondJSON(w, http.StatusOK, leases)
}

// GetLease returns a single lease
// @Summary Get Lease
// @Tags Leases
// @Produce json
// @Security CookieAuth
// @Param leaseID path string true "Lease ID"
// @Success 200 {object} lease.Lease
// @Failure 404 {object} map[string]string
// @Router /leases/{leaseID} [get]
func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	l, err := h.leaseService.Get(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "leaseID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "lease not found")
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// AcceptTermsRequest records the accepted terms version
type AcceptTermsRequest struct {
	Version string `json:"version" binding:"required"`
}

// AcceptLeaseTerms records acceptance of the lease terms
// @Summary Accept Lease Terms
// @Tags Leases
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param leaseID path string true "Lease ID"
// @Param request body AcceptTermsRequest true "Terms Version"
// @Success 200 {object} lease.Lease
// @Failure 400 {object} map[string]string
// @Router /leases/{leaseID}/accept-terms [post]
func (h *Handler) AcceptLeaseTerms(w http.ResponseWriter, r *http.Request) {
	var req AcceptTermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.leaseService.AcceptTerms(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "leaseID"), req.Version)
	if err != nil {
		h.respondLeaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// ActivateLease moves an accepted pending lease to active and occupies the unit
// @Summary Activate Lease
// @Tags Leases
// @Produce json
// @Security CookieAuth
// @Param leaseID path string true "Lease ID"
// @Success 200 {object} lease.Lease
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /leases/{leaseID}/activate [post]
func (h *Handler) ActivateLease(w http.ResponseWriter, r *http.Request) {
	l, err := h.leaseService.Activate(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "leaseID"), GetUserID(r.Context()))
	if err != nil {
		h.respondLeaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// TerminateLeaseRequest carries the termination reason
type TerminateLeaseRequest struct {
	Reason string `json:"reason"`
}

// TerminateLease ends an active lease early and frees the unit
// @Summary Terminate Lease
// @Tags Leases
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param leaseID path string true "Lease ID"
// @Param request body TerminateLeaseRequest true "Termination Reason"
// @Success 200 {object} lease.Lease
// @Failure 400 {object} map[string]string
// @Router /leases/{leaseID}/terminate [post]
func (h *Handler) TerminateLease(w http.ResponseWriter, r *http.Request) {
	var req TerminateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.leaseService.Terminate(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "leaseID"), req.Reason, GetUserID(r.Context()))
	if err != nil {
		h.respondLeaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// RenewLeaseRequest carries the renewal term
type RenewLeaseRequest struct {
	StartDate string `json:"start_date" example:"2027-09-01"`
	EndDate   string `json:"end_date" example:"2028-08-31"`
}

// RenewLease drafts a pending successor lease on the same unit and resident
// @Summary Renew Lease
// @Tags Leases
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param leaseID path string true "Lease ID"
// @Param request body RenewLeaseRequest true "Renewal Term"
// @Success 201 {object} lease.Lease
// @Failure 400 {object} map[string]string
// @Router /leases/{leaseID}/renew [post]
func (h *Handler) RenewLease(w http.ResponseWriter, r *http.Request) {
	var req RenewLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
		return
	}

	l, err := h.leaseService.Renew(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "leaseID"), start, end, GetUserID(r.Context()))
	if err != nil {
		h.respondLeaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, l)
}

// ListLeaseInvoices lists the invoices generated for a lease
// @Summary List Lease Invoices
// @Tags Leases
// @Produce json
// @Security CookieAuth
// @Param leaseID path string true "Lease ID"
// @Success 200 {array} billing.Invoice
// @Router /leases/{leaseID}/invoices [get]
func (h *Handler) ListLeaseInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.billingService.ListInvoicesByLease(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "leaseID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *Handler) respondLeaseError(w http.ResponseWriter, err error) {
	switch err {
	case lease.ErrLeaseNotFound:
		respondError(w, http.StatusNotFound, "lease not found")
	case lease.ErrTermsNotAccepted:
		respondError(w, http.StatusConflict, "lease terms have not been accepted")
	case lease.ErrInvalidTransition:
		respondError(w, http.StatusConflict, "invalid lease status transition")
	case lease.ErrUnitUnavailable:
		respondError(w, http.StatusConflict, "unit already has an open lease")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
