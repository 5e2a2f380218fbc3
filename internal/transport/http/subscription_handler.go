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
	"github.com/quartershq/quarters/internal/subscription"
)

// CreatePlanRequest represents plan creation data
type CreatePlanRequest struct {
	Name               string   `json:"name" binding:"required"`
	Tier               string   `json:"tier" example:"standard"`
	Cycle              string   `json:"cycle" example:"monthly"`
	BasePriceCents     int64    `json:"base_price_cents"`
	DiscountPercent    *float64 `json:"discount_percent,omitempty"`
	DiscountFixedCents *int64   `json:"discount_fixed_cents,omitempty"`
	MaxBuildings       int      `json:"max_buildings"`
	MaxUnits           int      `json:"max_units"`
}

// CreatePlan creates a subscription plan
// @Summary Create Plan
// @Description Create a subscription plan (platform admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreatePlanRequest true "Plan Data"
// @Success 201 {object} subscription.Plan
// @Failure 400 {object} map[string]string
// @Router /admin/plans [post]
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := h.subscriptionService.CreatePlan(r.Context(), req.Name, req.Tier, req.Cycle,
		req.BasePriceCents, req.DiscountPercent, req.DiscountFixedCents, req.MaxBuildings, req.MaxUnits)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

// RetirePlan retires a plan from sale
// @Summary Retire Plan
// @Description Retire a plan. Existing subscriptions keep their terms (platform admin only).
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Param planID path string true "Plan ID"
// @Success 200 {object} subscription.Plan
// @Failure 404 {object} map[string]string
// @Router /admin/plans/{planID}/retire [post]
func (h *Handler) RetirePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.subscriptionService.RetirePlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		if err == subscription.ErrPlanNotFound {
			respondError(w, http.StatusNotFound, "plan not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to retire plan")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// ListPlans lists plans available for subscription
// @Summary List Plans
// @Tags Subscription
// @Produce json
// @Security CookieAuth
// @Success 200 {array} subscription.Plan
// @Router /plans [get]
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subscriptionService.ListPlans(r.Context(), true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	respondJSON(w, http.StatusOK, plans)
}

// RevenueSummary reports platform subscription revenue
// @Summary Revenue Summary
// @Description Active subscription count, MRR and ARR (platform admin only)
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {object} subscription.Revenue
// @Router /admin/revenue [get]
func (h *Handler) RevenueSummary(w http.ResponseWriter, r *http.Request) {
	rev, err := h.subscriptionService.RevenueSummary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute revenue")
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

// SubscribeRequest selects a plan
type SubscribeRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// Subscribe starts a subscription for the caller's organization
// @Summary Subscribe
// @Tags Subscription
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body SubscribeRequest true "Plan Selection"
// @Success 201 {object} subscription.Subscription
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /subscription [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.subscriptionService.Subscribe(r.Context(), GetOrgID(r.Context()), req.PlanID, GetUserID(r.Context()))
	if err != nil {
		h.respondSubscriptionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// ChangeSubscriptionPlan moves the organization to another plan
// @Summary Change Plan
// @Tags Subscription
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body SubscribeRequest true "Plan Selection"
// @Success 200 {object} subscription.Subscription
// @Failure 400 {object} map[string]string
// @Router /subscription [put]
func (h *Handler) ChangeSubscriptionPlan(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.subscriptionService.ChangePlan(r.Context(), GetOrgID(r.Context()), req.PlanID, GetUserID(r.Context()))
	if err != nil {
		h.respondSubscriptionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// CancelSubscription cancels the organization's active subscription
// @Summary Cancel Subscription
// @Tags Subscription
// @Produce json
// @Security CookieAuth
// @Success 200 {object} subscription.Subscription
// @Failure 404 {object} map[string]string
// @Router /subscription [delete]
func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscriptionService.Cancel(r.Context(), GetOrgID(r.Context()), GetUserID(r.Context()))
	if err != nil {
		h.respondSubscriptionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// CurrentSubscription returns the organization's active subscription
// @Summary Current Subscription
// @Tags Subscription
// @Produce json
// @Security CookieAuth
// @Success 200 {object} subscription.Subscription
// @Failure 404 {object} map[string]string
// @Router /subscription [get]
func (h *Handler) CurrentSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscriptionService.Current(r.Context(), GetOrgID(r.Context()))
	if err != nil {
		if err == subscription.ErrNotSubscribed || err == subscription.ErrSubscriptionNotFound {
			respondError(w, http.StatusNotFound, "no active subscription")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (h *Handler) respondSubscriptionError(w http.ResponseWriter, err error) {
	switch err {
	case subscription.ErrPlanNotFound:
		respondError(w, http.StatusNotFound, "plan not found")
	case subscription.ErrPlanInactive:
		respondError(w, http.StatusConflict, "plan is not active")
	case subscription.ErrAlreadySubscribed:
		respondError(w, http.StatusConflict, "organization already has an active subscription")
	case subscription.ErrNotSubscribed, subscription.ErrSubscriptionNotFound:
		respondError(w, http.StatusNotFound, "no active subscription")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
