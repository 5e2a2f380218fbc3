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

	"github.com/quartershq/quarters/internal/settings"
)

// GetSettings returns the organization's billing and provider settings
// @Summary Get Settings
// @Tags Settings
// @Produce json
// @Security CookieAuth
// @Success 200 {object} settings.Settings
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.settingsService.Get(r.Context(), GetOrgID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, redactSettings(st))
}

// UpdateSettingsRequest carries partial settings updates
type UpdateSettingsRequest struct {
	Currency                *string                             `json:"currency,omitempty"`
	DefaultLateFeeGraceDays *int                                `json:"default_late_fee_grace_days,omitempty"`
	DefaultLateFeePercent   *float64                            `json:"default_late_fee_percent,omitempty"`
	DefaultPaymentDueDay    *int                                `json:"default_payment_due_day,omitempty"`
	Providers               map[string]settings.ProviderConfig `json:"providers,omitempty"`
}

// UpdateSettings updates the organization's settings
// @Summary Update Settings
// @Description Update currency, late fee defaults and payment provider configuration
// @Tags Settings
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdateSettingsRequest true "Settings"
// @Success 200 {object} settings.Settings
// @Failure 400 {object} map[string]string
// @Router /settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.settingsService.Update(r.Context(), GetOrgID(r.Context()), settings.UpdateRequest{
		Currency:                req.Currency,
		DefaultLateFeeGraceDays: req.DefaultLateFeeGraceDays,
		DefaultLateFeePercent:   req.DefaultLateFeePercent,
		DefaultPaymentDueDay:    req.DefaultPaymentDueDay,
		Providers:               req.Providers,
	}, GetUserID(r.Context()))
	if err != nil {
		switch err {
		case settings.ErrInvalidCurrency:
			respondError(w, http.StatusBadRequest, "unknown currency code")
		case settings.ErrInvalidLateFee:
			respondError(w, http.StatusBadRequest, "late fee percent must be between 0 and 100")
		case settings.ErrUnknownProvider:
			respondError(w, http.StatusBadRequest, "unknown payment provider")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respondJSON(w, http.StatusOK, redactSettings(st))
}

// redactSettings blanks webhook secrets before the settings leave the API.
func redactSettings(st *settings.Settings) *settings.Settings {
	out := *st
	out.Providers = make(map[string]settings.ProviderConfig, len(st.Providers))
	for name, cfg := range st.Providers {
		cfg.WebhookSecret = ""
		out.Providers[name] = cfg
	}
	return &out
}
