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
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quartershq/quarters/internal/billing"
	"github.com/quartershq/quarters/internal/observability/logger"
)

// Webhook bodies are small JSON notifications; anything larger is abuse.
const maxWebhookBody = 64 << 10

// PaymentWebhook ingests a payment notification from an external provider
// @Summary Payment Webhook
// @Description Receive a signed payment notification. Authentication is the HMAC signature, not a session.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param provider path string true "Payment Provider"
// @Param X-Webhook-Signature header string true "Hex-encoded HMAC-SHA256 of the body"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /webhooks/{orgID}/{provider} [post]
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	provider := chi.URLParam(r, "provider")
	signature := r.Header.Get("X-Webhook-Signature")

	if !billing.WebhookProvider(provider) {
		respondError(w, http.StatusNotFound, "unknown payment provider")
		return
	}

	cfg, err := h.settingsService.ProviderFor(r.Context(), orgID, provider)
	if err != nil {
		if err == billing.ErrProviderDisabled {
			respondError(w, http.StatusNotFound, "provider not enabled for organization")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to resolve provider")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	payment, err := h.billingService.IngestWebhook(r.Context(), orgID, provider, cfg.WebhookSecret, body, signature)
	if err != nil {
		switch err {
		case billing.ErrSignatureMismatch:
			slog.WarnContext(r.Context(), "webhook signature mismatch",
				logger.OrgID(orgID),
				logger.Provider(provider),
				logger.RemoteAddr(r.RemoteAddr),
			)
			respondError(w, http.StatusUnauthorized, "signature mismatch")
		case billing.ErrMalformedSignature:
			respondError(w, http.StatusBadRequest, "malformed signature")
		case billing.ErrInvoiceNotFound:
			respondError(w, http.StatusNotFound, "invoice not found")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"payment_id": payment.ID,
		"reference":  payment.Reference,
	})
}
