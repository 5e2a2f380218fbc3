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
	"github.com/quartershq/quarters/internal/billing"
)

// ListInvoices lists invoices, optionally filtered by status
// @Summary List Invoices
// @Tags Billing
// @Produce json
// @Security CookieAuth
// @Param status query string false "Invoice status filter"
// @Success 200 {array} billing.Invoice
// @Router /invoices [get]
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	invoices, err := h.billingService.ListInvoices(r.Context(), GetOrgID(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// GetInvoice returns a single invoice
// @Summary Get Invoice
// @Tags Billing
// @Produce json
// @Security CookieAuth
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} billing.Invoice
// @Failure 404 {object} map[string]string
// @Router /invoices/{invoiceID} [get]
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.billingService.GetInvoice(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "invoiceID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "invoice not found")
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// VoidInvoiceRequest carries the void reason
type VoidInvoiceRequest struct {
	Reason string `json:"reason"`
}

// VoidInvoice voids an open or overdue invoice
// @Summary Void Invoice
// @Tags Billing
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param invoiceID path string true "Invoice ID"
// @Param request body VoidInvoiceRequest true "Void Reason"
// @Success 200 {object} billing.Invoice
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /invoices/{invoiceID}/void [post]
func (h *Handler) VoidInvoice(w http.ResponseWriter, r *http.Request) {
	var req VoidInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.billingService.VoidInvoice(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "invoiceID"), req.Reason, GetUserID(r.Context()))
	if err != nil {
		switch err {
		case billing.ErrInvoiceNotFound:
			respondError(w, http.StatusNotFound, "invoice not found")
		case billing.ErrInvoiceClosed:
			respondError(w, http.StatusConflict, "invoice is not open")
		default:
			respondError(w, http.StatusInternalServerError, "failed to void invoice")
		}
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// RecordPaymentRequest represents a manually recorded payment
type RecordPaymentRequest struct {
	Provider    string `json:"provider" binding:"required" example:"cash"`
	Reference   string `json:"reference"`
	AmountCents int64  `json:"amount_cents" binding:"required"`
	InvoiceID   string `json:"invoice_id"`
	PaidAt      string `json:"paid_at" example:"2026-08-25T10:30:00Z"`
}

// RecordPayment records a cash or bank transfer payment
// @Summary Record Payment
// @Description Record a manual payment. Provider-initiated payments arrive through webhooks instead.
// @Tags Billing
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RecordPaymentRequest true "Payment Data"
// @Success 201 {object} billing.Payment
// @Failure 400 {object} map[string]string
// @Router /payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.PaidAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid paid_at, expected RFC 3339")
			return
		}
		paidAt = parsed
	}

	var invoiceID *string
	if req.InvoiceID != "" {
		invoiceID = &req.InvoiceID
	}

	p, err := h.billingService.RecordPayment(r.Context(), GetOrgID(r.Context()), req.Provider, req.Reference,
		req.AmountCents, invoiceID, paidAt, GetUserID(r.Context()))
	if err != nil {
		switch err {
		case billing.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "amount must be positive")
		case billing.ErrUnknownProvider:
			respondError(w, http.StatusBadRequest, "unknown payment provider")
		case billing.ErrInvoiceNotFound:
			respondError(w, http.StatusNotFound, "invoice not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to record payment")
		}
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// ListPayments lists the organization's payments
// @Summary List Payments
// @Tags Billing
// @Produce json
// @Security CookieAuth
// @Success 200 {array} billing.Payment
// @Router /payments [get]
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	payments, err := h.billingService.ListPayments(r.Context(), GetOrgID(r.Context()), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

// GetPayment returns a single payment
// @Summary Get Payment
// @Tags Billing
// @Produce json
// @Security CookieAuth
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} billing.Payment
// @Failure 404 {object} map[string]string
// @Router /payments/{paymentID} [get]
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.billingService.GetPayment(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "paymentID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "payment not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ReconcilePaymentRequest links a payment to an invoice
type ReconcilePaymentRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
}

// ReconcilePayment applies a payment to an invoice
// @Summary Reconcile Payment
// @Description Link a payment to an invoice. The invoice closes once reconciled payments cover its total.
// @Tags Billing
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param paymentID path string true "Payment ID"
// @Param request body ReconcilePaymentRequest true "Invoice Link"
// @Success 200 {object} billing.Invoice
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /payments/{paymentID}/reconcile [post]
func (h *Handler) ReconcilePayment(w http.ResponseWriter, r *http.Request) {
	var req ReconcilePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.billingService.Reconcile(r.Context(), GetOrgID(r.Context()), chi.URLParam(r, "paymentID"), req.InvoiceID, GetUserID(r.Context()))
	if err != nil {
		switch err {
		case billing.ErrPaymentNotFound:
			respondError(w, http.StatusNotFound, "payment not found")
		case billing.ErrInvoiceNotFound:
			respondError(w, http.StatusNotFound, "invoice not found")
		case billing.ErrAlreadyReconciled:
			respondError(w, http.StatusConflict, "payment already reconciled")
		case billing.ErrInvoiceClosed:
			respondError(w, http.StatusConflict, "invoice is not open")
		default:
			respondError(w, http.StatusInternalServerError, "failed to reconcile payment")
		}
		return
	}
	respondJSON(w, http.StatusOK, inv)
}
