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

package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// WebhookPayload is the provider-agnostic shape of a payment notification.
// Provider adapters at the transport layer map each gateway's fields onto it
// before ingestion.
type WebhookPayload struct {
	Reference   string  `json:"reference"`
	AmountCents int64   `json:"amount_cents"`
	InvoiceID   *string `json:"invoice_id,omitempty"`
	PaidAt      string  `json:"paid_at,omitempty"` // RFC 3339
}

// VerifySignature checks an HMAC-SHA256 hex signature over the raw request
// body. Comparison is constant time.
func VerifySignature(secret string, body []byte, signature string) error {
	want, err := hex.DecodeString(signature)
	if err != nil || len(want) != sha256.Size {
		return ErrMalformedSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), want) {
		return ErrSignatureMismatch
	}
	return nil
}

// IngestWebhook verifies the signature, parses the payload and records the
// payment. Redelivered notifications are deduplicated by provider reference,
// so a gateway retry returns the original payment instead of a double entry.
func (s *Service) IngestWebhook(ctx context.Context, orgID, provider, secret string, body []byte, signature string) (*Payment, error) {
	if !WebhookProvider(provider) {
		return nil, ErrUnknownProvider
	}
	if err := VerifySignature(secret, body, signature); err != nil {
		return nil, err
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if payload.Reference == "" {
		return nil, fmt.Errorf("webhook payload missing reference")
	}

	if existing, err := s.payments.GetByReference(ctx, orgID, provider, payload.Reference); err == nil {
		return existing, nil
	}

	paidAt := time.Time{}
	if payload.PaidAt != "" {
		t, err := time.Parse(time.RFC3339, payload.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse paid_at: %w", err)
		}
		paidAt = t
	}

	return s.RecordPayment(ctx, orgID, provider, payload.Reference, payload.AmountCents, payload.InvoiceID, paidAt, "")
}
