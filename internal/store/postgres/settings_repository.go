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

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quartershq/quarters/internal/settings"
)

// SettingsRepository implements settings.Repository. Provider configs are
// stored as a JSONB document.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Upsert creates or replaces the organization's settings row
func (r *SettingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	providers, err := json.Marshal(s.Providers)
	if err != nil {
		return fmt.Errorf("failed to marshal provider configs: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO org_settings (org_id, currency, default_late_fee_grace_days,
			default_late_fee_percent, default_payment_due_day, providers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (org_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			default_late_fee_grace_days = EXCLUDED.default_late_fee_grace_days,
			default_late_fee_percent = EXCLUDED.default_late_fee_percent,
			default_payment_due_day = EXCLUDED.default_payment_due_day,
			providers = EXCLUDED.providers,
			updated_at = EXCLUDED.updated_at
	`,
		s.OrgID, s.Currency, s.DefaultLateFeeGraceDays,
		s.DefaultLateFeePercent, s.DefaultPaymentDueDay, providers,
		s.CreatedAt, s.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}

// GetByOrg retrieves the organization's settings
func (r *SettingsRepository) GetByOrg(ctx context.Context, orgID string) (*settings.Settings, error) {
	var s settings.Settings
	var providers []byte

	err := r.db.pool.QueryRow(ctx, `
		SELECT org_id, currency, default_late_fee_grace_days,
			default_late_fee_percent, default_payment_due_day, providers,
			created_at, updated_at
		FROM org_settings
		WHERE org_id = $1
	`, orgID).Scan(
		&s.OrgID, &s.Currency, &s.DefaultLateFeeGraceDays,
		&s.DefaultLateFeePercent, &s.DefaultPaymentDueDay, &providers,
		&s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, settings.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if err := json.Unmarshal(providers, &s.Providers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider configs: %w", err)
	}

	return &s, nil
}
