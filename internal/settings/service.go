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

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/billing"
	"github.com/quartershq/quarters/internal/cache"
	"github.com/quartershq/quarters/internal/observability/logger"
)

const cacheTTL = 5 * time.Minute

// UpdateRequest carries the mutable settings fields. Nil pointers leave the
// current value in place.
type UpdateRequest struct {
	Currency                *string
	DefaultLateFeeGraceDays *int
	DefaultLateFeePercent   *float64
	DefaultPaymentDueDay    *int
	Providers               map[string]ProviderConfig
}

// Service provides per-organization settings with a cache in front of the
// store. Settings sit on the webhook hot path, every incoming payment
// notification reads the provider secret.
type Service struct {
	repo        Repository
	cache       cache.Cache
	auditLogger audit.Logger
}

// NewService creates a new settings service
func NewService(repo Repository, c cache.Cache, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		cache:       c,
		auditLogger: auditLogger,
	}
}

// Get returns the organization's settings, falling back to defaults when
// none were saved yet.
func (s *Service) Get(ctx context.Context, orgID string) (*Settings, error) {
	key := cache.SettingsKey(orgID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var st Settings
		if err := json.Unmarshal(raw, &st); err == nil {
			return &st, nil
		}
	}

	st, err := s.repo.GetByOrg(ctx, orgID)
	if errors.Is(err, ErrSettingsNotFound) {
		st = Defaults(orgID)
	} else if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(st); err == nil {
		if err := s.cache.Set(ctx, key, raw, cacheTTL); err != nil {
			slog.WarnContext(ctx, "failed to cache settings", logger.Error(err))
		}
	}
	return st, nil
}

// Update applies the non-nil fields of req and invalidates the cache.
func (s *Service) Update(ctx context.Context, orgID string, req UpdateRequest, actorID string) (*Settings, error) {
	st, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Currency != nil {
		if !ValidCurrency(*req.Currency) {
			return nil, ErrInvalidCurrency
		}
		st.Currency = *req.Currency
	}
	if req.DefaultLateFeeGraceDays != nil {
		if *req.DefaultLateFeeGraceDays < 0 {
			return nil, ErrInvalidLateFee
		}
		st.DefaultLateFeeGraceDays = *req.DefaultLateFeeGraceDays
	}
	if req.DefaultLateFeePercent != nil {
		if *req.DefaultLateFeePercent < 0 || *req.DefaultLateFeePercent > 100 {
			return nil, ErrInvalidLateFee
		}
		st.DefaultLateFeePercent = *req.DefaultLateFeePercent
	}
	if req.DefaultPaymentDueDay != nil {
		if *req.DefaultPaymentDueDay < 1 || *req.DefaultPaymentDueDay > 28 {
			return nil, fmt.Errorf("payment due day must be between 1 and 28")
		}
		st.DefaultPaymentDueDay = *req.DefaultPaymentDueDay
	}
	for name, cfg := range req.Providers {
		if !billing.WebhookProvider(name) {
			return nil, ErrUnknownProvider
		}
		if st.Providers == nil {
			st.Providers = map[string]ProviderConfig{}
		}
		st.Providers[name] = cfg
	}

	st.UpdatedAt = time.Now()
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	if err := s.cache.Delete(ctx, cache.SettingsKey(orgID)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate settings cache", logger.Error(err))
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSettingsUpdated,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: orgID,
	})
	return st, nil
}

// ProviderFor returns the gateway configuration for a provider, or
// billing.ErrProviderDisabled when it is missing or disabled.
func (s *Service) ProviderFor(ctx context.Context, orgID, provider string) (*ProviderConfig, error) {
	st, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	cfg, ok := st.Providers[provider]
	if !ok || !cfg.Enabled {
		return nil, billing.ErrProviderDisabled
	}
	return &cfg, nil
}
