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
	"errors"
	"testing"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/billing"
)

// MockSettingsRepository is an in-memory settings store that counts reads
type MockSettingsRepository struct {
	settings map[string]*Settings
	reads    int
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{settings: make(map[string]*Settings)}
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, s *Settings) error {
	cp := *s
	m.settings[s.OrgID] = &cp
	return nil
}

func (m *MockSettingsRepository) GetByOrg(ctx context.Context, orgID string) (*Settings, error) {
	m.reads++
	s, ok := m.settings[orgID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

// MockCache is a map-backed cache that ignores TTLs
type MockCache struct {
	entries map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (m *MockCache) Ping(ctx context.Context) error { return nil }

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

type settingsAuditLogger struct{ events []audit.Event }

func (l *settingsAuditLogger) Log(ctx context.Context, event audit.Event) {
	l.events = append(l.events, event)
}

func strPtr(v string) *string   { return &v }
func intPtr(v int) *int         { return &v }
func fltPtr(v float64) *float64 { return &v }

// TestPurpose: Verify organizations without saved settings get defaults.
// Scope: Unit Test
// Expected: ETB currency, due day 1 and an empty provider map.
// Test Case ID: SET-01
func TestGetDefaults(t *testing.T) {
	repo := NewMockSettingsRepository()
	svc := NewService(repo, NewMockCache(), &settingsAuditLogger{})

	st, err := svc.Get(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if st.Currency != CurrencyETB {
		t.Errorf("expected default currency ETB, got %s", st.Currency)
	}
	if st.DefaultPaymentDueDay != 1 {
		t.Errorf("expected default due day 1, got %d", st.DefaultPaymentDueDay)
	}
	if len(st.Providers) != 0 {
		t.Errorf("expected no providers by default, got %d", len(st.Providers))
	}
}

// TestPurpose: Verify settings reads go through the cache after the first
// store hit.
// Scope: Unit Test
// Expected: A second Get does not touch the repository; an update
// invalidates the cached entry.
// Test Case ID: SET-02
func TestGetCachesSettings(t *testing.T) {
	repo := NewMockSettingsRepository()
	c := NewMockCache()
	svc := NewService(repo, c, &settingsAuditLogger{})
	ctx := context.Background()

	svc.Get(ctx, "org-1")
	svc.Get(ctx, "org-1")
	if repo.reads != 1 {
		t.Errorf("expected one store read, got %d", repo.reads)
	}

	if _, err := svc.Update(ctx, "org-1", UpdateRequest{Currency: strPtr(CurrencyUSD)}, "actor-1"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	st, _ := svc.Get(ctx, "org-1")
	if st.Currency != CurrencyUSD {
		t.Errorf("expected USD after update, got %s", st.Currency)
	}
}

// TestPurpose: Verify settings updates validate currency, late fee range,
// due day range and provider names.
// Scope: Unit Test
// Expected: Each invalid field is rejected with its error and nothing is
// saved.
// Test Case ID: SET-03
func TestUpdateValidation(t *testing.T) {
	repo := NewMockSettingsRepository()
	svc := NewService(repo, NewMockCache(), &settingsAuditLogger{})
	ctx := context.Background()

	if _, err := svc.Update(ctx, "org-1", UpdateRequest{Currency: strPtr("EUR")}, "actor-1"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency, got %v", err)
	}
	if _, err := svc.Update(ctx, "org-1", UpdateRequest{DefaultLateFeePercent: fltPtr(150)}, "actor-1"); !errors.Is(err, ErrInvalidLateFee) {
		t.Errorf("expected ErrInvalidLateFee, got %v", err)
	}
	if _, err := svc.Update(ctx, "org-1", UpdateRequest{DefaultLateFeeGraceDays: intPtr(-1)}, "actor-1"); !errors.Is(err, ErrInvalidLateFee) {
		t.Errorf("expected ErrInvalidLateFee for negative grace, got %v", err)
	}
	if _, err := svc.Update(ctx, "org-1", UpdateRequest{DefaultPaymentDueDay: intPtr(31)}, "actor-1"); err == nil {
		t.Error("expected error for due day past 28")
	}
	if _, err := svc.Update(ctx, "org-1", UpdateRequest{
		Providers: map[string]ProviderConfig{"paypal": {Enabled: true}},
	}, "actor-1"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}

	if len(repo.settings) != 0 {
		t.Error("expected nothing persisted after failed updates")
	}
}

// TestPurpose: Verify partial updates keep untouched fields and merge
// provider configurations.
// Scope: Unit Test
// Expected: Setting the late fee leaves the currency alone; a second
// provider adds to the map instead of replacing it.
// Test Case ID: SET-04
func TestUpdateMergesProviders(t *testing.T) {
	repo := NewMockSettingsRepository()
	svc := NewService(repo, NewMockCache(), &settingsAuditLogger{})
	ctx := context.Background()

	_, err := svc.Update(ctx, "org-1", UpdateRequest{
		DefaultLateFeePercent: fltPtr(2.5),
		Providers: map[string]ProviderConfig{
			billing.ProviderChapa: {Enabled: true, WebhookSecret: "s1"},
		},
	}, "actor-1")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	st, err := svc.Update(ctx, "org-1", UpdateRequest{
		Providers: map[string]ProviderConfig{
			billing.ProviderTelebirr: {Enabled: true, WebhookSecret: "s2"},
		},
	}, "actor-1")
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	if st.Currency != CurrencyETB {
		t.Errorf("expected currency untouched, got %s", st.Currency)
	}
	if st.DefaultLateFeePercent != 2.5 {
		t.Errorf("expected late fee kept, got %v", st.DefaultLateFeePercent)
	}
	if len(st.Providers) != 2 {
		t.Errorf("expected both providers configured, got %d", len(st.Providers))
	}
}

// TestPurpose: Verify provider lookup for the webhook path only returns
// enabled providers.
// Scope: Unit Test
// Security: A disabled or unconfigured gateway must not accept payment
// notifications.
// Expected: Enabled provider returns its config; disabled and missing
// providers fail with billing.ErrProviderDisabled.
// Test Case ID: SET-05
func TestProviderFor(t *testing.T) {
	repo := NewMockSettingsRepository()
	svc := NewService(repo, NewMockCache(), &settingsAuditLogger{})
	ctx := context.Background()

	_, err := svc.Update(ctx, "org-1", UpdateRequest{
		Providers: map[string]ProviderConfig{
			billing.ProviderChapa:    {Enabled: true, WebhookSecret: "hook"},
			billing.ProviderTelebirr: {Enabled: false, WebhookSecret: "off"},
		},
	}, "actor-1")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	cfg, err := svc.ProviderFor(ctx, "org-1", billing.ProviderChapa)
	if err != nil {
		t.Fatalf("expected enabled provider, got %v", err)
	}
	if cfg.WebhookSecret != "hook" {
		t.Errorf("expected webhook secret, got %q", cfg.WebhookSecret)
	}

	if _, err := svc.ProviderFor(ctx, "org-1", billing.ProviderTelebirr); !errors.Is(err, billing.ErrProviderDisabled) {
		t.Errorf("expected ErrProviderDisabled for disabled provider, got %v", err)
	}
	if _, err := svc.ProviderFor(ctx, "org-1", billing.ProviderCBEBirr); !errors.Is(err, billing.ErrProviderDisabled) {
		t.Errorf("expected ErrProviderDisabled for missing provider, got %v", err)
	}
}
