package settings

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrInvalidCurrency  = errors.New("unknown currency code")
	ErrInvalidLateFee   = errors.New("late fee percent must be between 0 and 100")
	ErrUnknownProvider  = errors.New("unknown payment provider")
)

// Supported currency codes
const (
	CurrencyETB = "ETB"
	CurrencyUSD = "USD"
)

// ProviderConfig holds an organization's credentials for one payment
// gateway. The webhook secret signs incoming payment notifications.
type ProviderConfig struct {
	Enabled       bool   `json:"enabled"`
	PublicKey     string `json:"public_key,omitempty"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// Settings carries per-organization billing defaults and gateway
// configuration. New leases inherit the late fee defaults.
type Settings struct {
	OrgID                   string                    `json:"org_id"`
	Currency                string                    `json:"currency"`
	DefaultLateFeeGraceDays int                       `json:"default_late_fee_grace_days"`
	DefaultLateFeePercent   float64                   `json:"default_late_fee_percent"`
	DefaultPaymentDueDay    int                       `json:"default_payment_due_day"`
	Providers               map[string]ProviderConfig `json:"providers"`
	CreatedAt               time.Time                 `json:"created_at"`
	UpdatedAt               time.Time                 `json:"updated_at"`
}

// Defaults returns the settings a new organization starts with.
func Defaults(orgID string) *Settings {
	now := time.Now()
	return &Settings{
		OrgID:                   orgID,
		Currency:                CurrencyETB,
		DefaultLateFeeGraceDays: 5,
		DefaultLateFeePercent:   0,
		DefaultPaymentDueDay:    1,
		Providers:               map[string]ProviderConfig{},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// ValidCurrency reports whether code is a supported currency.
func ValidCurrency(code string) bool {
	return code == CurrencyETB || code == CurrencyUSD
}

// Repository defines the interface for settings storage
type Repository interface {
	// Upsert creates or replaces the organization's settings row.
	Upsert(ctx context.Context, s *Settings) error
	GetByOrg(ctx context.Context, orgID string) (*Settings, error)
}
