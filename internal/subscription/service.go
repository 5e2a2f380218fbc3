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

package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/id"
	"github.com/quartershq/quarters/internal/observability/logger"
)

// Revenue summarizes recurring revenue across active subscriptions.
type Revenue struct {
	ActiveSubscriptions int   `json:"active_subscriptions"`
	MRRCents            int64 `json:"mrr_cents"`
	ARRCents            int64 `json:"arr_cents"`
}

// Service provides subscription business logic
type Service struct {
	plans       PlanRepository
	subs        Repository
	auditLogger audit.Logger
}

// NewService creates a new subscription service
func NewService(plans PlanRepository, subs Repository, auditLogger audit.Logger) *Service {
	return &Service{
		plans:       plans,
		subs:        subs,
		auditLogger: auditLogger,
	}
}

// CreatePlan validates and creates a subscription plan.
func (s *Service) CreatePlan(ctx context.Context, name, tier, cycle string, basePriceCents int64, percent *float64, fixedCents *int64, maxBuildings, maxUnits int) (*Plan, error) {
	if CycleMonths(cycle) == 0 {
		return nil, fmt.Errorf("unknown plan cycle %q", cycle)
	}
	if err := ValidateDiscount(basePriceCents, percent, fixedCents); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Plan{
		ID:                 id.NewUUIDv7(),
		Name:               name,
		Tier:               tier,
		Cycle:              cycle,
		BasePriceCents:     basePriceCents,
		DiscountPercent:    percent,
		DiscountFixedCents: fixedCents,
		MaxBuildings:       maxBuildings,
		MaxUnits:           maxUnits,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.plans.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return p, nil
}

// GetPlan retrieves a plan by ID.
func (s *Service) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	return s.plans.GetByID(ctx, planID)
}

// ListPlans returns plans, optionally only those open for signup.
func (s *Service) ListPlans(ctx context.Context, activeOnly bool) ([]*Plan, error) {
	return s.plans.List(ctx, activeOnly)
}

// RetirePlan closes a plan to new signups. Existing subscriptions keep it.
func (s *Service) RetirePlan(ctx context.Context, planID string) (*Plan, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return p, nil
	}
	now := time.Now()
	p.Active = false
	p.RetiredAt = &now
	p.UpdatedAt = now
	if err := s.plans.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to retire plan: %w", err)
	}
	return p, nil
}

// Subscribe starts a subscription on an active plan. One active subscription
// per organization.
func (s *Service) Subscribe(ctx context.Context, orgID, planID, actorID string) (*Subscription, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrPlanInactive
	}
	if _, err := s.subs.GetActiveByOrg(ctx, orgID); err == nil {
		return nil, ErrAlreadySubscribed
	}

	now := time.Now()
	sub := &Subscription{
		ID:        id.NewUUIDv7(),
		OrgID:     orgID,
		PlanID:    planID,
		Status:    StatusActive,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	slog.Info("organization subscribed",
		logger.OrgID(orgID),
		logger.String("plan_id", planID))
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSubscriptionChange,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: sub.ID,
		Metadata: map[string]any{"plan_id": planID, "action": "subscribe"},
	})
	return sub, nil
}

// ChangePlan moves the organization's active subscription to another active
// plan, effective immediately.
func (s *Service) ChangePlan(ctx context.Context, orgID, planID, actorID string) (*Subscription, error) {
	sub, err := s.subs.GetActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, ErrNotSubscribed
	}
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrPlanInactive
	}

	sub.PlanID = planID
	sub.UpdatedAt = time.Now()
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to change plan: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSubscriptionChange,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: sub.ID,
		Metadata: map[string]any{"plan_id": planID, "action": "change_plan"},
	})
	return sub, nil
}

// Cancel ends the organization's active subscription.
func (s *Service) Cancel(ctx context.Context, orgID, actorID string) (*Subscription, error) {
	sub, err := s.subs.GetActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, ErrNotSubscribed
	}

	now := time.Now()
	sub.Status = StatusCancelled
	sub.CancelledAt = &now
	sub.UpdatedAt = now
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSubscriptionChange,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: sub.ID,
		Metadata: map[string]any{"action": "cancel"},
	})
	return sub, nil
}

// Current returns the organization's active subscription.
func (s *Service) Current(ctx context.Context, orgID string) (*Subscription, error) {
	return s.subs.GetActiveByOrg(ctx, orgID)
}

// RevenueSummary computes MRR across active subscriptions, normalizing
// annual plans to their monthly equivalent. ARR is twelve times MRR.
func (s *Service) RevenueSummary(ctx context.Context) (*Revenue, error) {
	subs, err := s.subs.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	var mrr int64
	for _, sub := range subs {
		p, err := s.plans.GetByID(ctx, sub.PlanID)
		if err != nil {
			slog.Warn("revenue summary skipped subscription with missing plan",
				logger.String("subscription_id", sub.ID),
				logger.Error(err))
			continue
		}
		mrr += p.MonthlyPriceCents()
	}
	return &Revenue{
		ActiveSubscriptions: len(subs),
		MRRCents:            mrr,
		ARRCents:            mrr * 12,
	}, nil
}
