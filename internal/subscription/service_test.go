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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quartershq/quarters/internal/audit"
)

// MockPlanRepository mocks PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, p *Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockPlanRepository) Update(ctx context.Context, p *Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]*Plan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Plan), args.Error(1)
}

// MockSubscriptionRepository mocks Repository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, s *Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetActiveByOrg(ctx context.Context, orgID string) (*Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListActive(ctx context.Context) ([]*Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Subscription), args.Error(1)
}

type subscriptionAuditLogger struct{ events []audit.Event }

func (l *subscriptionAuditLogger) Log(ctx context.Context, event audit.Event) {
	l.events = append(l.events, event)
}

// TestPurpose: Verify subscribing creates an active subscription with a
// UUIDv7 identifier on an active plan.
// Scope: Unit Test
// Expected: Subscription stored as active; the repository receives a
// version 7 UUID.
// Test Case ID: SUB-04
func TestSubscribe(t *testing.T) {
	plans := new(MockPlanRepository)
	subs := new(MockSubscriptionRepository)
	svc := NewService(plans, subs, &subscriptionAuditLogger{})
	ctx := context.Background()

	plans.On("GetByID", ctx, "plan-1").Return(&Plan{ID: "plan-1", Active: true}, nil)
	subs.On("GetActiveByOrg", ctx, "org-1").Return(nil, ErrSubscriptionNotFound)
	subs.On("Create", ctx, mock.MatchedBy(func(s *Subscription) bool {
		parsed, err := uuid.Parse(s.ID)
		return err == nil && parsed.Version() == 7 &&
			s.OrgID == "org-1" && s.PlanID == "plan-1" && s.Status == StatusActive
	})).Return(nil)

	sub, err := svc.Subscribe(ctx, "org-1", "plan-1", "actor-1")
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	subs.AssertExpectations(t)
}

// TestPurpose: Verify one active subscription per organization and that
// retired plans reject signups.
// Scope: Unit Test
// Expected: ErrAlreadySubscribed for a second signup; ErrPlanInactive for a
// retired plan.
// Test Case ID: SUB-05
func TestSubscribeRejections(t *testing.T) {
	plans := new(MockPlanRepository)
	subs := new(MockSubscriptionRepository)
	svc := NewService(plans, subs, &subscriptionAuditLogger{})
	ctx := context.Background()

	plans.On("GetByID", ctx, "plan-active").Return(&Plan{ID: "plan-active", Active: true}, nil)
	plans.On("GetByID", ctx, "plan-retired").Return(&Plan{ID: "plan-retired", Active: false}, nil)
	subs.On("GetActiveByOrg", ctx, "org-1").Return(&Subscription{ID: "sub-1", OrgID: "org-1", Status: StatusActive}, nil)

	_, err := svc.Subscribe(ctx, "org-1", "plan-active", "actor-1")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	_, err = svc.Subscribe(ctx, "org-1", "plan-retired", "actor-1")
	assert.ErrorIs(t, err, ErrPlanInactive)

	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestPurpose: Verify cancelling stamps the subscription cancelled and a
// second cancel fails.
// Scope: Unit Test
// Expected: Status moves to cancelled with a timestamp; cancel without an
// active subscription returns ErrNotSubscribed.
// Test Case ID: SUB-06
func TestCancelSubscription(t *testing.T) {
	plans := new(MockPlanRepository)
	subs := new(MockSubscriptionRepository)
	svc := NewService(plans, subs, &subscriptionAuditLogger{})
	ctx := context.Background()

	active := &Subscription{ID: "sub-1", OrgID: "org-1", PlanID: "plan-1", Status: StatusActive}
	subs.On("GetActiveByOrg", ctx, "org-1").Return(active, nil).Once()
	subs.On("Update", ctx, mock.MatchedBy(func(s *Subscription) bool {
		return s.Status == StatusCancelled && s.CancelledAt != nil
	})).Return(nil)

	sub, err := svc.Cancel(ctx, "org-1", "actor-1")
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, sub.Status)

	subs.On("GetActiveByOrg", ctx, "org-1").Return(nil, ErrSubscriptionNotFound)
	_, err = svc.Cancel(ctx, "org-1", "actor-1")
	assert.ErrorIs(t, err, ErrNotSubscribed)
}

// TestPurpose: Verify the revenue rollup normalizes annual plans to monthly
// and skips subscriptions whose plan is gone.
// Scope: Unit Test
// Expected: MRR sums monthly-equivalent prices, ARR is twelve times MRR,
// and the count includes every active subscription.
// Test Case ID: SUB-07
func TestRevenueSummary(t *testing.T) {
	plans := new(MockPlanRepository)
	subs := new(MockSubscriptionRepository)
	svc := NewService(plans, subs, &subscriptionAuditLogger{})
	ctx := context.Background()

	subs.On("ListActive", ctx).Return([]*Subscription{
		{ID: "s1", PlanID: "plan-monthly"},
		{ID: "s2", PlanID: "plan-annual"},
		{ID: "s3", PlanID: "plan-gone"},
	}, nil)
	plans.On("GetByID", ctx, "plan-monthly").Return(&Plan{Cycle: CycleMonthly, BasePriceCents: 5000}, nil)
	plans.On("GetByID", ctx, "plan-annual").Return(&Plan{Cycle: CycleAnnual, BasePriceCents: 120000}, nil)
	plans.On("GetByID", ctx, "plan-gone").Return(nil, ErrPlanNotFound)

	rev, err := svc.RevenueSummary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, rev.ActiveSubscriptions)
	assert.Equal(t, int64(15000), rev.MRRCents)
	assert.Equal(t, int64(180000), rev.ARRCents)
}

// TestPurpose: Verify retiring a plan closes it to signups and is idempotent.
// Scope: Unit Test
// Expected: First retire stamps RetiredAt; retiring again is a no-op.
// Test Case ID: SUB-08
func TestRetirePlan(t *testing.T) {
	plans := new(MockPlanRepository)
	subs := new(MockSubscriptionRepository)
	svc := NewService(plans, subs, &subscriptionAuditLogger{})
	ctx := context.Background()

	plans.On("GetByID", ctx, "plan-1").Return(&Plan{ID: "plan-1", Active: true}, nil).Once()
	plans.On("Update", ctx, mock.MatchedBy(func(p *Plan) bool {
		return !p.Active && p.RetiredAt != nil
	})).Return(nil).Once()

	p, err := svc.RetirePlan(ctx, "plan-1")
	assert.NoError(t, err)
	assert.False(t, p.Active)

	plans.On("GetByID", ctx, "plan-1").Return(&Plan{ID: "plan-1", Active: false}, nil)
	p, err = svc.RetirePlan(ctx, "plan-1")
	assert.NoError(t, err)
	assert.False(t, p.Active)
	plans.AssertNumberOfCalls(t, "Update", 1)
}

// TestPurpose: Verify plan creation accepts every known billing cycle and
// rejects the rest.
// Scope: Unit Test
// Expected: A quarterly plan is created and normalizes to a third of its
// base price; an unknown cycle fails without touching the repository.
// Test Case ID: SUB-09
func TestCreatePlanCycles(t *testing.T) {
	plans := new(MockPlanRepository)
	subs := new(MockSubscriptionRepository)
	svc := NewService(plans, subs, &subscriptionAuditLogger{})
	ctx := context.Background()

	plans.On("Create", ctx, mock.MatchedBy(func(p *Plan) bool {
		return p.Cycle == CycleQuarterly && p.BasePriceCents == 30000
	})).Return(nil).Once()

	p, err := svc.CreatePlan(ctx, "Growth Quarterly", "growth", CycleQuarterly, 30000, nil, nil, 5, 200)
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), p.MonthlyPriceCents())

	_, err = svc.CreatePlan(ctx, "Weekly", "growth", "weekly", 1000, nil, nil, 1, 10)
	assert.Error(t, err)
	plans.AssertNumberOfCalls(t, "Create", 1)
}
