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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Metrics holds the instruments recorded by the background sweeps. HTTP
// metrics come from otelhttp; these cover work that happens off the
// request path.
type Metrics struct {
	InvoicesGenerated metric.Int64Counter
	LateFeesApplied   metric.Int64Counter
	LeasesExpired     metric.Int64Counter
}

// New creates the sweep instruments. When disabled, the global noop
// provider makes every Add a no-op.
func New(ctx context.Context, cfg Config, serviceName string) (*Metrics, error) {
	name := serviceName
	if !cfg.Enabled {
		name = "noop"
	}
	meter := otel.Meter(name)

	m := &Metrics{}
	var err error

	m.InvoicesGenerated, err = meter.Int64Counter(
		"quarters.billing.invoices_generated",
		metric.WithDescription("Invoices created by the billing sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice counter: %w", err)
	}

	m.LateFeesApplied, err = meter.Int64Counter(
		"quarters.billing.late_fees_applied",
		metric.WithDescription("Overdue invoices flagged with a late fee"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create late fee counter: %w", err)
	}

	m.LeasesExpired, err = meter.Int64Counter(
		"quarters.lease.expired",
		metric.WithDescription("Leases expired by the lease sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lease counter: %w", err)
	}

	return m, nil
}
