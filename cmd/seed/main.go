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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/config"
	"github.com/quartershq/quarters/internal/store/postgres"
	"github.com/quartershq/quarters/internal/subscription"
)

type seedPlan struct {
	name           string
	tier           string
	cycle          string
	basePriceCents int64
	maxBuildings   int
	maxUnits       int
}

var defaultPlans = []seedPlan{
	{"Starter Monthly", "starter", subscription.CycleMonthly, 250000, 1, 30},
	{"Growth Monthly", "growth", subscription.CycleMonthly, 600000, 5, 200},
	{"Growth Annual", "growth", subscription.CycleAnnual, 6480000, 5, 200},
	{"Portfolio Monthly", "portfolio", subscription.CycleMonthly, 1500000, 25, 1000},
	{"Portfolio Annual", "portfolio", subscription.CycleAnnual, 16200000, 25, 1000},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	planRepo := postgres.NewPlanRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)
	svc := subscription.NewService(planRepo, subRepo, audit.NewSlogLogger())

	existing, err := svc.ListPlans(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list plans: %v\n", err)
		os.Exit(1)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	created := 0
	for _, sp := range defaultPlans {
		if have[sp.name] {
			continue
		}
		if _, err := svc.CreatePlan(ctx, sp.name, sp.tier, sp.cycle, sp.basePriceCents, nil, nil, sp.maxBuildings, sp.maxUnits); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed plan %q: %v\n", sp.name, err)
			os.Exit(1)
		}
		created++
	}
	fmt.Printf("Seeded %d plans (%d already present).\n", created, len(defaultPlans)-created)
}
