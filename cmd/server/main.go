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
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/billing"
	"github.com/quartershq/quarters/internal/building"
	"github.com/quartershq/quarters/internal/cache"
	"github.com/quartershq/quarters/internal/config"
	"github.com/quartershq/quarters/internal/frontdesk"
	"github.com/quartershq/quarters/internal/identity"
	"github.com/quartershq/quarters/internal/lease"
	"github.com/quartershq/quarters/internal/observability/logger"
	"github.com/quartershq/quarters/internal/observability/metrics"
	"github.com/quartershq/quarters/internal/observability/tracing"
	"github.com/quartershq/quarters/internal/org"
	"github.com/quartershq/quarters/internal/resident"
	"github.com/quartershq/quarters/internal/session"
	"github.com/quartershq/quarters/internal/settings"
	"github.com/quartershq/quarters/internal/store/postgres"
	"github.com/quartershq/quarters/internal/subscription"
	"github.com/quartershq/quarters/internal/token"
	transportHTTP "github.com/quartershq/quarters/internal/transport/http"
	"github.com/quartershq/quarters/internal/workorder"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting quarters building management server")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize sweep metrics
	sweepMetrics, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,

		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize cache
	var c cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			slog.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			slog.Error("redis ping failed", logger.Error(err))
			os.Exit(1)
		}
		c = redisCache
		slog.Info("connected to redis")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	orgRepo := postgres.NewOrgRepository(db)
	memberRoleRepo := postgres.NewMemberRoleRepository(db)
	buildingRepo := postgres.NewBuildingRepository(db)
	unitRepo := postgres.NewUnitRepository(db)
	residentRepo := postgres.NewResidentRepository(db)
	leaseRepo := postgres.NewLeaseRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	workOrderRepo := postgres.NewWorkOrderRepository(db)
	complaintRepo := postgres.NewComplaintRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	violationRepo := postgres.NewViolationRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	passwordHasher := identity.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Initialize services
	identityService := identity.NewService(
		userRepo,
		passwordHasher,
		auditLogger,
		cfg.Security.LockoutMaxAttempts,
		cfg.Security.LockoutDuration,
	)
	sessionService := session.NewService(sessionRepo, cfg.Session.Lifetime, cfg.Session.IdleTimeout)
	tokenService := token.NewService(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.Lifetime)
	orgService := org.NewService(orgRepo, memberRoleRepo, auditLogger)
	buildingService := building.NewService(buildingRepo, unitRepo, c)
	leaseService := lease.NewService(leaseRepo, buildingService, residentRepo, auditLogger)
	residentService := resident.NewService(residentRepo, leaseService)
	billingService := billing.NewService(invoiceRepo, paymentRepo, leaseRepo, auditLogger)
	subscriptionService := subscription.NewService(planRepo, subscriptionRepo, auditLogger)
	workOrderService := workorder.NewService(workOrderRepo, complaintRepo, orgService, auditLogger)
	frontDeskService := frontdesk.NewService(visitRepo, vehicleRepo, violationRepo, auditLogger)
	settingsService := settings.NewService(settingsRepo, c, auditLogger)

	// Bootstrap the platform admin (ENV driven, safe to repeat)
	bootstrapService := identity.NewBootstrapService(identityService, memberRoleRepo, auditLogger)
	if err := bootstrapService.Bootstrap(ctx); err != nil {
		slog.Error("bootstrap failed", logger.Error(err))
		os.Exit(1)
	}

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Configure SameSite mode
	sameSite := http.SameSiteLaxMode
	switch cfg.Session.CookieSameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	}

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		identityService,
		sessionService,
		tokenService,
		orgService,
		buildingService,
		residentService,
		leaseService,
		billingService,
		subscriptionService,
		workOrderService,
		frontDeskService,
		settingsService,
		auditLogger,
		transportHTTP.SessionConfig{
			CookieName:     cfg.Session.CookieName,
			CookieDomain:   cfg.Session.CookieDomain,
			CookiePath:     cfg.Session.CookiePath,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHTTPOnly: cfg.Session.CookieHTTPOnly,
			CookieSameSite: sameSite,
			Lifetime:       cfg.Session.Lifetime,
		},
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Session cleanup sweep
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessionService.CleanupExpired(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to cleanup expired sessions", logger.Error(err))
			}
		}
	}()

	// Lease expiry sweep
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := leaseService.ExpireDue(ctx, time.Now())
			if err != nil {
				slog.ErrorContext(ctx, "lease expiry sweep failed", logger.Error(err))
				continue
			}
			if n > 0 {
				sweepMetrics.LeasesExpired.Add(ctx, int64(n))
				slog.InfoContext(ctx, "expired leases", slog.Int("count", n))
			}
		}
	}()

	// Billing sweep: generate due invoices, then apply late fees
	go func() {
		ticker := time.NewTicker(cfg.Billing.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			generated, err := billingService.GenerateDueInvoices(ctx, now, cfg.Billing.InvoiceHorizon)
			if err != nil {
				slog.ErrorContext(ctx, "invoice generation sweep failed", logger.Error(err))
			} else if generated > 0 {
				sweepMetrics.InvoicesGenerated.Add(ctx, int64(generated))
				slog.InfoContext(ctx, "generated invoices", slog.Int("count", generated))
			}

			flagged, err := billingService.ApplyLateFees(ctx, now)
			if err != nil {
				slog.ErrorContext(ctx, "late fee sweep failed", logger.Error(err))
			} else if flagged > 0 {
				sweepMetrics.LateFeesApplied.Add(ctx, int64(flagged))
				slog.InfoContext(ctx, "applied late fees", slog.Int("count", flagged))
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func runMigrate(cfg *config.Config) error {
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
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}
