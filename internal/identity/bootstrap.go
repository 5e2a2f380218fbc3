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

package identity

import (
	"context"
	"fmt"
	"os"

	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/org"
	"github.com/quartershq/quarters/internal/rbac"
)

const (
	EnvBootstrapAdminEmail    = "QUARTERS_BOOTSTRAP_ADMIN_EMAIL"
	EnvBootstrapAdminPassword = "QUARTERS_BOOTSTRAP_ADMIN_PASSWORD"
)

// BootstrapService manages the initial initialization of the system:
// creating the first platform admin from environment configuration.
type BootstrapService struct {
	identityService *Service
	roleRepo        org.RoleRepository
	auditLogger     audit.Logger
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(
	identityService *Service,
	roleRepo org.RoleRepository,
	auditLogger audit.Logger,
) *BootstrapService {
	return &BootstrapService{
		identityService: identityService,
		roleRepo:        roleRepo,
		auditLogger:     auditLogger,
	}
}

// Bootstrap provisions the platform admin named by QUARTERS_BOOTSTRAP_ADMIN_EMAIL
// if no platform admin exists yet. Safe to run on every startup.
func (s *BootstrapService) Bootstrap(ctx context.Context) error {
	email := os.Getenv(EnvBootstrapAdminEmail)
	if email == "" {
		return nil
	}

	user, err := s.identityService.GetByEmail(ctx, "", email)
	if err != nil {
		password := os.Getenv(EnvBootstrapAdminPassword)
		if password == "" {
			return fmt.Errorf("%s is required to create the bootstrap admin", EnvBootstrapAdminPassword)
		}

		user, err = s.identityService.ProvisionIdentity(ctx, "", email, Profile{FullName: "Platform Admin"})
		if err != nil {
			return fmt.Errorf("failed to provision bootstrap admin: %w", err)
		}
		if err := s.identityService.AddPassword(ctx, user.ID, password); err != nil {
			return fmt.Errorf("failed to set bootstrap admin password: %w", err)
		}
	}

	has, err := s.roleRepo.HasRole(ctx, nil, user.ID, rbac.RolePlatformAdmin)
	if err != nil {
		return fmt.Errorf("failed to check for existing platform admin: %w", err)
	}
	if has {
		return nil
	}

	if err := s.roleRepo.Grant(ctx, &org.MemberRole{
		ID:        user.ID + "-platform-admin",
		OrgID:     nil,
		UserID:    user.ID,
		Role:      rbac.RolePlatformAdmin,
		GrantedBy: "bootstrap",
	}); err != nil {
		return fmt.Errorf("failed to grant platform admin: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleGranted,
		ActorID:  "bootstrap",
		Resource: rbac.RolePlatformAdmin,
		Metadata: map[string]any{"user_id": user.ID, "email": email},
	})

	return nil
}
