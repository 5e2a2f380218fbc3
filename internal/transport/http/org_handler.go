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

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/identity"
	"github.com/quartershq/quarters/internal/observability/logger"
	"github.com/quartershq/quarters/internal/org"
	"github.com/quartershq/quarters/internal/rbac"
)

// CreateOrgRequest represents organization creation data
type CreateOrgRequest struct {
	Name string `json:"name" binding:"required" example:"Addis Property Group"`
}

// CreateOrg founds a new organization with the caller as org admin
// @Summary Create Organization
// @Description Found a new organization. The caller must not already belong to one.
// @Tags Org
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateOrgRequest true "Organization Data"
// @Success 201 {object} org.Org
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orgs [post]
func (h *Handler) CreateOrg(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := GetUserID(r.Context())

	user, err := h.identityService.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "user not found")
		return
	}
	if user.OrgID != "" {
		respondError(w, http.StatusConflict, "user already belongs to an organization")
		return
	}

	o, err := h.orgService.CreateOrg(r.Context(), req.Name, userID)
	if err != nil {
		switch err {
		case org.ErrOrgAlreadyExists:
			respondError(w, http.StatusConflict, "organization name already taken")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := h.identityService.AssignOrg(r.Context(), userID, o.ID); err != nil {
		slog.ErrorContext(r.Context(), "failed to assign founder to organization",
			logger.Error(err),
			logger.UserID(userID),
			logger.OrgID(o.ID),
		)
		respondError(w, http.StatusInternalServerError, "failed to assign organization")
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// GetOrg returns the caller's organization
// @Summary Get Organization
// @Description Retrieve the organization the caller belongs to
// @Tags Org
// @Produce json
// @Security CookieAuth
// @Success 200 {object} org.Org
// @Failure 404 {object} map[string]string
// @Router /org [get]
func (h *Handler) GetOrg(w http.ResponseWriter, r *http.Request) {
	o, err := h.orgService.GetOrg(r.Context(), GetOrgID(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "organization not found")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// ListOrgs lists all organizations on the platform
// @Summary List Organizations
// @Description List organizations (platform admin only)
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} org.Org
// @Router /admin/orgs [get]
func (h *Handler) ListOrgs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	orgs, err := h.orgService.ListOrgs(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list organizations")
		return
	}
	respondJSON(w, http.StatusOK, orgs)
}

// SuspendOrg suspends an organization
// @Summary Suspend Organization
// @Description Suspend an organization, blocking its write operations (platform admin only)
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Param orgID path string true "Organization ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/orgs/{orgID}/suspend [post]
func (h *Handler) SuspendOrg(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if err := h.orgService.Suspend(r.Context(), orgID); err != nil {
		if err == org.ErrOrgNotFound {
			respondError(w, http.StatusNotFound, "organization not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to suspend organization")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "organization suspended"})
}

// ListOrgMembers lists role assignments in the caller's organization
// @Summary List Members
// @Description List member role assignments for the organization
// @Tags Org
// @Produce json
// @Security CookieAuth
// @Success 200 {array} org.MemberRole
// @Router /org/members [get]
func (h *Handler) ListOrgMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.orgService.OrgMembers(r.Context(), GetOrgID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	respondJSON(w, http.StatusOK, members)
}

// ProvisionUserRequest represents staff provisioning data
type ProvisionUserRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Phone      string `json:"phone"`
	Role       string `json:"role" example:"building_manager"`
}

// ProvisionOrgUser creates a user inside the caller's organization
// @Summary Provision User
// @Description Create a staff, technician, security or resident account in the organization
// @Tags Org
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ProvisionUserRequest true "User Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /org/users [post]
func (h *Handler) ProvisionOrgUser(w http.ResponseWriter, r *http.Request) {
	var req ProvisionUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Role != "" && (!rbac.Valid(req.Role) || req.Role == rbac.RolePlatformAdmin) {
		respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	orgID := GetOrgID(r.Context())
	actorID := GetUserID(r.Context())

	profile := identity.Profile{
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		FullName:   req.GivenName + " " + req.FamilyName,
		Phone:      req.Phone,
	}

	user, err := h.identityService.ProvisionIdentity(r.Context(), orgID, req.Email, profile)
	if err != nil {
		switch err {
		case identity.ErrUserAlreadyExists:
			respondError(w, http.StatusConflict, "user already exists")
		case identity.ErrInvalidEmail:
			respondError(w, http.StatusBadRequest, "invalid email address")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	if err := h.identityService.AddPassword(r.Context(), user.ID, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, "failed to set password: "+err.Error())
		return
	}

	if req.Role != "" {
		if err := h.orgService.GrantRole(r.Context(), &orgID, user.ID, req.Role, actorID); err != nil {
			respondError(w, http.StatusBadRequest, "failed to grant role: "+err.Error())
			return
		}
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeUserCreated,
		OrgID:     orgID,
		ActorID:   actorID,
		Resource:  "user",
		IPAddress: clientIP(r),
		Metadata:  map[string]any{"email": user.Email, "role": req.Role},
	})

	respondJSON(w, http.StatusCreated, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    req.Role,
	})
}

// GrantRoleRequest represents a role grant
type GrantRoleRequest struct {
	Role string `json:"role" binding:"required" example:"technician"`
}

// GrantRole assigns a role to an organization member
// @Summary Grant Role
// @Description Assign a role to a user in the organization
// @Tags Org
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param userID path string true "User ID"
// @Param request body GrantRoleRequest true "Role"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /org/users/{userID}/roles [post]
func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	var req GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orgID := GetOrgID(r.Context())
	userID := chi.URLParam(r, "userID")

	err := h.orgService.GrantRole(r.Context(), &orgID, userID, req.Role, GetUserID(r.Context()))
	if err != nil {
		switch err {
		case org.ErrRoleAlreadyExists:
			respondError(w, http.StatusConflict, "role already granted")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "role granted"})
}

// RevokeRole removes a role from an organization member
// @Summary Revoke Role
// @Description Remove a role from a user in the organization
// @Tags Org
// @Produce json
// @Security CookieAuth
// @Param userID path string true "User ID"
// @Param role path string true "Role"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /org/users/{userID}/roles/{role} [delete]
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	orgID := GetOrgID(r.Context())
	userID := chi.URLParam(r, "userID")
	role := chi.URLParam(r, "role")

	err := h.orgService.RevokeRole(r.Context(), &orgID, userID, role, GetUserID(r.Context()))
	if err != nil {
		if err == org.ErrRoleNotFound {
			respondError(w, http.StatusNotFound, "role assignment not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "role revoked"})
}
