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
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/quartershq/quarters/internal/observability/logger"
	"github.com/quartershq/quarters/internal/rbac"
)

// Organization context resolution:
// - Session and bearer token are the ONLY sources of org scope.
// - The X-Org-ID header is forbidden; requests carrying it are rejected.
// - Platform admins carry no org scope; their privileges come from a
//   platform-scoped role grant, never from an empty org_id alone.

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware authenticates the request from the session cookie or a
// bearer token and injects user and org scope into the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Org scope is derived exclusively from the credential.
		if r.Header.Get("X-Org-ID") != "" {
			slog.WarnContext(r.Context(), "org header spoofing attempt on authenticated route",
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)
			respondError(w, http.StatusBadRequest, "X-Org-ID header is not allowed; org scope is derived from the credential")
			return
		}

		if raw := bearerToken(r); raw != "" {
			claims, err := h.tokenService.Verify(raw)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, orgIDKey, claims.OrgID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		sessionID := h.getSessionFromCookie(r)
		if sessionID == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		sess, err := h.sessionService.Get(r.Context(), sessionID)
		if err != nil {
			h.clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		if err := h.sessionService.Refresh(r.Context(), sessionID); err != nil {
			slog.ErrorContext(r.Context(), "failed to refresh session", logger.Error(err))
		}

		ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
		ctx = context.WithValue(ctx, sessionIDKey, sess.ID)

		// Platform admins have a nil org; everyone else is org-scoped.
		sessionOrg := ""
		if sess.OrgID != nil {
			sessionOrg = *sess.OrgID
		}
		ctx = context.WithValue(ctx, orgIDKey, sessionOrg)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOrg enforces that the principal carries an organization scope.
func RequireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetOrgID(r.Context()) == "" {
			respondError(w, http.StatusForbidden, "organization scope required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows the request through when the principal holds any of
// the listed roles in their org. Platform admins always pass.
func (h *Handler) RequireRole(roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.hasAnyRole(r, roles...) {
				next.ServeHTTP(w, r)
				return
			}
			respondError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

// RequirePlatformAdmin restricts the route to platform administrators.
func (h *Handler) RequirePlatformAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.isPlatformAdmin(r) {
			next.ServeHTTP(w, r)
			return
		}
		respondError(w, http.StatusForbidden, "platform admin required")
	})
}

func (h *Handler) isPlatformAdmin(r *http.Request) bool {
	ok, err := h.orgService.HasRole(r.Context(), nil, GetUserID(r.Context()), rbac.RolePlatformAdmin)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to check platform role", logger.Error(err))
		return false
	}
	return ok
}

func (h *Handler) hasAnyRole(r *http.Request, roles ...string) bool {
	if h.isPlatformAdmin(r) {
		return true
	}

	orgID := GetOrgID(r.Context())
	if orgID == "" {
		return false
	}
	userID := GetUserID(r.Context())

	for _, role := range roles {
		ok, err := h.orgService.HasRole(r.Context(), &orgID, userID, role)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to check role", logger.Error(err))
			return false
		}
		if ok {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return auth[7:]
	}
	return ""
}
