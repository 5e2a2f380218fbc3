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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quartershq/quarters/internal/token"
)

func authTestHandler() *Handler {
	return &Handler{
		tokenService:  token.NewService("test-secret", "quarters", time.Hour),
		sessionConfig: SessionConfig{CookieName: "session_id"},
	}
}

func protectedEcho(h *Handler) http.Handler {
	return h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test-User", GetUserID(r.Context()))
		w.Header().Set("X-Test-Org", GetOrgID(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
}

// TestPurpose: Verify the X-Org-ID header is rejected before any credential
// is consulted.
// Scope: Unit Test
// Security: Org scope must come from the credential; a spoofed header must
// never select an organization.
// Expected: 400 Bad Request even alongside a valid bearer token.
// Test Case ID: MDW-01
func TestAuthMiddlewareRejectsOrgHeader(t *testing.T) {
	h := authTestHandler()
	orgID := "org-1"
	raw, _, _ := h.tokenService.Issue("user-1", &orgID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buildings", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	req.Header.Set("X-Org-ID", "org-2")
	rec := httptest.NewRecorder()

	protectedEcho(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for X-Org-ID header, got %d", rec.Code)
	}
}

// TestPurpose: Verify bearer token authentication injects user and org scope
// into the request context.
// Scope: Unit Test
// Expected: The downstream handler sees the token's subject and org claim.
// Test Case ID: MDW-02
func TestAuthMiddlewareBearerToken(t *testing.T) {
	h := authTestHandler()
	orgID := "org-1"
	raw, _, _ := h.tokenService.Issue("user-1", &orgID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buildings", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()

	protectedEcho(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Test-User"); got != "user-1" {
		t.Errorf("expected user-1 in context, got %q", got)
	}
	if got := rec.Header().Get("X-Test-Org"); got != "org-1" {
		t.Errorf("expected org-1 in context, got %q", got)
	}
}

// TestPurpose: Verify unauthenticated and badly credentialed requests are
// rejected.
// Scope: Unit Test
// Security: No credential and invalid tokens both yield 401.
// Expected: Missing cookie and token, and a garbage bearer value, return
// 401 Unauthorized.
// Test Case ID: MDW-03
func TestAuthMiddlewareRejections(t *testing.T) {
	h := authTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buildings", nil)
	rec := httptest.NewRecorder()
	protectedEcho(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/buildings", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	protectedEcho(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", rec.Code)
	}
}

// TestPurpose: Verify RequireOrg blocks platform-scoped principals from
// org-only routes.
// Scope: Unit Test
// Expected: A token without an org claim reaches AuthMiddleware but is
// stopped by RequireOrg with 403.
// Test Case ID: MDW-04
func TestRequireOrg(t *testing.T) {
	h := authTestHandler()
	raw, _, _ := h.tokenService.Issue("admin-1", nil)

	handler := h.AuthMiddleware(RequireOrg(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buildings", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for platform-scoped principal, got %d", rec.Code)
	}
}

// TestPurpose: Verify client address resolution yields a single IP for rate
// limiting, session records and audit events.
// Scope: Unit Test
// Expected: Only the first X-Forwarded-For hop is used; X-Real-IP is the
// fallback; a bare peer address loses its port.
// Test Case ID: MDW-05
func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1, 10.0.0.2")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("expected first forwarded hop, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.7")
	if got := clientIP(req); got != "198.51.100.7" {
		t.Errorf("expected X-Real-IP fallback, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.4:51234"
	if got := clientIP(req); got != "192.0.2.4" {
		t.Errorf("expected peer address without port, got %q", got)
	}
}

// TestPurpose: Verify the session cookie's max age follows the configured
// session lifetime.
// Scope: Unit Test
// Expected: A two hour lifetime produces a 7200 second cookie.
// Test Case ID: MDW-06
func TestSessionCookieMaxAge(t *testing.T) {
	h := &Handler{sessionConfig: SessionConfig{
		CookieName: "session_id",
		Lifetime:   2 * time.Hour,
	}}

	rec := httptest.NewRecorder()
	h.setSessionCookie(rec, "abc")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != 7200 {
		t.Errorf("expected max age 7200, got %d", cookies[0].MaxAge)
	}
	if cookies[0].Value != "abc" {
		t.Errorf("expected session value set, got %q", cookies[0].Value)
	}
}
