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

package token

import (
	"errors"
	"testing"
	"time"
)

// TestPurpose: Verify issued tokens carry the subject and org claim and
// verify against the same secret.
// Scope: Unit Test
// Expected: Verify returns the user ID and org ID that went in; the expiry
// matches the configured lifetime.
// Test Case ID: TOK-01
func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", "quarters", time.Hour)

	orgID := "org-1"
	raw, expiresAt, err := svc.Issue("user-1", &orgID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Errorf("unexpected expiry %v", expiresAt)
	}

	claims, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.OrgID != "org-1" {
		t.Errorf("expected org claim, got %q", claims.OrgID)
	}
}

// TestPurpose: Verify platform-scoped tokens omit the org claim.
// Scope: Unit Test
// Expected: A nil org yields empty OrgID in the verified claims.
// Test Case ID: TOK-02
func TestIssuePlatformToken(t *testing.T) {
	svc := NewService("test-secret", "quarters", time.Hour)

	raw, _, err := svc.Issue("admin-1", nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.OrgID != "" {
		t.Errorf("expected empty org claim, got %q", claims.OrgID)
	}
}

// TestPurpose: Verify tampered, foreign and expired tokens are rejected.
// Scope: Unit Test
// Security: Tokens signed with another secret or past expiry must not
// verify.
// Expected: Wrong secret and garbage yield ErrTokenInvalid; an expired
// token yields ErrTokenExpired.
// Test Case ID: TOK-03
func TestVerifyRejections(t *testing.T) {
	svc := NewService("test-secret", "quarters", time.Hour)
	other := NewService("other-secret", "quarters", time.Hour)

	raw, _, _ := other.Issue("user-1", nil)
	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for foreign secret, got %v", err)
	}

	if _, err := svc.Verify("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for garbage, got %v", err)
	}

	expired := NewService("test-secret", "quarters", -time.Minute)
	raw, _, _ = expired.Issue("user-1", nil)
	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

// TestPurpose: Verify the issuer claim is enforced.
// Scope: Unit Test
// Expected: A token minted under a different issuer fails verification.
// Test Case ID: TOK-04
func TestVerifyIssuer(t *testing.T) {
	svc := NewService("test-secret", "quarters", time.Hour)
	foreign := NewService("test-secret", "someone-else", time.Hour)

	raw, _, _ := foreign.Issue("user-1", nil)
	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}
}
