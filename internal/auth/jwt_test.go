package auth

import (
	"strings"
	"testing"
)

// newTestTokenService creates a TokenService with a fixed, known secret so
// tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestGenerateSession_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateSession("user-123")
	if err != nil {
		t.Fatalf("GenerateSession() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not header.payload.signature shaped", token)
	}

	userID, err := ts.Validate(token, ScopeSession)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Validate() userID = %q, want user-123", userID)
	}
}

func TestValidate_ScopeMismatch(t *testing.T) {
	ts := newTestTokenService(t)

	// A session token must not pass recovery validation, and vice versa.
	session, err := ts.GenerateSession("user-1")
	if err != nil {
		t.Fatalf("GenerateSession: %v", err)
	}
	if _, err := ts.Validate(session, ScopeRecovery); err == nil {
		t.Error("session token accepted with recovery scope")
	}

	recovery, err := ts.GenerateRecovery("user-1")
	if err != nil {
		t.Fatalf("GenerateRecovery: %v", err)
	}
	if _, err := ts.Validate(recovery, ScopeSession); err == nil {
		t.Error("recovery token accepted with session scope")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateSession("user-1")
	if err != nil {
		t.Fatalf("GenerateSession: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ts.Validate(tampered, ScopeSession); err == nil {
		t.Error("Validate() accepted a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("another-secret-16-chars-long!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := ts.GenerateSession("user-1")
	if err != nil {
		t.Fatalf("GenerateSession: %v", err)
	}
	if _, err := other.Validate(token, ScopeSession); err == nil {
		t.Error("Validate() accepted a token signed with a different secret")
	}
}
