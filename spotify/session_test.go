package spotify

import (
	"net/http/httptest"
	"testing"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := NewSessionToken(secret, "user123")
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	userID, err := ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if userID != "user123" {
		t.Errorf("userID = %q, want user123", userID)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := NewSessionToken([]byte("secret-a"), "user123")
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	if _, err := ParseSessionToken([]byte("secret-b"), token); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	if _, err := ParseSessionToken([]byte("secret"), "not-a-token"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionCookieLifecycle(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "tok")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value != "tok" {
		t.Fatalf("cookies = %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be http-only")
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr)
	cookies = rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("clear cookie = %v", cookies)
	}
}
