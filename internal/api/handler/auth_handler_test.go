package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/zetruc/pulse/internal/api/middleware"
	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	svc := &stubAuthService{login: func(email, password string) (*ports.Session, error) {
		if email != "alice@example.com" || password != "password123" {
			t.Fatalf("unexpected credentials %q/%q", email, password)
		}
		return &ports.Session{Token: "tok", ExpiresAt: expires, User: &domain.User{ID: "u1", Email: email}}, nil
	}}
	h := NewAuthHandler(svc, true)

	c, rec := newContext(t, request{method: http.MethodPost, target: "/api/auth/login",
		body: `{"email":"alice@example.com","password":"password123"}`})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body loginResponse
	decode(t, rec, &body)
	if body.Token != "tok" || body.User == nil || body.User.ID != "u1" {
		t.Fatalf("unexpected body %+v", body)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != middleware.SessionCookie || ck.Value != "tok" || !ck.HttpOnly || !ck.Secure {
		t.Fatalf("unexpected cookie %+v", ck)
	}
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newContext(t, request{method: http.MethodPost, target: "/api/auth/login", body: `{"email":"a@b.c"}`})
	if err := h.Login(c); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	c, _ = newContext(t, request{method: http.MethodPost, target: "/api/auth/login", body: `{not json`})
	if err := h.Login(c); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 on malformed body, got %v", err)
	}
}

func TestAuthHandler_LoginPropagatesServiceError(t *testing.T) {
	svc := &stubAuthService{login: func(string, string) (*ports.Session, error) {
		return nil, domain.ErrInvalidCredentials
	}}
	h := NewAuthHandler(svc, false)

	c, _ := newContext(t, request{method: http.MethodPost, target: "/api/auth/login",
		body: `{"email":"a@b.c","password":"nope"}`})
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	var revoked string
	svc := &stubAuthService{logout: func(p domain.Principal) error {
		revoked = p.TokenID
		return nil
	}}
	h := NewAuthHandler(svc, false)

	c, rec := newContext(t, request{method: http.MethodPost, target: "/api/auth/logout", who: &owner})
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked != owner.TokenID {
		t.Fatalf("expected %s revoked, got %q", owner.TokenID, revoked)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cookies)
	}
}

func TestAuthHandler_MeRequiresPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newContext(t, request{method: http.MethodGet, target: "/api/auth/me"})
	if err := h.Me(c); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &stubAuthService{me: func(p domain.Principal) (*domain.User, error) {
		return &domain.User{ID: p.UserID, Email: p.Email, Role: p.Role}, nil
	}}
	h := NewAuthHandler(svc, false)

	c, rec := newContext(t, request{method: http.MethodGet, target: "/api/auth/me", who: &owner})
	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	var user domain.User
	decode(t, rec, &user)
	if user.ID != owner.UserID || user.Email != owner.Email {
		t.Fatalf("unexpected user %+v", user)
	}
}
