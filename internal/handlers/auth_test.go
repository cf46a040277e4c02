package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oaklinehq/scheduler/internal/permission"
	"github.com/oaklinehq/scheduler/libs/auth"
)

func TestWithAuth(t *testing.T) {
	const secret = "test-secret"

	var gotUserID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = permission.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	protected := WithAuth(secret)(next)

	// No token.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Token signed with the wrong secret.
	bad, err := auth.SignHS256(auth.Claims{Sub: "10", Exp: time.Now().Add(time.Hour).Unix()}, "other-secret")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", rec.Code)
	}

	// Valid token stamps the user id on the context.
	good, err := auth.SignHS256(auth.Claims{Sub: "10", Exp: time.Now().Add(time.Hour).Unix()}, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotUserID != 10 {
		t.Fatalf("expected user id 10 on context, got %d", gotUserID)
	}
}
