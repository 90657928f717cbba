package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestNewTokenAndVerify(t *testing.T) {
	token, err := NewToken(testSecret, "game2048", "agent-1", time.Minute)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	subject, err := NewVerifier(testSecret, "game2048").Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "agent-1" {
		t.Errorf("subject = %q, want agent-1", subject)
	}
}

func TestNewToken_EmptySecret(t *testing.T) {
	if _, err := NewToken("", "game2048", "x", 0); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	valid, _ := NewToken(testSecret, "game2048", "agent", time.Minute)
	otherSecret, _ := NewToken("other", "game2048", "agent", time.Minute)
	otherIssuer, _ := NewToken(testSecret, "someone-else", "agent", time.Minute)

	expired, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   "agent",
		Issuer:    "game2048",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte(testSecret))

	noExpiry, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject: "agent",
		Issuer:  "game2048",
	}).SignedString([]byte(testSecret))

	v := NewVerifier(testSecret, "game2048")
	if _, err := v.Verify(valid); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"expired", expired},
		{"no expiry", noExpiry},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	token, _ := NewToken(testSecret, "", "agent-7", time.Minute)

	var gotSubject string
	handler := Middleware(NewVerifier(testSecret, ""), "/api/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{"valid token", "/api/sessions", "Bearer " + token, http.StatusOK},
		{"missing header", "/api/sessions", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/sessions", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "/api/sessions", "Bearer ", http.StatusUnauthorized},
		{"bad token", "/api/sessions", "Bearer nope", http.StatusUnauthorized},
		{"bypassed path", "/api/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if gotSubject != "agent-7" {
		t.Errorf("subject in context = %q, want agent-7", gotSubject)
	}
}
