package visitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var testSecret = []byte("test-secret")

func TestSignVerifyRoundTrip(t *testing.T) {
	id := NewID()
	token := Sign(id, testSecret)

	parsed, err := Verify(token, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != id {
		t.Fatalf("expected %q, got %q", id, parsed)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	token := Sign(NewID(), testSecret)

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := Verify(token, []byte("other-secret")); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("modified payload", func(t *testing.T) {
		if _, err := Verify("x"+token, testSecret); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		if _, err := Verify("payload-only", testSecret); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("non-ulid payload", func(t *testing.T) {
		forged := Sign("not-a-ulid", testSecret)
		if _, err := Verify(forged, testSecret); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestContextRoundTrip(t *testing.T) {
	if got := ID(context.Background()); got != "" {
		t.Fatalf("expected empty id on bare context, got %q", got)
	}
	ctx := WithID(context.Background(), "v123")
	if got := ID(ctx); got != "v123" {
		t.Fatalf("expected v123, got %q", got)
	}
}

func TestMiddlewareMintsIdentity(t *testing.T) {
	var seen string
	handler := Middleware(CookieConfig{Secret: testSecret})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen == "" {
		t.Fatalf("expected minted visitor id on context")
	}

	cookies := rr.Result().Cookies()
	var cookie *http.Cookie
	for _, c := range cookies {
		if c.Name == CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("expected %s cookie to be set", CookieName)
	}
	if !cookie.HttpOnly {
		t.Fatalf("expected httponly cookie")
	}

	id, err := Verify(cookie.Value, testSecret)
	if err != nil {
		t.Fatalf("cookie value failed verification: %v", err)
	}
	if id != seen {
		t.Fatalf("cookie id %q does not match context id %q", id, seen)
	}
}

func TestMiddlewareReusesValidCookie(t *testing.T) {
	existing := NewID()

	var seen string
	handler := Middleware(CookieConfig{Secret: testSecret})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: Sign(existing, testSecret)})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != existing {
		t.Fatalf("expected existing id %q, got %q", existing, seen)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			t.Fatalf("expected no replacement cookie for a valid identity")
		}
	}
}

func TestMiddlewareReplacesInvalidCookie(t *testing.T) {
	var seen string
	handler := Middleware(CookieConfig{Secret: testSecret})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen == "" {
		t.Fatalf("expected fresh identity")
	}
	replaced := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			replaced = true
		}
	}
	if !replaced {
		t.Fatalf("expected replacement cookie")
	}
}
