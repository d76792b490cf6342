package visitor

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const idContextKey contextKey = "github.com/brandfolio/api/internal/platform/visitor/id"

// ErrInvalidToken indicates a cookie value that fails structural or
// signature validation.
var ErrInvalidToken = errors.New("visitor: invalid token")

// WithID stores the visitor identifier on the context.
func WithID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, idContextKey, id)
}

// ID retrieves the visitor identifier from context, empty when absent.
func ID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(idContextKey).(string); ok {
		return id
	}
	return ""
}

// NewID mints a fresh visitor identifier.
func NewID() string {
	return ulid.Make().String()
}

// Sign produces the signed cookie value for a visitor id: the base64url
// encoded id joined to its HMAC-SHA256 signature with a dot.
func Sign(id string, secret []byte) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(id))
	return payload + "." + signature(payload, secret)
}

// Verify parses a signed cookie value and returns the embedded visitor id.
func Verify(token string, secret []byte) (string, error) {
	payload, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || payload == "" || sig == "" {
		return "", ErrInvalidToken
	}
	expected := signature(payload, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidToken
	}
	id := string(raw)
	if _, err := ulid.ParseStrict(id); err != nil {
		return "", ErrInvalidToken
	}
	return id, nil
}

func signature(payload string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
