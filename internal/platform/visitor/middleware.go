package visitor

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/brandfolio/api/internal/platform/requestctx"
)

// CookieName is the visitor identity cookie issued to every browser.
const CookieName = "bf_visitor"

const defaultCookieMaxAge = 365 * 24 * time.Hour

// CookieConfig controls how the identity cookie is issued.
type CookieConfig struct {
	Secret []byte
	Secure bool
	MaxAge time.Duration
}

// Middleware ensures every request carries a verified visitor identity.
// A valid cookie is decoded onto the context; anything else is replaced
// with a freshly minted identity. Persistence of wishlist and theme state
// keys off this identifier, so the cookie is httponly and long-lived.
func Middleware(cfg CookieConfig) func(http.Handler) http.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = defaultCookieMaxAge
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var id string
			if cookie, err := r.Cookie(CookieName); err == nil {
				parsed, err := Verify(cookie.Value, cfg.Secret)
				if err != nil {
					requestctx.Logger(ctx).Debug("visitor cookie rejected", zap.Error(err))
				} else {
					id = parsed
				}
			}

			if id == "" {
				id = NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    Sign(id, cfg.Secret),
					Path:     "/",
					MaxAge:   int(maxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithID(ctx, id)))
		})
	}
}
