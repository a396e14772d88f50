// Package identity gives every browser an anonymous ID and every tab a
// session ID, and carries both on the request context.
package identity

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/shsh-demos/internal/domain"
)

const (
	AnonCookieName        = "demo_anon_id"
	SessionHeaderName     = "X-Demo-Session-ID"
	SessionQueryParam     = "session_id"
	DefaultSessionIDValue = "default"
	anonCookieMaxAge      = 30 * 24 * time.Hour
)

type contextKey int

const sessionKeyKey contextKey = iota

var (
	anonIDPattern    = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// WithSessionKey returns a copy of ctx carrying key.
func WithSessionKey(ctx context.Context, key domain.SessionKey) context.Context {
	return context.WithValue(ctx, sessionKeyKey, key)
}

// SessionKeyFromContext extracts the session key from the request context.
func SessionKeyFromContext(ctx context.Context) domain.SessionKey {
	if v, ok := ctx.Value(sessionKeyKey).(domain.SessionKey); ok {
		return v
	}
	return domain.SessionKey{SessionID: DefaultSessionIDValue}
}

// UserIDFromContext extracts the anonymous user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	return SessionKeyFromContext(ctx).UserID
}

func generateAnonID() string {
	return "anon_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return DefaultSessionIDValue
	}
	return id
}

// getOrCreateAnonID reuses a valid cookie or mints a new ID, and (re)sets
// the cookie either way so its expiry slides.
func getOrCreateAnonID(w http.ResponseWriter, r *http.Request, isDev bool) string {
	id := ""
	if c, err := r.Cookie(AnonCookieName); err == nil && isValidAnonID(c.Value) {
		id = c.Value
	} else {
		id = generateAnonID()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
	return id
}

func sessionIDFromRequest(r *http.Request) string {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get(SessionQueryParam)
	}
	return sanitizeSessionID(sid)
}

// Middleware injects the anonymous per-browser identity and per-tab session ID.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := domain.SessionKey{
				UserID:    getOrCreateAnonID(w, r, isDev),
				SessionID: sessionIDFromRequest(r),
			}
			next.ServeHTTP(w, r.WithContext(WithSessionKey(r.Context(), key)))
		})
	}
}
