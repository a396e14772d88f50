package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/domain"
)

func serve(t *testing.T, req *http.Request) (domain.SessionKey, *http.Response) {
	t.Helper()
	var got domain.SessionKey
	h := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = SessionKeyFromContext(r.Context())
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return got, w.Result()
}

func TestMiddleware_MintsCookie(t *testing.T) {
	key, resp := serve(t, httptest.NewRequest(http.MethodGet, "/api/chat", nil))

	assert.Regexp(t, `^anon_[a-f0-9]{32}$`, key.UserID)
	assert.Equal(t, DefaultSessionIDValue, key.SessionID)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AnonCookieName, cookies[0].Name)
	assert.Equal(t, key.UserID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure, "dev mode cookies work over plain http")
}

func TestMiddleware_ReusesValidCookie(t *testing.T) {
	id := "anon_0123456789abcdef0123456789abcdef"
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	req.Header.Set(SessionHeaderName, "tab-2")

	key, _ := serve(t, req)
	assert.Equal(t, domain.SessionKey{UserID: id, SessionID: "tab-2"}, key)
}

func TestMiddleware_RejectsForgedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "admin"})

	key, _ := serve(t, req)
	assert.NotEqual(t, "admin", key.UserID)
	assert.Regexp(t, `^anon_[a-f0-9]{32}$`, key.UserID)
}

func TestSessionIDFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{"header", "abc", "", "abc"},
		{"query fallback", "", "q1", "q1"},
		{"header wins", "h", "q", "h"},
		{"invalid chars", "bad id!", "", DefaultSessionIDValue},
		{"empty", "", "", DefaultSessionIDValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/quiz"
			if tt.query != "" {
				target += "?session_id=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set(SessionHeaderName, tt.header)
			}
			assert.Equal(t, tt.want, sessionIDFromRequest(req))
		})
	}
}
