package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/pkg/jwthelper"
	"github.com/campusconnect/campus-api/internal/pkg/principal"
)

const signingKey = "middleware-test-key"

func init() {
	gin.SetMode(gin.TestMode)
}

// whoami echoes the resolved principal, or "anonymous".
func whoami(ctx *gin.Context) {
	p := Principal(ctx)
	if p == nil {
		ctx.String(http.StatusOK, "anonymous")
		return
	}

	ctx.String(http.StatusOK, p.UserID)
}

func newResolverRouter() *gin.Engine {
	r := gin.New()
	r.Use(NewPrincipalResolver(signingKey).Resolve())
	r.GET("/whoami", whoami)
	r.GET("/private", RequireAuth(), whoami)

	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func encodedPrincipal(t *testing.T, p domain.Principal) string {
	t.Helper()

	header, err := principal.Encode(p)
	require.NoError(t, err)

	return header
}

func bearer(t *testing.T, p domain.Principal) string {
	t.Helper()

	token, err := jwthelper.GenerateToken([]byte(signingKey), p, "test", time.Hour)
	require.NoError(t, err)

	return "Bearer " + token
}

func TestPrincipalResolver_Resolve(t *testing.T) {
	r := newResolverRouter()
	alice := domain.Principal{IdentityProvider: "aad", UserID: "alice", UserDetails: "alice@campus.edu", UserRoles: []string{domain.RoleStudent}}
	bob := domain.Principal{IdentityProvider: "local", UserID: "bob", UserRoles: []string{domain.RoleFaculty}}

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"no credentials", nil, "anonymous"},
		{"client principal header", map[string]string{principal.Header: encodedPrincipal(t, alice)}, "alice"},
		{"bearer token", map[string]string{"Authorization": bearer(t, bob)}, "bob"},
		{"header wins over token", map[string]string{
			principal.Header: encodedPrincipal(t, alice),
			"Authorization":  bearer(t, bob),
		}, "alice"},
		{"malformed header", map[string]string{principal.Header: "%%%not-base64"}, "anonymous"},
		{"header without user id", map[string]string{
			principal.Header: base64.StdEncoding.EncodeToString([]byte(`{"identityProvider":"aad"}`)),
		}, "anonymous"},
		{"token signed with another key", map[string]string{"Authorization": func() string {
			token, err := jwthelper.GenerateToken([]byte("other-key"), bob, "test", time.Hour)
			require.NoError(t, err)
			return "Bearer " + token
		}()}, "anonymous"},
		{"not a bearer scheme", map[string]string{"Authorization": "Basic Ym9iOnNlY3JldA=="}, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(r, "/whoami", tt.headers)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestPrincipalResolver_WithoutSigningKeyIgnoresTokens(t *testing.T) {
	r := gin.New()
	r.Use(NewPrincipalResolver("").Resolve())
	r.GET("/whoami", whoami)

	rec := get(r, "/whoami", map[string]string{"Authorization": bearer(t, domain.Principal{UserID: "bob"})})

	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireAuth(t *testing.T) {
	r := newResolverRouter()

	rec := get(r, "/private", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	rec = get(r, "/private", map[string]string{principal.Header: encodedPrincipal(t, domain.Principal{UserID: "alice"})})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestConfigCORS(t *testing.T) {
	preflight := func(r http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", principal.Header)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}
	router := func(allowed []string) *gin.Engine {
		r := gin.New()
		r.Use(ConfigCORS(allowed))
		r.GET("/whoami", whoami)
		return r
	}

	t.Run("wildcard allows any origin", func(t *testing.T) {
		rec := preflight(router([]string{"*"}), "https://anything.example")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin", func(t *testing.T) {
		rec := preflight(router([]string{"https://campus.edu"}), "https://campus.edu")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://campus.edu", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		rec := preflight(router([]string{"https://campus.edu"}), "https://evil.example")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := get(r, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}
