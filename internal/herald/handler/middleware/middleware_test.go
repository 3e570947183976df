package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(mw...)
	g.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	g.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return g
}

func do(g *gin.Engine, method, path, remote string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remote
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestBearerAuth(t *testing.T) {
	g := newEngine(BearerAuth(&AuthConfig{Enabled: true, Token: "s3cret"}), Identity("default"))
	remote := "10.1.2.3:5555"

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/whoami", "", http.StatusUnauthorized},
		{"wrong scheme", "/whoami", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "/whoami", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/whoami", "Bearer s3cret", http.StatusOK},
		{"health is open", "/healthz", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			assert.Equal(t, tt.want, do(g, http.MethodGet, tt.path, remote, headers).Code)
		})
	}
}

func TestBearerAuthLocalBypass(t *testing.T) {
	cfg := &AuthConfig{Enabled: true, Token: "s3cret", AllowLocal: true}
	g := newEngine(BearerAuth(cfg), Identity("default"))
	assert.Equal(t, http.StatusOK, do(g, http.MethodGet, "/whoami", "127.0.0.1:4000", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(g, http.MethodGet, "/whoami", "192.168.0.9:4000", nil).Code)

	cfg.AllowLocal = false
	assert.Equal(t, http.StatusUnauthorized, do(g, http.MethodGet, "/whoami", "127.0.0.1:4000", nil).Code)
}

func TestIdentity(t *testing.T) {
	g := newEngine(Identity("default"))

	w := do(g, http.MethodGet, "/whoami", "10.0.0.1:1", map[string]string{UserIDHeader: " alice "})
	assert.Equal(t, "alice", w.Body.String())

	w = do(g, http.MethodGet, "/whoami", "10.0.0.1:1", nil)
	assert.Equal(t, "default", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	g := newEngine(CORS())
	w := do(g, http.MethodOptions, "/whoami", "10.0.0.1:1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
