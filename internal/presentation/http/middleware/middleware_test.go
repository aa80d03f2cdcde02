package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

type stubValidator struct {
	configured bool
}

func (s stubValidator) Configured() bool { return s.configured }

func (s stubValidator) ValidateToken(token string) (string, error) {
	if token == "good" {
		return "editor", nil
	}
	return "", errors.New("bad token")
}

func router(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(EditorAuthMiddleware(v, logging.Discard()))
	r.GET("/x", func(c *gin.Context) {
		role, _ := GetEditorRole(c)
		c.String(http.StatusOK, role)
	})
	return r
}

func get(r http.Handler, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEditorAuthMiddleware(t *testing.T) {
	r := router(stubValidator{configured: true})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "Bearer bad").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "Basic good").Code)

	w := get(r, "/x", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "editor", w.Body.String())

	assert.Equal(t, http.StatusOK, get(r, "/x?token=good", "").Code)
}

func TestEditorAuthMiddlewareUnconfigured(t *testing.T) {
	r := router(stubValidator{})
	assert.Equal(t, http.StatusOK, get(r, "/x", "").Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:4321"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:4321")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:4321", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
