package profiles

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-backend/internal/shared/auth"
	"agri-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier, err := auth.NewVerifier("test-secret", false)
	require.NoError(t, err)
	token, err := verifier.Sign(auth.Claims{Sub: "user-1"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Auth(middleware.AuthConfig{
		Verifier:    verifier,
		PublicPaths: []string{"/profile/cities"},
	}))
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(&r.RouterGroup)
	return r, token
}

func TestProfileRoundTrip(t *testing.T) {
	r, token := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)

	body := `{"name":"Asha","phoneNumber":"9876543210","city":"Pune"}`
	req = httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"complete":true`)

	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"city":"Pune"`)
	assert.Contains(t, resp.Body.String(), `"userId":"user-1"`)
}

func TestProfilePutValidationError(t *testing.T) {
	r, token := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"name":"A","phoneNumber":"9876543210","city":"Pune"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"validation_error","message":"invalid profile","details":{"name":"Name must be 2-100 characters"}}}`, resp.Body.String())
}

func TestProfileGuestNeedsLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("X-Guest-Id", "6f1c2b7e-3a41-4c55-9d7e-0b8a5f2c9e10")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"login_required"`)
}

func TestCitiesArePublic(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profile/cities", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Tiruchirappalli"`)
}
