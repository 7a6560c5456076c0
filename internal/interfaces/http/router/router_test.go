package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/facturio/backend/internal/infrastructure/config"
)

type stubRegistrar struct {
	path string
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(s.path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func testDeps() Dependencies {
	return Dependencies{
		Config: &config.Config{
			App: config.AppConfig{Name: "facturio-backend", Env: "test"},
		},
		Logger: zap.NewNop(),
		System: []RouteRegistrar{&stubRegistrar{path: "/health"}},
		API:    []RouteRegistrar{&stubRegistrar{path: "/documents"}},
	}
}

func TestNew_SystemRoutesUnauthenticated(t *testing.T) {
	deps := testDeps()
	deps.JWTService = auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-unit-tests-32ch",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "facturio-test",
	})
	engine := New(deps)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_APIRequiresAuthentication(t *testing.T) {
	deps := testDeps()
	svc := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-unit-tests-32ch",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "facturio-test",
	})
	deps.JWTService = svc
	engine := New(deps)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := svc.GenerateToken(uuid.New(), "marie", identity.NewRoleSet("USER"))
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_NoJWTServiceLeavesAPIOpen(t *testing.T) {
	engine := New(testDeps())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RequestIDHeaderSet(t *testing.T) {
	engine := New(testDeps())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
