package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuepoint/venue-booking-backend/internal/models"
	"github.com/venuepoint/venue-booking-backend/pkg/jwt"
)

func setupRouter(jwtService *jwt.Service, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/protected")
	group.Use(AuthMiddleware(jwtService))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("", func(c *gin.Context) {
		userCtx, _ := GetUserContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userCtx.UserID})
	})
	return router
}

func issueToken(t *testing.T, jwtService *jwt.Service, role models.Role) string {
	t.Helper()
	token, err := jwtService.GenerateAccessToken(&models.User{
		ID:       uuid.New(),
		Username: "nimal",
		Role:     role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	router := setupRouter(jwtService)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "valid token",
			header:     "Bearer " + issueToken(t, jwtService, models.RoleCustomer),
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty bearer token",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	router := setupRouter(jwtService)

	refresh, err := jwtService.GenerateRefreshToken(&models.User{ID: uuid.New(), Role: models.RoleCustomer})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	tests := []struct {
		name       string
		required   []models.Role
		tokenRole  models.Role
		wantStatus int
	}{
		{
			name:       "admin passes admin gate",
			required:   []models.Role{models.RoleAdmin},
			tokenRole:  models.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "customer blocked from admin gate",
			required:   []models.Role{models.RoleAdmin},
			tokenRole:  models.RoleCustomer,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "manager passes staff gate",
			required:   []models.Role{models.RoleAdmin, models.RoleEventManager},
			tokenRole:  models.RoleEventManager,
			wantStatus: http.StatusOK,
		},
		{
			name:       "customer blocked from staff gate",
			required:   []models.Role{models.RoleAdmin, models.RoleEventManager},
			tokenRole:  models.RoleCustomer,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(jwtService, tt.required...)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, tt.tokenRole))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
