package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/WooodHead/blog-be-next/internal/middleware"
	"github.com/WooodHead/blog-be-next/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRoleGateRouter(user *models.User, roles ...models.UserRole) *gin.Engine {
	router := gin.New()
	router.GET("/admin",
		func(c *gin.Context) {
			if user != nil {
				c.Set(middleware.ContextUserKey, *user)
			}
		},
		middleware.RequireRoles(roles...),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)
	return router
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       *models.User
		roles      []models.UserRole
		wantStatus int
	}{
		{
			name:       "superuser allowed",
			user:       &models.User{ID: "u1", Role: models.UserRoleSuperuser},
			roles:      []models.UserRole{models.UserRoleSuperuser},
			wantStatus: http.StatusOK,
		},
		{
			name:       "regular user forbidden",
			user:       &models.User{ID: "u2", Role: models.UserRoleUser},
			roles:      []models.UserRole{models.UserRoleSuperuser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no user in context",
			user:       nil,
			roles:      []models.UserRole{models.UserRoleSuperuser},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := newRoleGateRouter(tt.user, tt.roles...)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(middleware.CORS([]string{"https://yancey.app"}))
	router.POST("/resource", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/resource", nil)
		req.Header.Set("Origin", "https://yancey.app")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://yancey.app", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin not echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/resource", nil)
		req.Header.Set("Origin", "https://evil.example")
		router.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
