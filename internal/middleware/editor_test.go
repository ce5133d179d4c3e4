package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performWithRole(role string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected",
		func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
		},
		RequireEditor(),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireEditor(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole("editor").Code)
	assert.Equal(t, http.StatusOK, performWithRole("admin").Code)
	assert.Equal(t, http.StatusForbidden, performWithRole("author").Code)
	assert.Equal(t, http.StatusForbidden, performWithRole("").Code)
}
