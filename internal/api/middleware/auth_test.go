package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/taoyao-code/scoreboard-server/internal/config"
)

func newAuthRouter(cfg config.APIAuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyAuth(cfg, zap.NewNop()))
	r.GET("/api/status", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := config.APIAuthConfig{Enabled: true, APIKeys: []string{"sk_live_0123456789"}}

	tests := []struct {
		name   string
		header string
		value  string
		code   int
	}{
		{"缺少Key", "", "", http.StatusUnauthorized},
		{"X-API-Key有效", "X-API-Key", "sk_live_0123456789", http.StatusOK},
		{"Bearer有效", "Authorization", "Bearer sk_live_0123456789", http.StatusOK},
		{"无效Key", "X-API-Key", "sk_live_wrong", http.StatusForbidden},
	}
	r := newAuthRouter(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	r := newAuthRouter(config.APIAuthConfig{Enabled: false})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk_l****6789", maskAPIKey("sk_live_0123456789"))
}
