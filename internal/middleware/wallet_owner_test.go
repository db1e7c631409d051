package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireWalletOwner(t *testing.T) {
	tests := []struct {
		name       string
		owner      string
		subject    string
		wantStatus int
	}{
		{name: "owner", owner: "uid-1", subject: "uid-1", wantStatus: http.StatusOK},
		{name: "other user", owner: "uid-1", subject: "uid-2", wantStatus: http.StatusForbidden},
		{name: "nobody signed in", owner: "", subject: "uid-1", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.GET("/wallet",
				AuthMiddleware(testSecret, testIssuer),
				RequireWalletOwner(func() string { return tt.owner }),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
			req.Header.Set("Authorization", "Bearer "+mustToken(t, tt.subject, testSecret, time.Hour, testIssuer))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireWalletOwner_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/wallet", RequireWalletOwner(func() string { return "uid-1" }), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
