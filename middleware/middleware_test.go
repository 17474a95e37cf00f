package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/utils"
)

func TestMain(m *testing.M) {
	_ = os.Setenv("JWT_SECRET", "middleware-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func authEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		utils.Success(c, gin.H{"user_id": c.GetString(ContextUserIDKey)})
	})
	return r
}

func doGet(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	utils.SetRedis(nil)
	r := authEngine()

	token, err := utils.GenerateToken("u-42", time.Hour)
	require.NoError(t, err)

	w := doGet(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-42"`)

	cases := map[string]string{
		"missing":    "",
		"bad scheme": "Basic " + token,
		"empty":      "Bearer  ",
		"garbage":    "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := doGet(r, "/me", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	utils.SetRedis(nil)
	r := authEngine()

	token, err := utils.GenerateToken("u-1", time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	w := doGet(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40104")
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(4))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := []int{}
	for i := 0; i < 4; i++ {
		codes = append(codes, doGet(r, "/ping", "").Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRequestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(RequestMetrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	doGet(r, "/items/abc", "")

	w := httptest.NewRecorder()
	utils.MetricsHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `route="/items/:id"`)
}
