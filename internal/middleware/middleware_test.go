package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-performance-api/internal/models"
	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
)

type stubAuthenticator struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*models.JWTClaims, error) {
	s.token = token
	return s.claims, s.err
}

type recordingObserver struct {
	method, path string
	status       int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.method, r.path, r.status = method, path, status
}

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	r := gin.New()
	r.GET("/protected", JWT(&stubAuthenticator{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Token abc", "Bearer "} {
		w := perform(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, w))
	}
}

func TestJWTStoresClaims(t *testing.T) {
	auth := &stubAuthenticator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}}
	r := gin.New()
	r.GET("/protected", JWT(auth), func(c *gin.Context) {
		c.String(http.StatusOK, ClaimsFromContext(c).UserID)
	})

	w := perform(r, "bearer abc.def")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
	assert.Equal(t, "abc.def", auth.token)
}

func TestJWTPropagatesAuthenticatorError(t *testing.T) {
	auth := &stubAuthenticator{err: appErrors.Clone(appErrors.ErrUnauthorized, "token has been revoked")}
	r := gin.New()
	r.GET("/protected", JWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, "Bearer revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		role   models.UserRole
		status int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleTeacher, http.StatusOK},
		{models.RoleStudent, http.StatusForbidden},
	}
	for _, tc := range cases {
		auth := &stubAuthenticator{claims: &models.JWTClaims{UserID: "u1", Role: tc.role}}
		r := gin.New()
		r.GET("/protected", JWT(auth), RequireRoles(models.RoleAdmin, models.RoleTeacher), func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, tc.status, perform(r, "Bearer t").Code, tc.role)
	}

	r := gin.New()
	r.GET("/protected", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
}

func TestResponseMetaAndMetrics(t *testing.T) {
	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(observer), WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/protected", func(c *gin.Context) {
		SetMeta(c, "source", "postgres")
		meta = ExtractMeta(c)
		c.Status(http.StatusTeapot)
	})

	perform(r, "")
	assert.Equal(t, "postgres", meta["source"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.Equal(t, http.MethodGet, observer.method)
	assert.Equal(t, "/protected", observer.path)
	assert.Equal(t, http.StatusTeapot, observer.status)
}
