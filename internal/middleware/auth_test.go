package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/hospital-api/internal/apperror"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// stubAuthenticator accepts exactly one token for one role.
type stubAuthenticator struct {
	token string
	role  string
	seen  []string
}

func (a *stubAuthenticator) Authenticate(_ context.Context, token, role string) (*models.User, *utils.Claims, error) {
	a.seen = append(a.seen, token)
	if token == "" || token != a.token || role != a.role {
		return nil, nil, apperror.Unauthorized("User is not authenticated!")
	}
	user := models.NewUser(role)
	user.FirstName = "Ann"
	return user, &utils.Claims{Role: role, RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"}}, nil
}

func newAuthRouter(auth Authenticator, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	r.GET("/me", RequireRole(auth, log, role), func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"firstName": session.User.FirstName, "jti": session.Claims.ID})
	})
	return r
}

func TestRequireRoleReadsRoleCookie(t *testing.T) {
	auth := &stubAuthenticator{token: "good", role: models.RoleAdmin}
	r := newAuthRouter(auth, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookie, Value: "good"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"firstName":"Ann","jti":"jti-1"}`, rec.Body.String())
}

func TestRequireRoleIgnoresOtherRolesCookie(t *testing.T) {
	auth := &stubAuthenticator{token: "good", role: models.RoleAdmin}
	r := newAuthRouter(auth, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: PatientCookie, Value: "good"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{""}, auth.seen)
}

func TestRequireRoleFallsBackToBearer(t *testing.T) {
	auth := &stubAuthenticator{token: "good", role: models.RolePatient}
	r := newAuthRouter(auth, models.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsWithEnvelope(t *testing.T) {
	auth := &stubAuthenticator{token: "good", role: models.RolePatient}
	r := newAuthRouter(auth, models.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(http.StatusUnauthorized), body["statusCode"])
	assert.Equal(t, "User is not authenticated!", body["message"])
}

func TestCookieFor(t *testing.T) {
	assert.Equal(t, AdminCookie, CookieFor(models.RoleAdmin))
	assert.Equal(t, PatientCookie, CookieFor(models.RolePatient))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("Bearer"))
	assert.Empty(t, bearerToken(""))
}
