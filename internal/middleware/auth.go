package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

const (
	AdminCookie   = "adminToken"
	PatientCookie = "patientToken"

	sessionKey = "session"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token, role string) (*models.User, *utils.Claims, error)
}

// Session is the authenticated caller attached to a request.
type Session struct {
	User   *models.User
	Claims *utils.Claims
}

// CookieFor names the cookie that carries a session for role.
func CookieFor(role string) string {
	if role == models.RoleAdmin {
		return AdminCookie
	}
	return PatientCookie
}

func AdminAuth(auth Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return RequireRole(auth, log, models.RoleAdmin)
}

func PatientAuth(auth Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return RequireRole(auth, log, models.RolePatient)
}

// RequireRole reads the role's cookie, falling back to a bearer token, and
// rejects the request with 401 unless it resolves to a user of that role.
func RequireRole(auth Authenticator, log *logrus.Logger, role string) gin.HandlerFunc {
	cookieName := CookieFor(role)
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		if token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), token, role)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"role": role, "path": c.FullPath()}).Debug("session rejected")
			response.Error(c, log, err)
			return
		}

		c.Set(sessionKey, &Session{User: user, Claims: claims})
		c.Next()
	}
}

// SessionFrom returns the session set by RequireRole.
func SessionFrom(c *gin.Context) (*Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*Session)
	return session, ok
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
