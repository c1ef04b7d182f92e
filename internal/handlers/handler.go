package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/hospital-api/internal/apperror"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/response"
	"github.com/harentsoaR/hospital-api/internal/services"
)

// Handler carries the services every route needs.
type Handler struct {
	Users        *services.UserService
	Caregivers   *services.CaregiverService
	Appointments *services.AppointmentService
	Log          *logrus.Logger
	CookieTTL    time.Duration
}

func NewHandler(users *services.UserService, caregivers *services.CaregiverService, appointments *services.AppointmentService, log *logrus.Logger, cookieTTL time.Duration) *Handler {
	return &Handler{
		Users:        users,
		Caregivers:   caregivers,
		Appointments: appointments,
		Log:          log,
		CookieTTL:    cookieTTL,
	}
}

// fail is the single conversion point from errors to HTTP responses.
func (h *Handler) fail(c *gin.Context, err error) {
	response.Error(c, h.Log, err)
}

// bind decodes a JSON body. An empty body decodes to the zero value so the
// service reports which fields are missing.
func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, apperror.ValidationFields("Invalid request body", map[string]string{"body": err.Error()}))
		return false
	}
	return true
}

// session returns the caller attached by the auth middleware.
func (h *Handler) session(c *gin.Context) (*middleware.Session, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		h.fail(c, apperror.Unauthorized("User is not authenticated!"))
		return nil, false
	}
	return session, true
}

func (h *Handler) setSessionCookie(c *gin.Context, session *services.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.CookieFor(session.User.Role),
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.CookieTTL),
		MaxAge:   int(h.CookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearSessionCookie overwrites name with an empty, already expired cookie.
func (h *Handler) clearSessionCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
