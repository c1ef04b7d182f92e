package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/services"
)

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req services.RegisterInput
	if !h.bind(c, &req) {
		return
	}

	session, err := h.Users.RegisterPatient(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User Registered Successfully!",
		"user":    session.User,
		"token":   session.Token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if !h.bind(c, &req) {
		return
	}

	session, err := h.Users.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User Login Successfully!",
		"user":    session.User,
		"token":   session.Token,
	})
}

// GetCurrentUser returns the user the auth middleware resolved.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": session.User})
}

func (h *Handler) LogoutAdmin(c *gin.Context) {
	h.logout(c, middleware.AdminCookie, "Admin logged out successfully!")
}

func (h *Handler) LogoutPatient(c *gin.Context) {
	h.logout(c, middleware.PatientCookie, "Patient logged out successfully!")
}

// logout clears only the named cookie; other role sessions on the same
// client are left alone.
func (h *Handler) logout(c *gin.Context, cookieName, message string) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.Users.Logout(c.Request.Context(), session.Claims)
	h.clearSessionCookie(c, cookieName)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
