package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/services"
)

func (h *Handler) AddNewAdmin(c *gin.Context) {
	var req services.StaffInput
	if !h.bind(c, &req) {
		return
	}
	admin, err := h.Users.AddAdmin(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "New Admin Registered!", "admin": admin})
}

func (h *Handler) AddNewDoctor(c *gin.Context) {
	var req services.StaffInput
	if !h.bind(c, &req) {
		return
	}
	doctor, err := h.Users.AddDoctor(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "New Doctor Registered!", "doctor": doctor})
}

func (h *Handler) GetAllDoctors(c *gin.Context) {
	h.list(c, "doctors", h.Users.ListDoctors)
}

func (h *Handler) GetAllPatients(c *gin.Context) {
	h.list(c, "patients", h.Users.ListPatients)
}

func (h *Handler) GetAllCaregivers(c *gin.Context) {
	h.list(c, "caregivers", h.Users.ListCaregivers)
}

func (h *Handler) list(c *gin.Context, key string, fetch func(context.Context) ([]models.User, error)) {
	users, err := fetch(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, key: users})
}

// UpdateProfile overwrites the caller's identity fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req services.ProfileInput
	if !h.bind(c, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), session.User.ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile Updated Successfully!", "user": user})
}
