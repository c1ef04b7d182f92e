package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/services"
)

// --- BOOK APPOINTMENT (patient session) ---
func (h *Handler) PostAppointment(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req services.BookingInput
	if !h.bind(c, &req) {
		return
	}

	apt, err := h.Appointments.Book(c.Request.Context(), session.User, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment Sent!", "appointment": apt})
}

// --- LIST APPOINTMENTS (admin session) ---
func (h *Handler) GetAllAppointments(c *gin.Context) {
	appointments, err := h.Appointments.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appointments})
}

// --- UPDATE APPOINTMENT STATUS (admin session) ---
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var req services.StatusInput
	if !h.bind(c, &req) {
		return
	}

	apt, err := h.Appointments.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment Status Updated!", "appointment": apt})
}
