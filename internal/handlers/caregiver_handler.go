package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/services"
)

func (h *Handler) AssignCaregiver(c *gin.Context) {
	var req services.AssignmentInput
	if !h.bind(c, &req) {
		return
	}
	result, err := h.Caregivers.Assign(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Caregiver Assigned Successfully!",
		"patient":   result.Patient,
		"caregiver": result.Caregiver,
	})
}

func (h *Handler) RemoveCaregiver(c *gin.Context) {
	var req services.AssignmentInput
	if !h.bind(c, &req) {
		return
	}
	result, err := h.Caregivers.Remove(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Caregiver Removed Successfully!",
		"patient":   result.Patient,
		"caregiver": result.Caregiver,
	})
}

func (h *Handler) GetCaregiverAvailability(c *gin.Context) {
	available, err := h.Caregivers.Availability(c.Request.Context(), c.Param("caregiverId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "availability": available})
}

func (h *Handler) GetOngoingAssignments(c *gin.Context) {
	assignments, err := h.Caregivers.OngoingAssignments(c.Request.Context(), c.Param("caregiverId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ongoingAssignments": assignments})
}
