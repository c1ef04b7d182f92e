package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/middleware"
)

// NewRouter mounts every route. allowOrigins may be empty, in which case no
// CORS headers are sent.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.Log))

	if len(allowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	adminAuth := middleware.AdminAuth(h.Users, h.Log)
	patientAuth := middleware.PatientAuth(h.Users, h.Log)

	userRoutes := r.Group("/api/v1/user")
	{
		userRoutes.POST("/patient/register", h.RegisterPatient)
		userRoutes.POST("/login", h.Login)
		userRoutes.POST("/admin/addnew", adminAuth, h.AddNewAdmin)
		userRoutes.POST("/doctor/addnew", adminAuth, h.AddNewDoctor)
		userRoutes.GET("/doctors", h.GetAllDoctors)
		userRoutes.GET("/patients", h.GetAllPatients)
		userRoutes.GET("/caregivers", h.GetAllCaregivers)
		userRoutes.GET("/admin/me", adminAuth, h.GetCurrentUser)
		userRoutes.GET("/patient/me", patientAuth, h.GetCurrentUser)
		userRoutes.GET("/admin/logout", adminAuth, h.LogoutAdmin)
		userRoutes.GET("/patient/logout", patientAuth, h.LogoutPatient)
		userRoutes.PUT("/update-profile", patientAuth, h.UpdateProfile)

		// assign/remove are reachable without a session, as deployed clients expect
		userRoutes.POST("/assign-caregiver", h.AssignCaregiver)
		userRoutes.POST("/remove-caregiver", h.RemoveCaregiver)
		userRoutes.GET("/caregiver-availability/:caregiverId", adminAuth, h.GetCaregiverAvailability)
		userRoutes.GET("/ongoing-assignments/:caregiverId", adminAuth, h.GetOngoingAssignments)
	}

	appointmentRoutes := r.Group("/api/v1/appointment")
	{
		appointmentRoutes.POST("/post", patientAuth, h.PostAppointment)
		appointmentRoutes.GET("/getall", adminAuth, h.GetAllAppointments)
		appointmentRoutes.PUT("/update/:id", adminAuth, h.UpdateAppointmentStatus)
	}

	return r
}
