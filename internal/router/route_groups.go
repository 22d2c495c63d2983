package router

import (
	"agenda_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes registers the routes reachable without a session.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, agendaHandler *handlers.AgendaHandler) {
	apiGroup.POST("/auth/login", authHandler.LoginUser)
	apiGroup.GET("/time-slots", agendaHandler.GetTimeSlots)
	apiGroup.GET("/payment-methods", agendaHandler.GetPaymentMethods)
}

// SetupAuthenticatedAuthRoutes sets up the session routes.
func SetupAuthenticatedAuthRoutes(authRoutes *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes.POST("/logout", authHandler.LogoutUser)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
}

// SetupServiceRoutes sets up the service catalog routes.
func SetupServiceRoutes(authenticatedGroup *gin.RouterGroup, serviceHandler *handlers.ServiceHandler) {
	serviceRoutes := authenticatedGroup.Group("/services")
	{
		serviceRoutes.GET("", serviceHandler.GetServices)
		serviceRoutes.POST("", serviceHandler.CreateService)
		serviceRoutes.PUT("/:id", serviceHandler.UpdateService)
		serviceRoutes.DELETE("/:id", serviceHandler.DeleteService)
	}
}

// SetupAppointmentRoutes sets up the appointment routes.
func SetupAppointmentRoutes(authenticatedGroup *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	appointmentRoutes := authenticatedGroup.Group("/appointments")
	{
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
		appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		appointmentRoutes.PATCH("/:id/attendance", appointmentHandler.ToggleAttendance)
	}
}

// SetupAgendaRoutes sets up the calendar and dashboard routes.
func SetupAgendaRoutes(authenticatedGroup *gin.RouterGroup, agendaHandler *handlers.AgendaHandler) {
	authenticatedGroup.GET("/calendar", agendaHandler.GetCalendar)
	authenticatedGroup.GET("/dashboard", agendaHandler.GetDashboard)
	authenticatedGroup.POST("/reload", agendaHandler.Reload)
}
