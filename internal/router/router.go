package router

import (
	"agenda_backend/internal/handlers"
	"agenda_backend/internal/middleware"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup registers the /api/v1 routes for the agenda.
func Setup(engine *gin.Engine, agenda services.AgendaService, signer *utils.SessionSigner) {
	authHandler := handlers.NewAuthHandler(agenda, signer)
	serviceHandler := handlers.NewServiceHandler(agenda)
	appointmentHandler := handlers.NewAppointmentHandler(agenda)
	agendaHandler := handlers.NewAgendaHandler(agenda)

	apiV1 := engine.Group("/api/v1")
	SetupPublicRoutes(apiV1, authHandler, agendaHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.SessionMiddleware(signer, agenda))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupServiceRoutes(authenticated, serviceHandler)
		SetupAppointmentRoutes(authenticated, appointmentHandler)
		SetupAgendaRoutes(authenticated, agendaHandler)
	}
}
