package handlers

import (
	"net/http"

	"agenda_backend/internal/calendar"
	"agenda_backend/internal/models"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AgendaHandler serves the calendar screen.
type AgendaHandler struct {
	agenda services.AgendaService
}

// NewAgendaHandler creates a new AgendaHandler.
func NewAgendaHandler(agenda services.AgendaService) *AgendaHandler {
	return &AgendaHandler{agenda: agenda}
}

// GetCalendar returns the 42-cell grid for ?month=YYYY-MM with ?selected=YYYY-MM-DD.
func (h *AgendaHandler) GetCalendar(c *gin.Context) {
	grid, err := h.agenda.Calendar(c.Query("month"), c.Query("selected"))
	if err != nil {
		utils.RespondWithError(c, agendaError(err, "build calendar"))
		return
	}
	c.JSON(http.StatusOK, grid)
}

// GetDashboard returns the grid, totals and appointment list for ?date.
func (h *AgendaHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.agenda.Dashboard(c.Query("date"), c.Query("month"))
	if err != nil {
		utils.RespondWithError(c, agendaError(err, "build dashboard"))
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *AgendaHandler) GetTimeSlots(c *gin.Context) {
	c.JSON(http.StatusOK, calendar.TimeSlots())
}

func (h *AgendaHandler) GetPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, models.PaymentMethods)
}

// Reload fetches everything from the store again.
func (h *AgendaHandler) Reload(c *gin.Context) {
	if err := h.agenda.Reload(c.Request.Context()); err != nil {
		utils.RespondWithError(c, agendaError(err, "reload agenda"))
		return
	}
	c.JSON(http.StatusOK, h.agenda.Status())
}
