package handlers

import (
	"net/http"

	"agenda_backend/internal/models"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler manages bookings.
type AppointmentHandler struct {
	agenda services.AgendaService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(agenda services.AgendaService) *AppointmentHandler {
	return &AppointmentHandler{agenda: agenda}
}

// GetAppointments lists every appointment held by the agenda.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments, err := h.agenda.Appointments()
	if err != nil {
		utils.RespondWithError(c, agendaError(err, "fetch appointments"))
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// CreateAppointment books a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var form models.AppointmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.LogError(err, "CreateAppointment: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	appointment, err := h.agenda.CreateAppointment(c.Request.Context(), form)
	if err != nil {
		utils.LogError(err, "CreateAppointment: Error from agenda.CreateAppointment")
		utils.RespondWithError(c, agendaError(err, "create appointment"))
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// UpdateAppointment replaces an appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id := c.Param("id")
	var form models.AppointmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.LogError(err, "UpdateAppointment: Failed to bind JSON for ID "+id)
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	appointment, err := h.agenda.UpdateAppointment(c.Request.Context(), id, form)
	if err != nil {
		utils.LogError(err, "UpdateAppointment: Error from agenda.UpdateAppointment for ID "+id)
		utils.RespondWithError(c, agendaError(err, "update appointment"))
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// DeleteAppointment handles deleting an appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id := c.Param("id")
	if err := h.agenda.DeleteAppointment(c.Request.Context(), id); err != nil {
		utils.LogError(err, "DeleteAppointment: Error from agenda.DeleteAppointment for ID "+id)
		utils.RespondWithError(c, agendaError(err, "delete appointment"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully."})
}

// ToggleAttendance flips the attended flag. When the store rejects the change the
// error is returned together with the appointment as the agenda now holds it.
func (h *AppointmentHandler) ToggleAttendance(c *gin.Context) {
	id := c.Param("id")
	appointment, err := h.agenda.ToggleAttendance(c.Request.Context(), id)
	if err != nil {
		apiErr := agendaError(err, "save attendance")
		if appointment != nil {
			c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr, "appointment": appointment})
			return
		}
		utils.RespondWithError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, appointment)
}
