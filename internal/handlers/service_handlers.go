package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"agenda_backend/internal/models"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ServiceHandler manages the service catalog.
type ServiceHandler struct {
	agenda services.AgendaService
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(agenda services.AgendaService) *ServiceHandler {
	return &ServiceHandler{agenda: agenda}
}

// GetServices lists services ordered by name.
func (h *ServiceHandler) GetServices(c *gin.Context) {
	list, err := h.agenda.Services()
	if err != nil {
		utils.RespondWithError(c, agendaError(err, "fetch services"))
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateService handles the creation of a new service.
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var form models.ServiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.LogError(err, "CreateService: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	service, err := h.agenda.CreateService(c.Request.Context(), form)
	if err != nil {
		utils.LogError(err, "CreateService: Error from agenda.CreateService")
		utils.RespondWithError(c, agendaError(err, "create service"))
		return
	}
	c.JSON(http.StatusCreated, service)
}

// UpdateService replaces a service.
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id := c.Param("id")
	var form models.ServiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.LogError(err, "UpdateService: Failed to bind JSON for ID "+id)
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	service, err := h.agenda.UpdateService(c.Request.Context(), id, form)
	if err != nil {
		utils.LogError(err, "UpdateService: Error from agenda.UpdateService for ID "+id)
		utils.RespondWithError(c, agendaError(err, "update service"))
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteService deletes a service. ?confirm=true is required while appointments
// still reference it.
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id := c.Param("id")
	confirm, _ := strconv.ParseBool(c.DefaultQuery("confirm", "false"))

	if err := h.agenda.DeleteService(c.Request.Context(), id, confirm); err != nil {
		if errors.Is(err, services.ErrServiceInUse) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":        agendaError(err, "delete service"),
				"appointments": h.agenda.ServiceUsage(id),
			})
			return
		}
		utils.LogError(err, "DeleteService: Error from agenda.DeleteService for ID "+id)
		utils.RespondWithError(c, agendaError(err, "delete service"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully."})
}
