package handlers

import (
	"errors"
	"net/http"

	"agenda_backend/internal/repositories"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"
)

// agendaError maps controller and store errors onto the API error envelope.
func agendaError(err error, action string) *utils.APIError {
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed.", err.Error())
	case errors.Is(err, services.ErrNotAuthenticated):
		return utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not logged in.", err.Error())
	case errors.Is(err, services.ErrNotReady):
		return utils.NewAPIError(http.StatusLocked, utils.ErrCodeNotReady, "Agenda is still loading, try again shortly.", err.Error())
	case errors.Is(err, services.ErrServiceNotFound):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", err.Error())
	case errors.Is(err, services.ErrAppointmentNotFound):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Appointment not found.", err.Error())
	case errors.Is(err, services.ErrServiceInUse):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Service is used by appointments. Confirm to delete it anyway.", err.Error())
	case errors.Is(err, repositories.ErrStore):
		return utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeStoreUnavailable, "Failed to "+action+".", err.Error())
	default:
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error")
	}
}
