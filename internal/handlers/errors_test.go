package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"agenda_backend/internal/repositories"
	"agenda_backend/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestAgendaErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: name is required", services.ErrValidation), http.StatusBadRequest},
		{services.ErrNotAuthenticated, http.StatusUnauthorized},
		{services.ErrNotReady, http.StatusLocked},
		{fmt.Errorf("%w: %w", services.ErrServiceNotFound, repositories.ErrStore), http.StatusNotFound},
		{services.ErrAppointmentNotFound, http.StatusNotFound},
		{services.ErrServiceInUse, http.StatusConflict},
		{fmt.Errorf("%w: timeout", repositories.ErrStore), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		apiErr := agendaError(tt.err, "do it")
		assert.Equal(t, tt.status, apiErr.StatusCode, tt.err.Error())
	}
}
