package repositories

import (
	"context"

	"agenda_backend/internal/models"
)

// ServiceRepository is the store boundary for the service catalog. Every call either
// succeeds fully or fails with an error wrapping ErrStore; there are no retries.
type ServiceRepository interface {
	ListServices(ctx context.Context) ([]models.Service, error) // ordered by name
	CreateService(ctx context.Context, fields models.ServiceFields) (*models.Service, error)
	UpdateService(ctx context.Context, id string, fields models.ServiceFields) (*models.Service, error)
	DeleteService(ctx context.Context, id string) error
}

// AppointmentRepository is the store boundary for appointments.
type AppointmentRepository interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error) // ordered by date, time
	CreateAppointment(ctx context.Context, fields models.AppointmentFields) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, fields models.AppointmentFields) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	SetAttendance(ctx context.Context, id string, attended bool) error
}
