package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"agenda_backend/internal/models"
	"agenda_backend/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/postgrest-go"
)

const (
	servicesTable     = "services"
	appointmentsTable = "appointments"
)

// PostgrestClient is satisfied by *supabase.Client and *postgrest.Client.
type PostgrestClient interface {
	From(table string) *postgrest.QueryBuilder
}

// rowID accepts both uuid strings and integer identity columns.
type rowID string

func (id *rowID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = rowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("unexpected id %s: %w", b, err)
	}
	*id = rowID(n.String())
	return nil
}

type serviceRow struct {
	ID          rowID               `json:"id"`
	Name        *string             `json:"name"`
	Price       decimal.NullDecimal `json:"price"`
	Duration    *float64            `json:"duration"`
	Description *string             `json:"description"`
}

type servicePayload struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Duration    int         `json:"duration"`
	Description string      `json:"description"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r serviceRow) toModel() models.Service {
	s := models.Service{
		ID:          string(r.ID),
		Name:        deref(r.Name),
		Price:       decimal.Zero,
		Description: deref(r.Description),
	}
	if r.Price.Valid {
		s.Price = r.Price.Decimal
	}
	if r.Duration != nil {
		s.Duration = int(*r.Duration)
	}
	return s
}

func toServicePayload(f models.ServiceFields) servicePayload {
	return servicePayload{
		Name:        f.Name,
		Price:       json.Number(f.Price.String()),
		Duration:    f.Duration,
		Description: f.Description,
	}
}

type appointmentRow struct {
	ID            rowID   `json:"id"`
	ClientName    *string `json:"client_name"`
	Phone         *string `json:"phone"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	ServiceID     *rowID  `json:"service_id"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
	Attended      *bool   `json:"attended"`
}

type appointmentPayload struct {
	ClientName    string  `json:"client_name"`
	Phone         string  `json:"phone"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	ServiceID     *string `json:"service_id"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
	Attended      bool    `json:"attended"`
}

func (r appointmentRow) toModel() models.Appointment {
	a := models.Appointment{
		ID:            string(r.ID),
		ClientName:    deref(r.ClientName),
		Phone:         deref(r.Phone),
		Date:          deref(r.Date),
		Time:          utils.ClockPrefix(deref(r.Time)),
		PaymentMethod: deref(r.PaymentMethod),
		Notes:         deref(r.Notes),
		Attended:      r.Attended != nil && *r.Attended,
	}
	if r.ServiceID != nil {
		a.ServiceID = string(*r.ServiceID)
	}
	return a
}

func toAppointmentPayload(f models.AppointmentFields) appointmentPayload {
	return appointmentPayload{
		ClientName:    f.ClientName,
		Phone:         f.Phone,
		Date:          f.Date,
		Time:          f.Time,
		ServiceID:     utils.NewNullString(f.ServiceID),
		PaymentMethod: f.PaymentMethod,
		Notes:         f.Notes,
		Attended:      f.Attended,
	}
}

// execRows runs a PostgREST request and decodes the returned JSON array.
func execRows[T any](op string, fb *postgrest.FilterBuilder) ([]T, error) {
	data, _, err := fb.Execute()
	if err != nil {
		return nil, storeFailure(op, err)
	}
	rows := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, storeFailure(op, fmt.Errorf("decoding response: %w", err))
	}
	return rows, nil
}

var ascending = &postgrest.OrderOpts{Ascending: true}

type supabaseServiceRepository struct {
	client PostgrestClient
}

// NewSupabaseServiceRepository stores services in the Supabase "services" table.
func NewSupabaseServiceRepository(client PostgrestClient) ServiceRepository {
	return &supabaseServiceRepository{client: client}
}

func (r *supabaseServiceRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := execRows[serviceRow]("list services", r.client.From(servicesTable).
		Select("*", "", false).
		Order("name", ascending))
	if err != nil {
		return nil, err
	}
	services := make([]models.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, row.toModel())
	}
	return services, nil
}

func (r *supabaseServiceRepository) CreateService(ctx context.Context, fields models.ServiceFields) (*models.Service, error) {
	rows, err := execRows[serviceRow]("create service", r.client.From(servicesTable).
		Insert(toServicePayload(fields), false, "", "representation", ""))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storeFailure("create service", fmt.Errorf("insert returned no row"))
	}
	s := rows[0].toModel()
	return &s, nil
}

func (r *supabaseServiceRepository) UpdateService(ctx context.Context, id string, fields models.ServiceFields) (*models.Service, error) {
	rows, err := execRows[serviceRow]("update service", r.client.From(servicesTable).
		Update(toServicePayload(fields), "representation", "").
		Eq("id", id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound("update service", id)
	}
	s := rows[0].toModel()
	return &s, nil
}

func (r *supabaseServiceRepository) DeleteService(ctx context.Context, id string) error {
	rows, err := execRows[serviceRow]("delete service", r.client.From(servicesTable).
		Delete("representation", "").
		Eq("id", id))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return notFound("delete service", id)
	}
	return nil
}

type supabaseAppointmentRepository struct {
	client PostgrestClient
}

// NewSupabaseAppointmentRepository stores appointments in the Supabase "appointments" table.
func NewSupabaseAppointmentRepository(client PostgrestClient) AppointmentRepository {
	return &supabaseAppointmentRepository{client: client}
}

func (r *supabaseAppointmentRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	rows, err := execRows[appointmentRow]("list appointments", r.client.From(appointmentsTable).
		Select("*", "", false).
		Order("date", ascending).
		Order("time", ascending))
	if err != nil {
		return nil, err
	}
	appointments := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toModel())
	}
	return appointments, nil
}

func (r *supabaseAppointmentRepository) CreateAppointment(ctx context.Context, fields models.AppointmentFields) (*models.Appointment, error) {
	rows, err := execRows[appointmentRow]("create appointment", r.client.From(appointmentsTable).
		Insert(toAppointmentPayload(fields), false, "", "representation", ""))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storeFailure("create appointment", fmt.Errorf("insert returned no row"))
	}
	a := rows[0].toModel()
	return &a, nil
}

func (r *supabaseAppointmentRepository) UpdateAppointment(ctx context.Context, id string, fields models.AppointmentFields) (*models.Appointment, error) {
	rows, err := execRows[appointmentRow]("update appointment", r.client.From(appointmentsTable).
		Update(toAppointmentPayload(fields), "representation", "").
		Eq("id", id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound("update appointment", id)
	}
	a := rows[0].toModel()
	return &a, nil
}

func (r *supabaseAppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	rows, err := execRows[appointmentRow]("delete appointment", r.client.From(appointmentsTable).
		Delete("representation", "").
		Eq("id", id))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return notFound("delete appointment", id)
	}
	return nil
}

func (r *supabaseAppointmentRepository) SetAttendance(ctx context.Context, id string, attended bool) error {
	rows, err := execRows[appointmentRow]("set attendance", r.client.From(appointmentsTable).
		Update(map[string]interface{}{"attended": attended}, "representation", "").
		Eq("id", id))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return notFound("set attendance", id)
	}
	return nil
}
