package repositories

import (
	"context"
	"database/sql"
	"errors"

	"agenda_backend/internal/models"
	"agenda_backend/pkg/utils"
)

const appointmentColumns = `id, client_name, phone, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'),
	service_id, payment_method, notes, attended`

type appointmentRepository struct {
	db SQLExecutor
}

// NewAppointmentRepository creates a Postgres-backed AppointmentRepository.
func NewAppointmentRepository(db SQLExecutor) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func scanAppointment(row scanner) (*models.Appointment, error) {
	var (
		a                                          models.Appointment
		clientName, phone, date, clock, serviceID sql.NullString
		paymentMethod, notes                       sql.NullString
		attended                                   sql.NullBool
	)
	if err := row.Scan(&a.ID, &clientName, &phone, &date, &clock, &serviceID, &paymentMethod, &notes, &attended); err != nil {
		return nil, err
	}
	a.ClientName = clientName.String
	a.Phone = phone.String
	a.Date = date.String
	a.Time = utils.ClockPrefix(clock.String)
	a.ServiceID = serviceID.String
	a.PaymentMethod = paymentMethod.String
	a.Notes = notes.String
	a.Attended = attended.Valid && attended.Bool
	return &a, nil
}

// ListAppointments returns every appointment ordered by date, then time.
func (r *appointmentRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY date ASC, time ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeFailure("list appointments", err)
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, storeFailure("scan appointment", err)
		}
		appointments = append(appointments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterate appointments", err)
	}
	return appointments, nil
}

// CreateAppointment inserts an appointment and returns it with its assigned id.
func (r *appointmentRepository) CreateAppointment(ctx context.Context, f models.AppointmentFields) (*models.Appointment, error) {
	query := `INSERT INTO appointments
	            (client_name, phone, date, time, service_id, payment_method, notes, attended)
	          VALUES ($1, $2, $3::date, $4::time, $5, $6, $7, $8)
	          RETURNING ` + appointmentColumns

	a, err := scanAppointment(r.db.QueryRowContext(ctx, query,
		f.ClientName, f.Phone, f.Date, f.Time, utils.NewNullString(f.ServiceID),
		f.PaymentMethod, f.Notes, f.Attended))
	if err != nil {
		return nil, storeFailure("create appointment", describePQ(err))
	}
	return a, nil
}

// UpdateAppointment replaces every field of the appointment.
func (r *appointmentRepository) UpdateAppointment(ctx context.Context, id string, f models.AppointmentFields) (*models.Appointment, error) {
	query := `UPDATE appointments SET
	            client_name = $1, phone = $2, date = $3::date, time = $4::time,
	            service_id = $5, payment_method = $6, notes = $7, attended = $8
	          WHERE id = $9
	          RETURNING ` + appointmentColumns

	a, err := scanAppointment(r.db.QueryRowContext(ctx, query,
		f.ClientName, f.Phone, f.Date, f.Time, utils.NewNullString(f.ServiceID),
		f.PaymentMethod, f.Notes, f.Attended, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, notFound("update appointment", id)
		}
		return nil, storeFailure("update appointment", describePQ(err))
	}
	return a, nil
}

// DeleteAppointment removes an appointment.
func (r *appointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if isMalformedID(err) {
		return notFound("delete appointment", id)
	}
	if err != nil {
		return storeFailure("delete appointment", describePQ(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeFailure("delete appointment", err)
	}
	if rowsAffected == 0 {
		return notFound("delete appointment", id)
	}
	return nil
}

// SetAttendance updates only the attended flag.
func (r *appointmentRepository) SetAttendance(ctx context.Context, id string, attended bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE appointments SET attended = $1 WHERE id = $2`, attended, id)
	if isMalformedID(err) {
		return notFound("set attendance", id)
	}
	if err != nil {
		return storeFailure("set attendance", describePQ(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeFailure("set attendance", err)
	}
	if rowsAffected == 0 {
		return notFound("set attendance", id)
	}
	return nil
}
