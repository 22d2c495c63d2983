package repositories

import (
	"context"
	"regexp"
	"testing"

	"agenda_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appointmentCols = []string{"id", "client_name", "phone", "date", "time", "service_id", "payment_method", "notes", "attended"}

func TestAppointmentRepositoryListFillsDefaults(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments ORDER BY date ASC, time ASC")).
		WillReturnRows(sqlmock.NewRows(appointmentCols).
			AddRow("a1", "Ana", nil, "2024-03-05", "09:30", "s1", nil, nil, nil).
			AddRow("a2", "Bia", "11 99999-0000", "2024-03-05", "14:00", "s2", "Pix", "francesinha", true))

	appointments, err := repo.ListAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, models.Appointment{
		ID: "a1", ClientName: "Ana", Date: "2024-03-05", Time: "09:30", ServiceID: "s1",
	}, appointments[0])
	assert.True(t, appointments[1].Attended)
	assert.Equal(t, "Pix", appointments[1].PaymentMethod)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	fields := models.AppointmentFields{
		ClientName: "Ana", Date: "2024-03-05", Time: "09:30", ServiceID: "s1", PaymentMethod: "Pix",
	}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs("Ana", "", "2024-03-05", "09:30", "s1", "Pix", "", false).
		WillReturnRows(sqlmock.NewRows(appointmentCols).
			AddRow("a1", "Ana", "", "2024-03-05", "09:30", "s1", "Pix", "", false))

	a, err := repo.CreateAppointment(context.Background(), fields)
	require.NoError(t, err)
	assert.Equal(t, fields.WithID("a1"), *a)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositorySetAttendanceIsIdempotent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET attended = $1 WHERE id = $2")).
			WithArgs(true, "a1").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	require.NoError(t, repo.SetAttendance(context.Background(), "a1", true))
	require.NoError(t, repo.SetAttendance(context.Background(), "a1", true))

	mock.ExpectExec("UPDATE appointments SET attended").
		WithArgs(false, "gone").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetAttendance(context.Background(), "gone", false), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryUpdateAndDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("UPDATE appointments SET").WillReturnRows(sqlmock.NewRows(appointmentCols))
	_, err := repo.UpdateAppointment(context.Background(), "gone", models.AppointmentFields{ClientName: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec("DELETE FROM appointments").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteAppointment(context.Background(), "gone"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryMalformedIDIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAppointmentRepository(db)
	badUUID := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	mock.ExpectQuery("UPDATE appointments SET").WillReturnError(badUUID)
	mock.ExpectExec("DELETE FROM appointments").WithArgs("abc").WillReturnError(badUUID)
	mock.ExpectExec("UPDATE appointments SET attended").WithArgs(true, "abc").WillReturnError(badUUID)

	ctx := context.Background()
	_, err := repo.UpdateAppointment(ctx, "abc", models.AppointmentFields{ClientName: "Ana", Date: "2024-03-05", Time: "09:00"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteAppointment(ctx, "abc"), ErrNotFound)
	assert.ErrorIs(t, repo.SetAttendance(ctx, "abc", true), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
