package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"agenda_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceCols = []string{"id", "name", "price", "duration", "description"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestServiceRepositoryListOrdersByNameAndFillsDefaults(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows(serviceCols).
			AddRow("s1", "Alongamento", "120.00", 90, "Gel").
			AddRow("s2", "Manicure", nil, nil, nil))

	services, err := repo.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.True(t, services[0].Price.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 90, services[0].Duration)
	assert.Equal(t, models.Service{ID: "s2", Name: "Manicure", Price: decimal.Zero}, services[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryCreateReturnsAssignedID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRepository(db)

	fields := models.ServiceFields{Name: "Pedicure", Price: decimal.RequireFromString("40.5"), Duration: 60, Description: ""}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO services (name, price, duration, description)")).
		WithArgs("Pedicure", "40.5", 60, "").
		WillReturnRows(sqlmock.NewRows(serviceCols).AddRow("new-id", "Pedicure", "40.50", 60, ""))

	s, err := repo.CreateService(context.Background(), fields)
	require.NoError(t, err)
	assert.Equal(t, "new-id", s.ID)
	assert.Equal(t, fields.Name, s.Name)
	assert.True(t, s.Price.Equal(fields.Price))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryUpdateMissingIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE services SET")).
		WillReturnRows(sqlmock.NewRows(serviceCols))

	_, err := repo.UpdateService(context.Background(), "missing", models.ServiceFields{Name: "x"})
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services WHERE id = $1")).
		WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services WHERE id = $1")).
		WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteService(context.Background(), "s1"))
	assert.ErrorIs(t, repo.DeleteService(context.Background(), "s1"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositorySurfacesDriverErrors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRepository(db)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))
	_, err := repo.ListServices(context.Background())
	assert.ErrorIs(t, err, ErrStore)

	mock.ExpectQuery("INSERT INTO services").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key", Constraint: "services_name_key"})
	_, err = repo.CreateService(context.Background(), models.ServiceFields{Name: "dup"})
	assert.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "services_name_key")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryMalformedIDIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewServiceRepository(db)
	badUUID := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	mock.ExpectQuery("UPDATE services SET").WillReturnError(badUUID)
	mock.ExpectExec("DELETE FROM services").WithArgs("abc").WillReturnError(badUUID)

	_, err := repo.UpdateService(context.Background(), "abc", models.ServiceFields{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteService(context.Background(), "abc"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
