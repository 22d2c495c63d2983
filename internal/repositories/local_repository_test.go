package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"agenda_backend/internal/localstore"
	"agenda_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyBackend is a memory backend whose reads or writes can be made to fail.
type flakyBackend struct {
	*localstore.MemoryBackend
	failGet, failSet bool
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errors.New("connection reset")
	}
	return f.MemoryBackend.Get(ctx, key)
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("connection reset")
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func newLocalRepository() *LocalRepository {
	return newLocalRepositoryOn(localstore.NewMemory())
}

func newLocalRepositoryOn(backend localstore.Backend) *LocalRepository {
	repo := NewLocalRepository(localstore.New(backend, "test"))
	n := 0
	repo.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return repo
}

func TestLocalRepositoryServices(t *testing.T) {
	repo := newLocalRepository()
	ctx := context.Background()

	s, err := repo.CreateService(ctx, models.ServiceFields{Name: "Pedicure", Price: decimal.NewFromInt(40), Duration: 60})
	require.NoError(t, err)
	assert.Equal(t, "id-1", s.ID)
	_, err = repo.CreateService(ctx, models.ServiceFields{Name: "Manicure", Price: decimal.NewFromInt(30), Duration: 45})
	require.NoError(t, err)

	services, err := repo.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Manicure", services[0].Name)

	updated, err := repo.UpdateService(ctx, s.ID, models.ServiceFields{Name: "Pedicure spa", Price: decimal.NewFromInt(55), Duration: 70})
	require.NoError(t, err)
	assert.Equal(t, "Pedicure spa", updated.Name)

	require.NoError(t, repo.DeleteService(ctx, s.ID))
	assert.ErrorIs(t, repo.DeleteService(ctx, s.ID), ErrNotFound)
	_, err = repo.UpdateService(ctx, s.ID, models.ServiceFields{})
	assert.ErrorIs(t, err, ErrNotFound)

	services, err = repo.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)
}

func TestLocalRepositoryAppointments(t *testing.T) {
	repo := newLocalRepository()
	ctx := context.Background()

	late, err := repo.CreateAppointment(ctx, models.AppointmentFields{ClientName: "Bia", Date: "2024-03-06", Time: "08:00"})
	require.NoError(t, err)
	early, err := repo.CreateAppointment(ctx, models.AppointmentFields{ClientName: "Ana", Date: "2024-03-05", Time: "19:30"})
	require.NoError(t, err)

	appointments, err := repo.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID, late.ID}, []string{appointments[0].ID, appointments[1].ID})

	require.NoError(t, repo.SetAttendance(ctx, early.ID, true))
	require.NoError(t, repo.SetAttendance(ctx, early.ID, true))
	appointments, err = repo.ListAppointments(ctx)
	require.NoError(t, err)
	assert.True(t, appointments[0].Attended)
	assert.False(t, appointments[1].Attended)

	fields := late.Fields()
	fields.Notes = "cliente nova"
	updated, err := repo.UpdateAppointment(ctx, late.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, "cliente nova", updated.Notes)

	require.NoError(t, repo.DeleteAppointment(ctx, late.ID))
	assert.ErrorIs(t, repo.DeleteAppointment(ctx, late.ID), ErrNotFound)
	assert.ErrorIs(t, repo.SetAttendance(ctx, late.ID, true), ErrNotFound)
}

func TestLocalRepositoryReadFailureKeepsData(t *testing.T) {
	backend := &flakyBackend{MemoryBackend: localstore.NewMemory()}
	repo := newLocalRepositoryOn(backend)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.CreateService(ctx, models.ServiceFields{Name: name, Price: decimal.NewFromInt(10), Duration: 30})
		require.NoError(t, err)
	}

	backend.failGet = true
	_, err := repo.CreateService(ctx, models.ServiceFields{Name: "D", Price: decimal.NewFromInt(10), Duration: 30})
	assert.ErrorIs(t, err, ErrStore)
	_, err = repo.ListServices(ctx)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, repo.SetAttendance(ctx, "id-1", true), ErrStore)

	backend.failGet = false
	services, err := repo.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 3)
}

func TestLocalRepositoryWriteFailureIsReported(t *testing.T) {
	backend := &flakyBackend{MemoryBackend: localstore.NewMemory(), failSet: true}
	repo := newLocalRepositoryOn(backend)
	ctx := context.Background()

	created, err := repo.CreateService(ctx, models.ServiceFields{Name: "Pedicure", Price: decimal.NewFromInt(40), Duration: 60})
	assert.ErrorIs(t, err, ErrStore)
	assert.Nil(t, created)
	_, err = repo.CreateAppointment(ctx, models.AppointmentFields{ClientName: "Ana", Date: "2024-03-05", Time: "09:00"})
	assert.ErrorIs(t, err, ErrStore)

	backend.failSet = false
	services, err := repo.ListServices(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)
	appointments, err := repo.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appointments)
}
