package repositories

import (
	"context"
	"slices"
	"strings"
	"sync"

	"agenda_backend/internal/localstore"
	"agenda_backend/internal/models"

	"github.com/google/uuid"
)

// LocalRepository keeps services and appointments in the local store, for running
// without a remote database. It implements both repository interfaces.
type LocalRepository struct {
	mu    sync.Mutex
	store *localstore.Store
	newID func() string
}

// NewLocalRepository creates a LocalRepository on store.
func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store, newID: uuid.NewString}
}

func sortServices(services []models.Service) {
	slices.SortStableFunc(services, func(a, b models.Service) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func sortAppointments(appointments []models.Appointment) {
	slices.SortStableFunc(appointments, func(a, b models.Appointment) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})
}

// readSlot returns the stored list, or an empty one when the slot was never written.
func readSlot[T any](store *localstore.Store, slot, op string) ([]T, error) {
	list, ok, err := localstore.Get[[]T](store, slot)
	if err != nil {
		return nil, storeFailure(op, err)
	}
	if !ok || list == nil {
		return []T{}, nil
	}
	return list, nil
}

func writeSlot[T any](store *localstore.Store, slot, op string, list []T) error {
	if err := localstore.Put(store, slot, &list); err != nil {
		return storeFailure(op, err)
	}
	return nil
}

func (r *LocalRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	services, err := readSlot[models.Service](r.store, localstore.SlotServices, "list services")
	if err != nil {
		return nil, err
	}
	sortServices(services)
	return services, nil
}

func (r *LocalRepository) CreateService(ctx context.Context, fields models.ServiceFields) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	services, err := readSlot[models.Service](r.store, localstore.SlotServices, "create service")
	if err != nil {
		return nil, err
	}
	s := fields.WithID(r.newID())
	if err := writeSlot(r.store, localstore.SlotServices, "create service", append(services, s)); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *LocalRepository) UpdateService(ctx context.Context, id string, fields models.ServiceFields) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	services, err := readSlot[models.Service](r.store, localstore.SlotServices, "update service")
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(services, func(s models.Service) bool { return s.ID == id })
	if i < 0 {
		return nil, notFound("update service", id)
	}
	services[i] = fields.WithID(id)
	if err := writeSlot(r.store, localstore.SlotServices, "update service", services); err != nil {
		return nil, err
	}
	s := services[i]
	return &s, nil
}

func (r *LocalRepository) DeleteService(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	services, err := readSlot[models.Service](r.store, localstore.SlotServices, "delete service")
	if err != nil {
		return err
	}
	before := len(services)
	kept := slices.DeleteFunc(services, func(s models.Service) bool { return s.ID == id })
	if len(kept) == before {
		return notFound("delete service", id)
	}
	return writeSlot(r.store, localstore.SlotServices, "delete service", kept)
}

func (r *LocalRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointments, err := readSlot[models.Appointment](r.store, localstore.SlotAppointments, "list appointments")
	if err != nil {
		return nil, err
	}
	sortAppointments(appointments)
	return appointments, nil
}

func (r *LocalRepository) CreateAppointment(ctx context.Context, fields models.AppointmentFields) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointments, err := readSlot[models.Appointment](r.store, localstore.SlotAppointments, "create appointment")
	if err != nil {
		return nil, err
	}
	a := fields.WithID(r.newID())
	if err := writeSlot(r.store, localstore.SlotAppointments, "create appointment", append(appointments, a)); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *LocalRepository) UpdateAppointment(ctx context.Context, id string, fields models.AppointmentFields) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointments, err := readSlot[models.Appointment](r.store, localstore.SlotAppointments, "update appointment")
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(appointments, func(a models.Appointment) bool { return a.ID == id })
	if i < 0 {
		return nil, notFound("update appointment", id)
	}
	appointments[i] = fields.WithID(id)
	if err := writeSlot(r.store, localstore.SlotAppointments, "update appointment", appointments); err != nil {
		return nil, err
	}
	a := appointments[i]
	return &a, nil
}

func (r *LocalRepository) DeleteAppointment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointments, err := readSlot[models.Appointment](r.store, localstore.SlotAppointments, "delete appointment")
	if err != nil {
		return err
	}
	before := len(appointments)
	kept := slices.DeleteFunc(appointments, func(a models.Appointment) bool { return a.ID == id })
	if len(kept) == before {
		return notFound("delete appointment", id)
	}
	return writeSlot(r.store, localstore.SlotAppointments, "delete appointment", kept)
}

func (r *LocalRepository) SetAttendance(ctx context.Context, id string, attended bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointments, err := readSlot[models.Appointment](r.store, localstore.SlotAppointments, "set attendance")
	if err != nil {
		return err
	}
	i := slices.IndexFunc(appointments, func(a models.Appointment) bool { return a.ID == id })
	if i < 0 {
		return notFound("set attendance", id)
	}
	appointments[i].Attended = attended
	return writeSlot(r.store, localstore.SlotAppointments, "set attendance", appointments)
}

var (
	_ ServiceRepository     = (*LocalRepository)(nil)
	_ AppointmentRepository = (*LocalRepository)(nil)
)
