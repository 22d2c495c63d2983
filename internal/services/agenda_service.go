package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"agenda_backend/internal/calendar"
	"agenda_backend/internal/localstore"
	"agenda_backend/internal/models"
	"agenda_backend/internal/repositories"
	"agenda_backend/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// --- Custom Service Errors for the agenda ---
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrNotReady            = errors.New("agenda is still loading")
	ErrServiceNotFound     = errors.New("service not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrServiceInUse        = errors.New("service is referenced by appointments")
)

// State is the coarse lifecycle of the agenda.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateReady           State = "ready"
)

// AttendancePolicy decides what happens to an attendance toggle the store rejected.
type AttendancePolicy string

const (
	// AttendanceKeep leaves the flipped flag in place and marks the appointment stale
	// until the next reload.
	AttendanceKeep AttendancePolicy = "keep"
	// AttendanceRevert restores the previous flag.
	AttendanceRevert AttendancePolicy = "revert"
)

// ParseAttendancePolicy accepts "keep" or "revert" (case-insensitive).
func ParseAttendancePolicy(s string) (AttendancePolicy, error) {
	switch p := AttendancePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case AttendanceKeep, AttendanceRevert:
		return p, nil
	case "":
		return AttendanceKeep, nil
	default:
		return "", fmt.Errorf("unknown attendance failure policy %q", s)
	}
}

// Status describes the agenda for the current caller.
type Status struct {
	State        State        `json:"state"`
	User         *models.User `json:"user,omitempty"`
	LoadWarnings []string     `json:"loadWarnings,omitempty"`
	Pending      []string     `json:"pending,omitempty"`
	Stale        []string     `json:"stale,omitempty"`
}

// Dashboard is everything the agenda screen renders for one selected day.
type Dashboard struct {
	Today           string              `json:"today"`
	SelectedDate    string              `json:"selectedDate"`
	ViewMonth       string              `json:"viewMonth"`
	PrevMonth       string              `json:"prevMonth"`
	NextMonth       string              `json:"nextMonth"`
	Grid            []calendar.Day      `json:"grid"`
	Totals          calendar.Totals     `json:"totals"`
	TotalDayLabel   string              `json:"totalDayLabel"`
	TotalMonthLabel string              `json:"totalMonthLabel"`
	Appointments    []calendar.DayEntry `json:"appointments"`
	TimeSlots       []string            `json:"timeSlots"`
	Stale           []string            `json:"stale,omitempty"`
}

// AgendaService is the application controller. It owns the in-memory services and
// appointments of the logged-in operator and is their only mutation path.
type AgendaService interface {
	Login(ctx context.Context, creds *models.Credentials) (*models.Session, error)
	Logout(sessionID string)
	Session() (*models.Session, State)
	Status() Status
	Reload(ctx context.Context) error

	Services() ([]models.Service, error)
	CreateService(ctx context.Context, form models.ServiceForm) (*models.Service, error)
	UpdateService(ctx context.Context, id string, form models.ServiceForm) (*models.Service, error)
	DeleteService(ctx context.Context, id string, confirm bool) error
	ServiceUsage(id string) int

	Appointments() ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, form models.AppointmentForm) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, form models.AppointmentForm) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ToggleAttendance(ctx context.Context, id string) (*models.Appointment, error)

	Calendar(viewMonth, selectedDate string) ([]calendar.Day, error)
	Dashboard(date, viewMonth string) (*Dashboard, error)
	Today() string
}

// AgendaConfig holds the controller's policies.
type AgendaConfig struct {
	AttendancePolicy AttendancePolicy
	Location         *time.Location
	Now              func() time.Time
	// UserStore, when set, records the logged-in operator in the local store's user slot.
	UserStore *localstore.Store
}

type agendaService struct {
	auth        AuthService
	serviceRepo repositories.ServiceRepository
	apptRepo    repositories.AppointmentRepository
	policy      AttendancePolicy
	loc         *time.Location
	now         func() time.Time
	userStore   *localstore.Store

	mu           sync.RWMutex
	state        State
	session      *models.Session
	epoch        uint64 // changes on login and logout
	loadEpoch    uint64 // changes on every load
	services     []models.Service
	appointments []models.Appointment
	pending      map[string]bool // in-flight attendance toggles and their target value
	stale        map[string]bool
	warnings     []string
	// replay holds mutations committed while a load was running; they are applied
	// again on top of the freshly loaded collections.
	replay       []func()
}

// NewAgendaService creates a new instance of AgendaService.
func NewAgendaService(auth AuthService, serviceRepo repositories.ServiceRepository, apptRepo repositories.AppointmentRepository, cfg AgendaConfig) AgendaService {
	if cfg.AttendancePolicy == "" {
		cfg.AttendancePolicy = AttendanceKeep
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &agendaService{
		auth:        auth,
		serviceRepo: serviceRepo,
		apptRepo:    apptRepo,
		policy:      cfg.AttendancePolicy,
		loc:         cfg.Location,
		now:         cfg.Now,
		userStore:   cfg.UserStore,
		state:       StateUnauthenticated,
		pending:     map[string]bool{},
		stale:       map[string]bool{},
	}
}

// --- Session lifecycle ---

// Login authenticates and loads both collections. Load failures never fail the login:
// the collection stays empty and a warning is recorded.
func (s *agendaService) Login(ctx context.Context, creds *models.Credentials) (*models.Session, error) {
	session, err := s.auth.Authenticate(creds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.epoch++
	s.loadEpoch++
	load := s.loadEpoch
	s.session = session
	s.state = StateLoading
	s.services, s.appointments, s.warnings, s.replay = nil, nil, nil, nil
	clear(s.pending)
	clear(s.stale)
	s.mu.Unlock()

	utils.LogInfo("Operator logged in", map[string]interface{}{"user": session.User.Name})
	if s.userStore != nil {
		s.userStore.SaveUser(&session.User)
	}

	s.loadInto(ctx, load)
	return session, nil
}

// Logout ends the session. An empty sessionID ends whatever session is open.
func (s *agendaService) Logout(sessionID string) {
	s.mu.Lock()
	if s.session == nil || (sessionID != "" && s.session.ID != sessionID) {
		s.mu.Unlock()
		return
	}
	name := s.session.User.Name
	s.epoch++
	s.loadEpoch++
	s.session = nil
	s.state = StateUnauthenticated
	s.services, s.appointments, s.warnings, s.replay = nil, nil, nil, nil
	clear(s.pending)
	clear(s.stale)
	s.mu.Unlock()

	if s.userStore != nil {
		s.userStore.SaveUser(nil)
	}
	utils.LogInfo("Operator logged out", map[string]interface{}{"user": name})
}

func (s *agendaService) Session() (*models.Session, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, s.state
	}
	session := *s.session
	return &session, s.state
}

func (s *agendaService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{State: s.state, LoadWarnings: slices.Clone(s.warnings)}
	if s.session != nil {
		user := s.session.User
		st.User = &user
	}
	st.Pending = sortedKeys(s.pending)
	st.Stale = sortedKeys(s.stale)
	return st
}

// Reload fetches both collections again and forgets stale attendance markers.
// Mutations already in flight still land in memory once they complete.
func (s *agendaService) Reload(ctx context.Context) error {
	s.mu.Lock()
	if err := s.requireReadyLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.loadEpoch++
	load := s.loadEpoch
	s.state = StateLoading
	s.mu.Unlock()

	s.loadInto(ctx, load)
	return nil
}

// loadInto fetches services and appointments concurrently and installs the result,
// unless another load or a session change superseded it.
func (s *agendaService) loadInto(ctx context.Context, load uint64) {
	var (
		g                     errgroup.Group
		services              []models.Service
		appointments          []models.Appointment
		servicesErr, apptsErr error
	)
	g.Go(func() error {
		services, servicesErr = s.serviceRepo.ListServices(ctx)
		return servicesErr
	})
	g.Go(func() error {
		appointments, apptsErr = s.apptRepo.ListAppointments(ctx)
		return apptsErr
	})
	if err := g.Wait(); err != nil {
		utils.LogWarn(err, "Agenda loaded with missing data")
	}

	var warnings []string
	if servicesErr != nil {
		utils.LogError(servicesErr, "Failed to load services")
		services = nil
		warnings = append(warnings, "services could not be loaded")
	}
	if apptsErr != nil {
		utils.LogError(apptsErr, "Failed to load appointments")
		appointments = nil
		warnings = append(warnings, "appointments could not be loaded")
	}
	if services == nil {
		services = []models.Service{}
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadEpoch != load {
		return
	}
	s.services = services
	s.appointments = appointments
	s.warnings = warnings
	clear(s.stale)
	for id, attended := range s.pending {
		s.setAttendedLocked(id, attended)
	}
	s.state = StateReady
	replay := s.replay
	s.replay = nil
	for _, fn := range replay {
		fn()
	}
	utils.LogDebug("Agenda ready", map[string]interface{}{
		"services":     len(s.services),
		"appointments": len(s.appointments),
		"replayed":     len(replay),
	})
}

func (s *agendaService) requireReadyLocked() error {
	switch s.state {
	case StateUnauthenticated:
		return ErrNotAuthenticated
	case StateLoading:
		return ErrNotReady
	}
	return nil
}

func (s *agendaService) requireSessionLocked() error {
	if s.session == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// begin checks the Ready state and returns the session epoch a mutation belongs to.
func (s *agendaService) begin() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireReadyLocked(); err != nil {
		return 0, err
	}
	return s.epoch, nil
}

// commit applies fn under the lock if the session that started the mutation is still
// the current one. fn must be idempotent: it may run again after a load.
func (s *agendaService) commit(epoch uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.applyLocked(fn)
	}
}

func (s *agendaService) applyLocked(fn func()) {
	fn()
	if s.state == StateLoading {
		s.replay = append(s.replay, fn)
	}
}

func (s *agendaService) setAttendedLocked(id string, attended bool) {
	if i := slices.IndexFunc(s.appointments, func(a models.Appointment) bool { return a.ID == id }); i >= 0 {
		s.appointments[i].Attended = attended
	}
}

func (s *agendaService) appointmentLocked(id string) *models.Appointment {
	i := slices.IndexFunc(s.appointments, func(a models.Appointment) bool { return a.ID == id })
	if i < 0 {
		return nil
	}
	current := s.appointments[i]
	return &current
}

// --- Services ---

func validateServiceForm(form models.ServiceForm) (models.ServiceFields, error) {
	fields := models.ServiceFields{
		Name:        utils.Clean(form.Name),
		Description: utils.Clean(form.Description),
	}
	if fields.Name == "" {
		return fields, fmt.Errorf("%w: name is required", ErrValidation)
	}
	price, err := utils.ParsePrice(string(form.Price))
	if err != nil {
		return fields, fmt.Errorf("%w: price: %v", ErrValidation, err)
	}
	if price.IsNegative() {
		return fields, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	duration, err := utils.ParseMinutes(string(form.Duration))
	if err != nil {
		return fields, fmt.Errorf("%w: duration: %v", ErrValidation, err)
	}
	if duration <= 0 {
		return fields, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	fields.Price = price
	fields.Duration = duration
	return fields, nil
}

func (s *agendaService) Services() ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireSessionLocked(); err != nil {
		return nil, err
	}
	services := slices.Clone(s.services)
	slices.SortStableFunc(services, func(a, b models.Service) int {
		return strings.Compare(a.Name, b.Name)
	})
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}

func (s *agendaService) CreateService(ctx context.Context, form models.ServiceForm) (*models.Service, error) {
	gen, err := s.begin()
	if err != nil {
		return nil, err
	}
	fields, err := validateServiceForm(form)
	if err != nil {
		return nil, err
	}
	created, err := s.serviceRepo.CreateService(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.commit(gen, func() {
		s.services = replaceByID(s.services, *created, func(v models.Service) string { return v.ID })
	})
	return created, nil
}

func (s *agendaService) UpdateService(ctx context.Context, id string, form models.ServiceForm) (*models.Service, error) {
	gen, err := s.begin()
	if err != nil {
		return nil, err
	}
	fields, err := validateServiceForm(form)
	if err != nil {
		return nil, err
	}
	updated, err := s.serviceRepo.UpdateService(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrServiceNotFound, err)
		}
		return nil, err
	}
	s.commit(gen, func() {
		s.services = replaceByID(s.services, *updated, func(v models.Service) string { return v.ID })
	})
	return updated, nil
}

func (s *agendaService) ServiceUsage(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.appointments {
		if a.ServiceID == id {
			n++
		}
	}
	return n
}

// DeleteService removes a service. Appointments that reference it are kept and show the
// placeholder name from then on; without confirm the delete is refused while any exist.
func (s *agendaService) DeleteService(ctx context.Context, id string, confirm bool) error {
	gen, err := s.begin()
	if err != nil {
		return err
	}
	if n := s.ServiceUsage(id); n > 0 && !confirm {
		return fmt.Errorf("%w: %d appointment(s)", ErrServiceInUse, n)
	}
	if err := s.serviceRepo.DeleteService(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrServiceNotFound, err)
		}
		return err
	}
	s.commit(gen, func() {
		s.services = slices.DeleteFunc(s.services, func(v models.Service) bool { return v.ID == id })
	})
	return nil
}

// --- Appointments ---

func validateAppointmentForm(form models.AppointmentForm) (models.AppointmentFields, error) {
	fields := models.AppointmentFields{
		ClientName:    utils.Clean(form.ClientName),
		Phone:         utils.Clean(form.Phone),
		Date:          utils.Clean(form.Date),
		Time:          utils.ClockPrefix(form.Time),
		ServiceID:     utils.Clean(form.ServiceID),
		PaymentMethod: utils.Clean(form.PaymentMethod),
		Notes:         utils.Clean(form.Notes),
		Attended:      form.Attended,
	}
	if fields.ClientName == "" {
		return fields, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if fields.ServiceID == "" {
		return fields, fmt.Errorf("%w: service is required", ErrValidation)
	}
	if err := calendar.ValidateDate(fields.Date); err != nil {
		return fields, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := calendar.ValidateClock(fields.Time); err != nil {
		return fields, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return fields, nil
}

func (s *agendaService) Appointments() ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireSessionLocked(); err != nil {
		return nil, err
	}
	appointments := slices.Clone(s.appointments)
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	return appointments, nil
}

func (s *agendaService) CreateAppointment(ctx context.Context, form models.AppointmentForm) (*models.Appointment, error) {
	gen, err := s.begin()
	if err != nil {
		return nil, err
	}
	fields, err := validateAppointmentForm(form)
	if err != nil {
		return nil, err
	}
	created, err := s.apptRepo.CreateAppointment(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.commit(gen, func() {
		s.appointments = replaceByID(s.appointments, *created, func(v models.Appointment) string { return v.ID })
	})
	return created, nil
}

func (s *agendaService) UpdateAppointment(ctx context.Context, id string, form models.AppointmentForm) (*models.Appointment, error) {
	gen, err := s.begin()
	if err != nil {
		return nil, err
	}
	fields, err := validateAppointmentForm(form)
	if err != nil {
		return nil, err
	}
	updated, err := s.apptRepo.UpdateAppointment(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrAppointmentNotFound, err)
		}
		return nil, err
	}
	s.commit(gen, func() {
		s.appointments = replaceByID(s.appointments, *updated, func(v models.Appointment) string { return v.ID })
		delete(s.stale, id)
	})
	return updated, nil
}

func (s *agendaService) DeleteAppointment(ctx context.Context, id string) error {
	gen, err := s.begin()
	if err != nil {
		return err
	}
	if err := s.apptRepo.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrAppointmentNotFound, err)
		}
		return err
	}
	s.commit(gen, func() {
		s.appointments = slices.DeleteFunc(s.appointments, func(v models.Appointment) bool { return v.ID == id })
		delete(s.stale, id)
	})
	return nil
}

// ToggleAttendance flips the attended flag before the store confirms it. On a store
// failure the configured AttendancePolicy applies and the error is returned together
// with the appointment as it now stands in memory.
func (s *agendaService) ToggleAttendance(ctx context.Context, id string) (*models.Appointment, error) {
	s.mu.Lock()
	if err := s.requireReadyLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := slices.IndexFunc(s.appointments, func(a models.Appointment) bool { return a.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	epoch := s.epoch
	previous := s.appointments[i].Attended
	target := !previous
	s.appointments[i].Attended = target
	s.pending[id] = target
	delete(s.stale, id)
	s.mu.Unlock()

	storeErr := s.apptRepo.SetAttendance(ctx, id, target)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if storeErr != nil {
			return nil, storeErr
		}
		return nil, ErrNotAuthenticated
	}
	delete(s.pending, id)
	if storeErr != nil {
		revert := s.policy == AttendanceRevert
		s.applyLocked(func() {
			if revert {
				s.setAttendedLocked(id, previous)
				return
			}
			s.setAttendedLocked(id, target)
			s.stale[id] = true
		})
		utils.LogWarn(storeErr, "Attendance change not saved", map[string]interface{}{
			"appointment_id": id,
			"policy":         string(s.policy),
		})
		if errors.Is(storeErr, repositories.ErrNotFound) {
			storeErr = fmt.Errorf("%w: %w", ErrAppointmentNotFound, storeErr)
		}
		return s.appointmentLocked(id), storeErr
	}
	s.applyLocked(func() { s.setAttendedLocked(id, target) })
	current := s.appointmentLocked(id)
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	}
	return current, nil
}

// --- Calendar ---

func (s *agendaService) Today() string {
	return calendar.Today(s.now(), s.loc)
}

func (s *agendaService) Calendar(viewMonth, selectedDate string) ([]calendar.Day, error) {
	today := s.Today()
	if selectedDate == "" {
		selectedDate = today
	}
	if err := calendar.ValidateDate(selectedDate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if viewMonth == "" {
		viewMonth = calendar.MonthOf(selectedDate)
	}
	grid, err := calendar.BuildMonthGrid(viewMonth, selectedDate, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return grid, nil
}

// Dashboard builds the agenda screen for date (default today). The viewed month
// defaults to the month of date, so selecting a day outside the current view moves
// the view to it.
func (s *agendaService) Dashboard(date, viewMonth string) (*Dashboard, error) {
	s.mu.RLock()
	if err := s.requireSessionLocked(); err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	appointments := slices.Clone(s.appointments)
	catalog := models.NewServiceCatalog(s.services)
	stale := sortedKeys(s.stale)
	s.mu.RUnlock()

	today := s.Today()
	if date == "" {
		date = today
	}
	grid, err := s.Calendar(viewMonth, date)
	if err != nil {
		return nil, err
	}
	if viewMonth == "" {
		viewMonth = calendar.MonthOf(date)
	}
	prev, _ := calendar.ShiftMonth(viewMonth, -1)
	next, _ := calendar.ShiftMonth(viewMonth, 1)

	totals := calendar.ComputeTotals(appointments, catalog, date)
	return &Dashboard{
		Today:           today,
		SelectedDate:    date,
		ViewMonth:       viewMonth,
		PrevMonth:       prev,
		NextMonth:       next,
		Grid:            grid,
		Totals:          totals,
		TotalDayLabel:   utils.FormatPrice(totals.TotalDay),
		TotalMonthLabel: utils.FormatPrice(totals.TotalMonth),
		Appointments:    calendar.DayList(appointments, catalog, date, utils.FormatPrice),
		TimeSlots:       calendar.TimeSlots(),
		Stale:           stale,
	}, nil
}

// --- helpers ---

func replaceByID[T any](list []T, item T, id func(T) string) []T {
	i := slices.IndexFunc(list, func(v T) bool { return id(v) == id(item) })
	if i < 0 {
		return append(list, item)
	}
	list[i] = item
	return list
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
