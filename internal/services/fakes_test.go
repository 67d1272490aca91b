package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"clinic-booking-server/internal/models"
)

// memStore is an in-memory implementation of the repository ports. Its
// single mutex makes the reserve/release compound operations atomic, and
// its error contract mirrors the GORM repositories so service tests
// exercise the exact same paths the real wiring does.
type memStore struct {
	mu        sync.Mutex
	schedules map[string]*models.Schedule
	bookings  map[string]*models.Booking
}

func newMemStore() *memStore {
	return &memStore{
		schedules: make(map[string]*models.Schedule),
		bookings:  make(map[string]*models.Booking),
	}
}

func cloneSchedule(s *models.Schedule) *models.Schedule {
	c := *s
	return &c
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}

func (m *memStore) Create(ctx context.Context, s *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.schedules {
		if other.DoctorID == s.DoctorID && other.Date.Equal(s.Date) &&
			other.TimeType == s.TimeType && other.Status != models.ScheduleRejected {
			return models.ErrScheduleExists
		}
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.schedules[s.ID] = cloneSchedule(s)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[id]
	if !ok {
		return nil, models.ErrScheduleNotFound
	}
	return cloneSchedule(s), nil
}

func (m *memStore) FindApproved(ctx context.Context, doctorID string, date time.Time, timeType models.TimeType) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.schedules {
		if s.DoctorID == doctorID && s.Date.Equal(date) &&
			s.TimeType == timeType && s.Status == models.ScheduleApproved {
			return cloneSchedule(s), nil
		}
	}
	return nil, models.ErrScheduleNotFound
}

func (m *memStore) Update(ctx context.Context, s *models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.schedules {
		if other.ID != s.ID && other.DoctorID == s.DoctorID && other.Date.Equal(s.Date) &&
			other.TimeType == s.TimeType && other.Status != models.ScheduleRejected {
			return models.ErrScheduleExists
		}
	}
	stored, ok := m.schedules[s.ID]
	if !ok {
		return models.ErrScheduleNotFound
	}
	stored.Date = s.Date
	stored.TimeType = s.TimeType
	stored.MaxNumber = s.MaxNumber
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[id]
	if !ok || s.Status != from {
		return models.ErrInvalidTransition
	}
	s.Status = to
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Schedule
	for _, s := range m.schedules {
		if f.DoctorID != "" && s.DoctorID != f.DoctorID {
			continue
		}
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && s.Date.After(*f.To) {
			continue
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		out = append(out, *cloneSchedule(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeType < out[j].TimeType
	})
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schedules[id]; !ok {
		return models.ErrScheduleNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *memStore) CreateWithReservation(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[b.ScheduleID]
	if !ok || s.Status != models.ScheduleApproved {
		return models.ErrScheduleNotFound
	}
	if s.CurrentNumber >= s.MaxNumber {
		return models.ErrScheduleFull
	}
	s.CurrentNumber++

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (m *memStore) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (m *memStore) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok || b.StatusID != from {
		return models.ErrInvalidTransition
	}
	b.StatusID = to
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) CancelWithRelease(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	switch b.StatusID {
	case models.BookingCancelled:
		return cloneBooking(b), nil
	case models.BookingCompleted:
		return nil, models.ErrInvalidTransition
	}

	b.StatusID = models.BookingCancelled
	b.UpdatedAt = time.Now().UTC()
	if s, ok := m.schedules[b.ScheduleID]; ok && s.CurrentNumber > 0 {
		s.CurrentNumber--
	}
	return cloneBooking(b), nil
}

func (m *memStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.DoctorID == doctorID {
			out = append(out, *cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) ListByPatient(ctx context.Context, patientID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.PatientID == patientID {
			out = append(out, *cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) PurgeCancelled(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, b := range m.bookings {
		if b.StatusID == models.BookingCancelled && b.UpdatedAt.Before(cutoff) {
			delete(m.bookings, id)
			count++
		}
	}
	return count, nil
}

// setBookingUpdatedAt backdates a booking, for retention tests.
func (m *memStore) setBookingUpdatedAt(id string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		b.UpdatedAt = at
	}
}

// scheduleSnapshot returns the current counter values of a schedule.
func (m *memStore) scheduleSnapshot(id string) (current, max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.schedules[id]
	return s.CurrentNumber, s.MaxNumber
}

// bookingView adapts memStore to the BookingRepo port, whose GetByID and
// UpdateStatus names collide with the schedule side of the store.
type bookingView struct{ *memStore }

func (v bookingView) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return v.memStore.GetBookingByID(ctx, id)
}

func (v bookingView) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	return v.memStore.UpdateBookingStatus(ctx, id, from, to)
}

// fakeAllcodeRepo serves the closed code sets from memory.
type fakeAllcodeRepo struct{}

func (fakeAllcodeRepo) ListAll(ctx context.Context) ([]models.Allcode, error) {
	var codes []models.Allcode
	for _, st := range models.BookingStatuses() {
		codes = append(codes, models.Allcode{KeyMap: string(st), Type: models.CodeTypeStatus})
	}
	for _, tt := range models.TimeTypes() {
		codes = append(codes, models.Allcode{KeyMap: string(tt), Type: models.CodeTypeTime})
	}
	for _, rc := range models.RoleCodes() {
		codes = append(codes, models.Allcode{KeyMap: rc, Type: models.CodeTypeRole})
	}
	return codes, nil
}

func newTestCodes(t *testing.T) *AllcodeService {
	t.Helper()
	svc := NewAllcodeService(fakeAllcodeRepo{})
	require.NoError(t, svc.Load(context.Background()))
	return svc
}
