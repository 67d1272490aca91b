package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-server/internal/models"
)

func newScheduleFixture(t *testing.T, autoApprove bool) (*ScheduleService, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewScheduleService(store, newTestCodes(t), autoApprove, zerolog.Nop())
	return svc, store
}

func TestScheduleCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("doctor gets a pending schedule", func(t *testing.T) {
		svc, _ := newScheduleFixture(t, true)

		s, err := svc.Create(ctx, CreateScheduleInput{
			DoctorID:  "doc-1",
			Date:      "2026-09-01",
			TimeType:  "T1",
			MaxNumber: 3,
			ActorRole: models.RoleDoctor,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, models.SchedulePending, s.Status)
		assert.Equal(t, 0, s.CurrentNumber)
	})

	t.Run("admin schedule is auto-approved", func(t *testing.T) {
		svc, _ := newScheduleFixture(t, true)

		s, err := svc.Create(ctx, CreateScheduleInput{
			DoctorID:  "doc-1",
			Date:      "2026-09-01",
			TimeType:  "T1",
			MaxNumber: 3,
			ActorRole: models.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ScheduleApproved, s.Status)
	})

	t.Run("admin schedule stays pending when auto-approve is off", func(t *testing.T) {
		svc, _ := newScheduleFixture(t, false)

		s, err := svc.Create(ctx, CreateScheduleInput{
			DoctorID:  "doc-1",
			Date:      "2026-09-01",
			TimeType:  "T1",
			MaxNumber: 3,
			ActorRole: models.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, models.SchedulePending, s.Status)
	})

	t.Run("duplicate slot tuple conflicts", func(t *testing.T) {
		svc, _ := newScheduleFixture(t, true)

		in := CreateScheduleInput{
			DoctorID:  "doc-1",
			Date:      "2026-09-01",
			TimeType:  "T2",
			MaxNumber: 3,
			ActorRole: models.RoleDoctor,
		}
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)

		_, err = svc.Create(ctx, in)
		assert.ErrorIs(t, err, models.ErrScheduleExists)
	})

	t.Run("rejected slot frees the tuple for a new proposal", func(t *testing.T) {
		svc, _ := newScheduleFixture(t, true)

		in := CreateScheduleInput{
			DoctorID:  "doc-1",
			Date:      "2026-09-01",
			TimeType:  "T2",
			MaxNumber: 3,
			ActorRole: models.RoleDoctor,
		}
		first, err := svc.Create(ctx, in)
		require.NoError(t, err)
		_, err = svc.Reject(ctx, first.ID)
		require.NoError(t, err)

		_, err = svc.Create(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc, _ := newScheduleFixture(t, true)

		cases := []struct {
			name string
			in   CreateScheduleInput
		}{
			{"bad date", CreateScheduleInput{DoctorID: "doc-1", Date: "01-09-2026", TimeType: "T1", MaxNumber: 3}},
			{"unknown time type", CreateScheduleInput{DoctorID: "doc-1", Date: "2026-09-01", TimeType: "T9", MaxNumber: 3}},
			{"zero capacity", CreateScheduleInput{DoctorID: "doc-1", Date: "2026-09-01", TimeType: "T1", MaxNumber: 0}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tc.in)
				assert.ErrorIs(t, err, models.ErrValidation)
			})
		}
	})
}

func TestScheduleApproval(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScheduleFixture(t, true)

	pending := func(t *testing.T, timeType string) *models.Schedule {
		t.Helper()
		s, err := svc.Create(ctx, CreateScheduleInput{
			DoctorID:  "doc-1",
			Date:      "2026-09-02",
			TimeType:  timeType,
			MaxNumber: 2,
			ActorRole: models.RoleDoctor,
		})
		require.NoError(t, err)
		return s
	}

	t.Run("approve pending", func(t *testing.T) {
		s := pending(t, "T1")
		got, err := svc.Approve(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ScheduleApproved, got.Status)
	})

	t.Run("approve is idempotent", func(t *testing.T) {
		s := pending(t, "T2")
		_, err := svc.Approve(ctx, s.ID)
		require.NoError(t, err)
		got, err := svc.Approve(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ScheduleApproved, got.Status)
	})

	t.Run("reject after approve is refused", func(t *testing.T) {
		s := pending(t, "T3")
		_, err := svc.Approve(ctx, s.ID)
		require.NoError(t, err)
		_, err = svc.Reject(ctx, s.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("approve after reject is refused", func(t *testing.T) {
		s := pending(t, "T4")
		_, err := svc.Reject(ctx, s.ID)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, s.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		_, err := svc.Approve(ctx, "nope")
		assert.ErrorIs(t, err, models.ErrScheduleNotFound)
	})
}

func TestScheduleUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScheduleFixture(t, true)

	s, err := svc.Create(ctx, CreateScheduleInput{
		DoctorID:  "doc-1",
		Date:      "2026-09-03",
		TimeType:  "T1",
		MaxNumber: 2,
		ActorRole: models.RoleDoctor,
	})
	require.NoError(t, err)

	newMax := 5
	got, err := svc.Update(ctx, s.ID, UpdateScheduleInput{MaxNumber: &newMax})
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxNumber)

	_, err = svc.Approve(ctx, s.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, s.ID, UpdateScheduleInput{MaxNumber: &newMax})
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "approved schedules are frozen")
}

func TestScheduleList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScheduleFixture(t, true)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	mk := func(doctorID string, date time.Time, timeType string) {
		t.Helper()
		_, err := svc.Create(ctx, CreateScheduleInput{
			DoctorID:  doctorID,
			Date:      date.Format(DateLayout),
			TimeType:  timeType,
			MaxNumber: 2,
			ActorRole: models.RoleAdmin,
		})
		require.NoError(t, err)
	}

	mk("doc-1", today.AddDate(0, 0, 1), "T2")
	mk("doc-1", today.AddDate(0, 0, 1), "T1")
	mk("doc-1", today, "T3")
	mk("doc-1", today.AddDate(0, 0, 10), "T1") // outside the default window
	mk("doc-2", today, "T1")

	t.Run("doctor filter defaults to the upcoming window", func(t *testing.T) {
		got, err := svc.List(ctx, ListScheduleInput{DoctorID: "doc-1"})
		require.NoError(t, err)
		require.Len(t, got, 3)

		// ordered by date asc, then time slot asc
		assert.Equal(t, models.TimeType("T3"), got[0].TimeType)
		assert.Equal(t, models.TimeType("T1"), got[1].TimeType)
		assert.Equal(t, models.TimeType("T2"), got[2].TimeType)
	})

	t.Run("explicit range overrides the window", func(t *testing.T) {
		got, err := svc.List(ctx, ListScheduleInput{
			DoctorID: "doc-1",
			From:     today.Format(DateLayout),
			To:       today.AddDate(0, 0, 30).Format(DateLayout),
		})
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := svc.List(ctx, ListScheduleInput{Status: string(models.ScheduleApproved)})
		require.NoError(t, err)
		assert.Len(t, got, 5)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		_, err := svc.List(ctx, ListScheduleInput{Status: "maybe"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestScheduleDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	codes := newTestCodes(t)
	schedules := NewScheduleService(store, codes, true, zerolog.Nop())
	bookings := NewBookingService(bookingView{store}, store, codes, zerolog.Nop())

	s, err := schedules.Create(ctx, CreateScheduleInput{
		DoctorID:  "doc-1",
		Date:      "2026-09-04",
		TimeType:  "T1",
		MaxNumber: 2,
		ActorRole: models.RoleAdmin,
	})
	require.NoError(t, err)

	b, err := bookings.Create(ctx, CreateBookingInput{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		Date:      "2026-09-04",
		TimeType:  "T1",
	})
	require.NoError(t, err)

	err = schedules.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, models.ErrScheduleHasActive)

	_, err = bookings.Cancel(ctx, b.ID, Actor{ID: "pat-1", Role: models.RolePatient})
	require.NoError(t, err)

	require.NoError(t, schedules.Delete(ctx, s.ID))
	_, err = schedules.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, models.ErrScheduleNotFound)
}
