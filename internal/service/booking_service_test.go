package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	"github.com/noah-isme/ecs-booking-api/internal/repository"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

type fakeBookingStore struct {
	insertErrs  []error
	inserted    []models.Booking
	existing    *models.Booking
	findErr     error
	rescheduled bool
	reschedErr  error
	statusSet   *models.BookingStatus
	listErr     error
	listed      []models.Booking
	references  map[string]bool
	calls       int
}

func (f *fakeBookingStore) InsertActive(_ context.Context, booking *models.Booking) error {
	f.calls++
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	booking.ID = "bk-1"
	f.inserted = append(f.inserted, *booking)
	return nil
}

func (f *fakeBookingStore) ReferenceExists(_ context.Context, reference string) (bool, error) {
	f.calls++
	return f.references[reference], nil
}

func (f *fakeBookingStore) FindByID(context.Context, string) (*models.Booking, error) {
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.existing == nil {
		return nil, sql.ErrNoRows
	}
	copied := *f.existing
	return &copied, nil
}

func (f *fakeBookingStore) FindByReference(ctx context.Context, _ string) (*models.Booking, error) {
	return f.FindByID(ctx, "")
}

func (f *fakeBookingStore) List(context.Context, models.BookingFilter) ([]models.Booking, int, error) {
	f.calls++
	return f.listed, len(f.listed), f.listErr
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, _ string, status models.BookingStatus, _ *string, _ *string) error {
	f.calls++
	f.statusSet = &status
	return nil
}

func (f *fakeBookingStore) Reschedule(context.Context, string, time.Time, string, *string) error {
	f.calls++
	f.rescheduled = true
	return f.reschedErr
}

type fakeSlotGate struct {
	blocked     bool
	err         error
	invalidated []string
}

func (f *fakeSlotGate) SlotBlocked(context.Context, time.Time, string) (bool, error) {
	return f.blocked, f.err
}

func (f *fakeSlotGate) InvalidateDate(_ context.Context, date time.Time) {
	f.invalidated = append(f.invalidated, date.Format("2006-01-02"))
}

type fakeBookingNotifier struct {
	created []*models.Booking
}

func (f *fakeBookingNotifier) BookingCreated(booking *models.Booking) {
	f.created = append(f.created, booking)
}

type fakeOutcomes struct {
	outcomes []string
}

func (f *fakeOutcomes) RecordBookingOutcome(outcome string) {
	f.outcomes = append(f.outcomes, outcome)
}

func validCreateRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		AppointmentType: "school_tour",
		Date:            "2026-09-02",
		TimeSlot:        "09:00",
		ParentName:      "Jordan Blake",
		ParentEmail:     "jordan@example.com",
		ParentPhone:     "+14155550100",
	}
}

func newTestBookingService(store *fakeBookingStore, gate *fakeSlotGate, notifier *fakeBookingNotifier, metrics *fakeOutcomes) *BookingService {
	var n bookingNotifier
	if notifier != nil {
		n = notifier
	}
	var m bookingMetrics
	if metrics != nil {
		m = metrics
	}
	svc := NewBookingService(store, gate, n, NewReferenceGenerator("APP", 10), m, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateBooking(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &fakeBookingStore{}
		gate := &fakeSlotGate{}
		notifier := &fakeBookingNotifier{}
		metrics := &fakeOutcomes{}
		svc := newTestBookingService(store, gate, notifier, metrics)

		resp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "bk-1", resp.BookingID)
		assert.Regexp(t, regexp.MustCompile(`^APP-20260902-\d{4}$`), resp.ReferenceNumber)

		require.Len(t, store.inserted, 1)
		assert.Equal(t, models.BookingPending, store.inserted[0].Status)
		assert.Equal(t, []string{"2026-09-02"}, gate.invalidated)
		require.Len(t, notifier.created, 1)
		assert.Equal(t, []string{"created"}, metrics.outcomes)
	})

	t.Run("past date never reaches the store", func(t *testing.T) {
		store := &fakeBookingStore{}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		req := validCreateRequest()
		req.Date = "2026-08-31"

		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		assert.Zero(t, store.calls)
	})

	t.Run("today is bookable", func(t *testing.T) {
		store := &fakeBookingStore{}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		req := validCreateRequest()
		req.Date = "2026-09-01"

		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("invalid payload rejected", func(t *testing.T) {
		store := &fakeBookingStore{}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		req := validCreateRequest()
		req.ParentEmail = "not-an-email"

		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		assert.Zero(t, store.calls)
	})

	t.Run("blocked slot conflicts", func(t *testing.T) {
		store := &fakeBookingStore{}
		metrics := &fakeOutcomes{}
		svc := newTestBookingService(store, &fakeSlotGate{blocked: true}, nil, metrics)

		_, err := svc.Create(context.Background(), validCreateRequest())
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrSlotConflict.Code, appErr.Code)
		assert.Equal(t, 409, appErr.Status)
		assert.Zero(t, store.calls)
		assert.Equal(t, []string{"blocked"}, metrics.outcomes)
	})

	t.Run("occupied slot maps to conflict", func(t *testing.T) {
		store := &fakeBookingStore{insertErrs: []error{repository.ErrSlotTaken}}
		metrics := &fakeOutcomes{}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, metrics)

		_, err := svc.Create(context.Background(), validCreateRequest())
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrSlotConflict.Code, appErrors.FromError(err).Code)
		assert.Equal(t, []string{"conflict"}, metrics.outcomes)
	})

	t.Run("reference collision retries insert", func(t *testing.T) {
		store := &fakeBookingStore{insertErrs: []error{repository.ErrReferenceTaken, nil}}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		resp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ReferenceNumber)
		require.Len(t, store.inserted, 1)
	})

	t.Run("store outage surfaces 503", func(t *testing.T) {
		store := &fakeBookingStore{insertErrs: []error{driver.ErrBadConn}}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		_, err := svc.Create(context.Background(), validCreateRequest())
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErr.Code)
		assert.Equal(t, 503, appErr.Status)
	})
}

func TestGetByReference(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store := &fakeBookingStore{existing: &models.Booking{ID: "bk-1", ReferenceNumber: "APP-20260902-1234"}}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		booking, err := svc.GetByReference(context.Background(), "APP-20260902-1234")
		require.NoError(t, err)
		assert.Equal(t, "bk-1", booking.ID)
	})

	t.Run("missing", func(t *testing.T) {
		svc := newTestBookingService(&fakeBookingStore{}, &fakeSlotGate{}, nil, nil)

		_, err := svc.GetByReference(context.Background(), "APP-20260902-0000")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	})
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
}

func TestUpdateBooking(t *testing.T) {
	existing := &models.Booking{
		ID:              "bk-1",
		ReferenceNumber: "APP-20260902-1234",
		Date:            time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "09:00",
		Status:          models.BookingPending,
	}

	t.Run("requires claims", func(t *testing.T) {
		svc := newTestBookingService(&fakeBookingStore{}, &fakeSlotGate{}, nil, nil)
		_, err := svc.Update(context.Background(), "bk-1", dto.UpdateBookingRequest{Status: "confirmed"}, nil)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	})

	t.Run("confirm updates status", func(t *testing.T) {
		store := &fakeBookingStore{existing: existing}
		gate := &fakeSlotGate{}
		svc := newTestBookingService(store, gate, nil, nil)

		_, err := svc.Update(context.Background(), "bk-1", dto.UpdateBookingRequest{Status: "confirmed"}, adminClaims())
		require.NoError(t, err)
		require.NotNil(t, store.statusSet)
		assert.Equal(t, models.BookingConfirmed, *store.statusSet)
		assert.Empty(t, gate.invalidated, "confirming keeps the slot occupied")
	})

	t.Run("cancel releases the slot", func(t *testing.T) {
		store := &fakeBookingStore{existing: existing}
		gate := &fakeSlotGate{}
		metrics := &fakeOutcomes{}
		svc := newTestBookingService(store, gate, nil, metrics)

		_, err := svc.Update(context.Background(), "bk-1", dto.UpdateBookingRequest{Status: "cancelled"}, adminClaims())
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-09-02"}, gate.invalidated)
		assert.Equal(t, []string{"cancelled"}, metrics.outcomes)
	})

	t.Run("reschedule invalidates both dates", func(t *testing.T) {
		store := &fakeBookingStore{existing: existing}
		gate := &fakeSlotGate{}
		svc := newTestBookingService(store, gate, nil, nil)

		_, err := svc.Update(context.Background(), "bk-1", dto.UpdateBookingRequest{Date: "2026-09-03", TimeSlot: "10:00"}, adminClaims())
		require.NoError(t, err)
		assert.True(t, store.rescheduled)
		assert.Equal(t, []string{"2026-09-02", "2026-09-03"}, gate.invalidated)
	})

	t.Run("reschedule onto occupied slot conflicts", func(t *testing.T) {
		store := &fakeBookingStore{existing: existing, reschedErr: repository.ErrSlotTaken}
		svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

		_, err := svc.Update(context.Background(), "bk-1", dto.UpdateBookingRequest{TimeSlot: "10:00"}, adminClaims())
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrSlotConflict.Code, appErrors.FromError(err).Code)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc := newTestBookingService(&fakeBookingStore{}, &fakeSlotGate{}, nil, nil)

		_, err := svc.Update(context.Background(), "missing", dto.UpdateBookingRequest{Status: "confirmed"}, adminClaims())
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	})
}

func TestListBookings(t *testing.T) {
	store := &fakeBookingStore{listed: []models.Booking{{ID: "bk-1"}, {ID: "bk-2"}}}
	svc := newTestBookingService(store, &fakeSlotGate{}, nil, nil)

	t.Run("defaults pagination", func(t *testing.T) {
		bookings, page, err := svc.List(context.Background(), dto.BookingListRequest{})
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 50, page.PageSize)
		assert.Equal(t, 2, page.TotalCount)
	})

	t.Run("rejects bad status", func(t *testing.T) {
		_, _, err := svc.List(context.Background(), dto.BookingListRequest{Status: "sideways"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})

	t.Run("rejects bad date", func(t *testing.T) {
		_, _, err := svc.List(context.Background(), dto.BookingListRequest{Date: "02-09-2026"})
		require.Error(t, err)
	})
}
