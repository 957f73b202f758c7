package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

type bookingCreatorMock struct {
	created *dto.BookingCreatedResponse
	booking *models.Booking
	err     error
}

func (m *bookingCreatorMock) Create(context.Context, dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error) {
	return m.created, m.err
}

func (m *bookingCreatorMock) GetByReference(context.Context, string) (*models.Booking, error) {
	return m.booking, m.err
}

func postJSON(t *testing.T, handlerFn gin.HandlerFunc, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handlerFn(c)
	return w
}

func TestBookingHandlerCreate(t *testing.T) {
	payload := dto.CreateBookingRequest{
		AppointmentType: "school_tour",
		Date:            "2026-09-02",
		TimeSlot:        "09:00",
		ParentName:      "Jordan Blake",
		ParentEmail:     "jordan@example.com",
		ParentPhone:     "+14155550100",
	}

	t.Run("created", func(t *testing.T) {
		mock := &bookingCreatorMock{created: &dto.BookingCreatedResponse{BookingID: "bk-1", ReferenceNumber: "APP-20260902-1234"}}
		w := postJSON(t, NewBookingHandler(mock).Create, payload)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Contains(t, w.Body.String(), "APP-20260902-1234")
	})

	t.Run("missing fields rejected by binding", func(t *testing.T) {
		mock := &bookingCreatorMock{}
		w := postJSON(t, NewBookingHandler(mock).Create, map[string]string{"date": "2026-09-02"})

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("slot conflict", func(t *testing.T) {
		mock := &bookingCreatorMock{err: appErrors.ErrSlotConflict}
		w := postJSON(t, NewBookingHandler(mock).Create, payload)

		require.Equal(t, http.StatusConflict, w.Code)
		require.Contains(t, w.Body.String(), "SLOT_CONFLICT")
	})

	t.Run("store unavailable", func(t *testing.T) {
		mock := &bookingCreatorMock{err: appErrors.ErrStoreUnavailable}
		w := postJSON(t, NewBookingHandler(mock).Create, payload)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestBookingHandlerGetByReference(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		mock := &bookingCreatorMock{booking: &models.Booking{ID: "bk-1", ReferenceNumber: "APP-20260902-1234"}}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req, _ := http.NewRequest(http.MethodGet, "/bookings/APP-20260902-1234", nil)
		c.Request = req
		c.Params = gin.Params{{Key: "reference", Value: "APP-20260902-1234"}}

		NewBookingHandler(mock).GetByReference(c)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "bk-1")
	})

	t.Run("not found", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		mock := &bookingCreatorMock{err: appErrors.ErrNotFound}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req, _ := http.NewRequest(http.MethodGet, "/bookings/APP-20260902-0000", nil)
		c.Request = req
		c.Params = gin.Params{{Key: "reference", Value: "APP-20260902-0000"}}

		NewBookingHandler(mock).GetByReference(c)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
