package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/middleware"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

type availabilityAdminMock struct {
	captured interface{}
	patterns []models.RecurringPattern
}

func (m *availabilityAdminMock) ListOverrides(context.Context, time.Time, time.Time) ([]models.AvailabilityOverride, error) {
	return []models.AvailabilityOverride{{TimeSlot: "09:00", IsBlocked: true}}, nil
}

func (m *availabilityAdminMock) UpsertOverride(_ context.Context, req dto.UpsertOverrideRequest, claims *models.JWTClaims) (*models.AvailabilityOverride, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	m.captured = req
	return &models.AvailabilityOverride{TimeSlot: req.TimeSlot, IsBlocked: req.IsBlocked}, nil
}

func (m *availabilityAdminMock) BulkUpsert(_ context.Context, req dto.BulkOverrideRequest, claims *models.JWTClaims) (int, error) {
	if claims == nil {
		return 0, appErrors.ErrUnauthorized
	}
	m.captured = req
	return len(req.Dates) * len(req.TimeSlots), nil
}

func (m *availabilityAdminMock) ResetDate(_ context.Context, date time.Time, claims *models.JWTClaims) (int64, error) {
	if claims == nil {
		return 0, appErrors.ErrUnauthorized
	}
	m.captured = date
	return 3, nil
}

func (m *availabilityAdminMock) ListPatterns(context.Context) ([]models.RecurringPattern, error) {
	return m.patterns, nil
}

func (m *availabilityAdminMock) UpsertPattern(_ context.Context, day int, req dto.UpsertPatternRequest, claims *models.JWTClaims) (*models.RecurringPattern, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	m.captured = req
	return &models.RecurringPattern{DayOfWeek: day, Slots: models.SlotList(req.Slots)}, nil
}

func adminContext(t *testing.T, method, target string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	return w, c
}

func TestAdminAvailabilityListOverridesValidatesRange(t *testing.T) {
	handler := NewAdminAvailabilityHandler(&availabilityAdminMock{})

	w, c := adminContext(t, http.MethodGet, "/admin/availability?start_date=2026-09-01", nil)
	handler.ListOverrides(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, c = adminContext(t, http.MethodGet, "/admin/availability?start_date=2026-09-01&end_date=2026-09-07", nil)
	handler.ListOverrides(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAvailabilityUpsertOverride(t *testing.T) {
	mock := &availabilityAdminMock{}
	handler := NewAdminAvailabilityHandler(mock)

	payload := dto.UpsertOverrideRequest{Date: "2026-09-02", TimeSlot: "09:00", IsBlocked: true}
	w, c := adminContext(t, http.MethodPut, "/admin/availability", payload)
	handler.UpsertOverride(c)

	require.Equal(t, http.StatusOK, w.Code)
	captured, ok := mock.captured.(dto.UpsertOverrideRequest)
	require.True(t, ok)
	require.Equal(t, "09:00", captured.TimeSlot)
	require.True(t, captured.IsBlocked)
}

func TestAdminAvailabilityBulkUpsert(t *testing.T) {
	handler := NewAdminAvailabilityHandler(&availabilityAdminMock{})

	payload := dto.BulkOverrideRequest{
		Dates:     []string{"2026-09-02", "2026-09-03"},
		TimeSlots: []string{"09:00", "09:30"},
		IsBlocked: true,
	}
	w, c := adminContext(t, http.MethodPost, "/admin/availability/bulk", payload)
	handler.BulkUpsert(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"overrides_applied":4`)
}

func TestAdminAvailabilityResetDate(t *testing.T) {
	handler := NewAdminAvailabilityHandler(&availabilityAdminMock{})

	t.Run("bad date", func(t *testing.T) {
		w, c := adminContext(t, http.MethodDelete, "/admin/availability/bad", nil)
		c.Params = gin.Params{{Key: "date", Value: "bad"}}
		handler.ResetDate(c)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("removes overrides", func(t *testing.T) {
		w, c := adminContext(t, http.MethodDelete, "/admin/availability/2026-09-02", nil)
		c.Params = gin.Params{{Key: "date", Value: "2026-09-02"}}
		handler.ResetDate(c)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"overrides_removed":3`)
	})
}

func TestAdminAvailabilityUpsertPattern(t *testing.T) {
	handler := NewAdminAvailabilityHandler(&availabilityAdminMock{})

	t.Run("bad day", func(t *testing.T) {
		w, c := adminContext(t, http.MethodPut, "/admin/availability/patterns/x", dto.UpsertPatternRequest{})
		c.Params = gin.Params{{Key: "day", Value: "x"}}
		handler.UpsertPattern(c)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("replaces template", func(t *testing.T) {
		w, c := adminContext(t, http.MethodPut, "/admin/availability/patterns/1", dto.UpsertPatternRequest{Slots: []string{"10:00", "11:00"}})
		c.Params = gin.Params{{Key: "day", Value: "1"}}
		handler.UpsertPattern(c)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "10:00")
	})
}
