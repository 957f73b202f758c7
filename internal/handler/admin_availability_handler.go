package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
	"github.com/noah-isme/ecs-booking-api/pkg/response"
)

type availabilityAdmin interface {
	ListOverrides(ctx context.Context, start, end time.Time) ([]models.AvailabilityOverride, error)
	UpsertOverride(ctx context.Context, req dto.UpsertOverrideRequest, claims *models.JWTClaims) (*models.AvailabilityOverride, error)
	BulkUpsert(ctx context.Context, req dto.BulkOverrideRequest, claims *models.JWTClaims) (int, error)
	ResetDate(ctx context.Context, date time.Time, claims *models.JWTClaims) (int64, error)
	ListPatterns(ctx context.Context) ([]models.RecurringPattern, error)
	UpsertPattern(ctx context.Context, dayOfWeek int, req dto.UpsertPatternRequest, claims *models.JWTClaims) (*models.RecurringPattern, error)
}

// AdminAvailabilityHandler exposes the calendar management endpoints.
type AdminAvailabilityHandler struct {
	service availabilityAdmin
}

// NewAdminAvailabilityHandler constructs the handler.
func NewAdminAvailabilityHandler(service availabilityAdmin) *AdminAvailabilityHandler {
	return &AdminAvailabilityHandler{service: service}
}

// ListOverrides godoc
// @Summary List availability overrides in a date range
// @Tags Admin Availability
// @Security BearerAuth
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/availability [get]
func (h *AdminAvailabilityHandler) ListOverrides(c *gin.Context) {
	start, err := requireDateQuery(c, "start_date")
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := requireDateQuery(c, "end_date")
	if err != nil {
		response.Error(c, err)
		return
	}

	overrides, err := h.service.ListOverrides(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overrides, nil)
}

// UpsertOverride godoc
// @Summary Set availability for one date and time slot
// @Tags Admin Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpsertOverrideRequest true "Override"
// @Success 200 {object} response.Envelope
// @Router /admin/availability [put]
func (h *AdminAvailabilityHandler) UpsertOverride(c *gin.Context) {
	var req dto.UpsertOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	override, err := h.service.UpsertOverride(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, override, nil)
}

// BulkUpsert godoc
// @Summary Apply one availability decision across many dates and slots
// @Tags Admin Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BulkOverrideRequest true "Bulk decision"
// @Success 200 {object} response.Envelope
// @Router /admin/availability/bulk [post]
func (h *AdminAvailabilityHandler) BulkUpsert(c *gin.Context) {
	var req dto.BulkOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	applied, err := h.service.BulkUpsert(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"overrides_applied": applied}, nil)
}

// ResetDate godoc
// @Summary Remove all overrides for a date
// @Tags Admin Availability
// @Security BearerAuth
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/availability/{date} [delete]
func (h *AdminAvailabilityHandler) ResetDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
		return
	}

	removed, err := h.service.ResetDate(c.Request.Context(), date, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"overrides_removed": removed}, nil)
}

// ListPatterns godoc
// @Summary List weekly recurring patterns
// @Tags Admin Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/availability/patterns [get]
func (h *AdminAvailabilityHandler) ListPatterns(c *gin.Context) {
	patterns, err := h.service.ListPatterns(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, patterns, nil)
}

// UpsertPattern godoc
// @Summary Replace the weekly template for one weekday
// @Tags Admin Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param day path int true "Day of week (0=Sunday .. 6=Saturday)"
// @Param request body dto.UpsertPatternRequest true "Slots"
// @Success 200 {object} response.Envelope
// @Router /admin/availability/patterns/{day} [put]
func (h *AdminAvailabilityHandler) UpsertPattern(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be an integer"))
		return
	}

	var req dto.UpsertPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	pattern, err := h.service.UpsertPattern(c.Request.Context(), day, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pattern, nil)
}

func requireDateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, name+" query parameter is required")
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+", expected YYYY-MM-DD")
	}
	return parsed, nil
}
