package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
	"github.com/noah-isme/ecs-booking-api/pkg/response"
)

type availabilityReader interface {
	AvailableSlots(ctx context.Context, date time.Time) ([]string, error)
}

// AvailabilityHandler exposes the public availability query.
type AvailabilityHandler struct {
	service availabilityReader
	now     func() time.Time
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(service availabilityReader) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, now: time.Now}
}

// Get godoc
// @Summary List bookable time slots for a date
// @Tags Availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=dto.AvailabilityResponse}
// @Failure 400 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
		return
	}

	// Past dates are rejected but still carry an empty slot list so clients
	// can render the day without special-casing the error shape.
	today := h.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if date.Before(today) {
		response.ErrorWithData(c,
			appErrors.Clone(appErrors.ErrValidation, "cannot check availability for past dates"),
			dto.AvailabilityResponse{Date: raw, AvailableSlots: []string{}},
		)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	response.JSON(c, http.StatusOK, dto.AvailabilityResponse{Date: raw, AvailableSlots: slots}, nil)
}
