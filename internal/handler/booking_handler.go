package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	"github.com/noah-isme/ecs-booking-api/internal/models"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
	"github.com/noah-isme/ecs-booking-api/pkg/response"
)

type bookingCreator interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
}

// BookingHandler exposes the public booking endpoints.
type BookingHandler struct {
	service bookingCreator
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(service bookingCreator) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create godoc
// @Summary Book an appointment
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} response.Envelope{data=dto.BookingCreatedResponse}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// GetByReference godoc
// @Summary Look up a booking by reference number
// @Tags Bookings
// @Produce json
// @Param reference path string true "Reference number"
// @Success 200 {object} response.Envelope{data=models.Booking}
// @Failure 404 {object} response.Envelope
// @Router /bookings/{reference} [get]
func (h *BookingHandler) GetByReference(c *gin.Context) {
	booking, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}
