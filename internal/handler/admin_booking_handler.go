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

type bookingAdmin interface {
	List(ctx context.Context, req dto.BookingListRequest) ([]models.Booking, *models.Pagination, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest, claims *models.JWTClaims) (*models.Booking, error)
	ExportDay(ctx context.Context, date time.Time, format string) ([]byte, string, error)
}

// AdminBookingHandler exposes the booking management endpoints.
type AdminBookingHandler struct {
	service bookingAdmin
}

// NewAdminBookingHandler constructs the handler.
func NewAdminBookingHandler(service bookingAdmin) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// List godoc
// @Summary List bookings with filters
// @Tags Admin Bookings
// @Security BearerAuth
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "Status (pending|confirmed|cancelled)"
// @Param search query string false "Search parent name, email or reference"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/bookings [get]
func (h *AdminBookingHandler) List(c *gin.Context) {
	req := dto.BookingListRequest{
		Date:   c.Query("date"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	bookings, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Update godoc
// @Summary Update booking status, notes or schedule
// @Tags Admin Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Changes"
// @Success 200 {object} response.Envelope{data=models.Booking}
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/bookings/{id} [patch]
func (h *AdminBookingHandler) Update(c *gin.Context) {
	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	booking, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Export godoc
// @Summary Export one day's bookings as CSV or PDF
// @Tags Admin Bookings
// @Security BearerAuth
// @Produce octet-stream
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /admin/bookings/export [get]
func (h *AdminBookingHandler) Export(c *gin.Context) {
	date, err := requireDateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", "csv")

	raw, contentType, err := h.service.ExportDay(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "bookings-" + date.Format("2006-01-02") + "." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, raw)
}
