package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecs-booking-api/internal/dto"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
	"github.com/noah-isme/ecs-booking-api/pkg/response"
)

type contactReceiver interface {
	Submit(ctx context.Context, req dto.ContactRequest) error
}

// ContactHandler exposes the public contact form endpoint.
type ContactHandler struct {
	service contactReceiver
}

// NewContactHandler constructs the handler.
func NewContactHandler(service contactReceiver) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit godoc
// @Summary Submit a contact form message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if err := h.service.Submit(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "thank you, we will be in touch shortly"}, nil)
}
