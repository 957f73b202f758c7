package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecs-booking-api/internal/middleware"
	"github.com/noah-isme/ecs-booking-api/internal/models"
)

// claimsFromContext extracts the authenticated identity set by the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
