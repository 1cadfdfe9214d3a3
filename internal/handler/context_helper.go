package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/middleware"
	"github.com/bursary-portal/bursary-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
