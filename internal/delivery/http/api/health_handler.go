package api

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

// NewHealthHandler registers the health check route
func NewHealthHandler(public *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	public.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", healthUC.Check(c.Request.Context()))
	})
}
