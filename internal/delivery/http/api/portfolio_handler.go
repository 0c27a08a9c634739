package api

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	content *portfolio.Content
}

// NewPortfolioHandler registers the read-only content routes
func NewPortfolioHandler(public *gin.RouterGroup, content *portfolio.Content) {
	handler := &PortfolioHandler{content: content}

	public.GET("/portfolio", handler.GetAll)
	public.GET("/portfolio/:section", handler.GetSection)
}

// GetAll godoc
// @Summary      Portfolio content
// @Description  Every section rendered on the page.
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /portfolio [get]
func (h *PortfolioHandler) GetAll(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	response.Success(c, http.StatusOK, "", h.content)
}

// GetSection godoc
// @Summary      Portfolio section
// @Tags         portfolio
// @Produce      json
// @Param        section  path      string  true  "profile, about, skills, projects, experience, education or contact"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /portfolio/{section} [get]
func (h *PortfolioHandler) GetSection(c *gin.Context) {
	section, ok := h.content.Section(c.Param("section"))
	if !ok {
		_ = c.Error(apperror.NotFound("Unknown portfolio section"))
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	response.Success(c, http.StatusOK, "", section)
}
