package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"palboti_backend/internal/services"
	"palboti_backend/internal/services/dto"
)

type InsightHandler struct {
	BaseHandler
	insights services.InsightService
}

func NewInsightHandler(base BaseHandler, insights services.InsightService) *InsightHandler {
	return &InsightHandler{BaseHandler: base, insights: insights}
}

func (h *InsightHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/category/:category", h.ListByCategory)
	rg.DELETE("/:id", h.Delete)
}

func (h *InsightHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInsightRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.insights.Create(c.Request.Context(), h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InsightHandler) ListByCategory(c *gin.Context) {
	resp, err := h.insights.ListByCategory(c.Request.Context(), h.GetDB(c), c.Param("category"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InsightHandler) Delete(c *gin.Context) {
	if err := h.insights.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
