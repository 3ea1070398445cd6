package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"palboti_backend/internal/services"
	"palboti_backend/internal/services/dto"
)

type RobotHandler struct {
	BaseHandler
	robots services.RobotService
}

func NewRobotHandler(base BaseHandler, robots services.RobotService) *RobotHandler {
	return &RobotHandler{BaseHandler: base, robots: robots}
}

func (h *RobotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *RobotHandler) Create(c *gin.Context) {
	var req dto.CreateRobotRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.robots.Create(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RobotHandler) List(c *gin.Context) {
	resp, err := h.robots.List(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RobotHandler) GetByID(c *gin.Context) {
	resp, err := h.robots.GetByID(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RobotHandler) Update(c *gin.Context) {
	var req dto.UpdateRobotRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.robots.Update(c.Request.Context(), h.GetDB(c), c.Param("id"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RobotHandler) Delete(c *gin.Context) {
	if err := h.robots.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
