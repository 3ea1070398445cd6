package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"palboti_backend/internal/services"
	"palboti_backend/internal/services/dto"
)

type SlotHandler struct {
	BaseHandler
	slots services.SlotService
}

func NewSlotHandler(base BaseHandler, slots services.SlotService) *SlotHandler {
	return &SlotHandler{BaseHandler: base, slots: slots}
}

func (h *SlotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/zone/:zone", h.ListByZone)
	rg.DELETE("/:id", h.Delete)
}

func (h *SlotHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSlotRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.slots.Create(c.Request.Context(), h.GetDB(c), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SlotHandler) ListByZone(c *gin.Context) {
	resp, err := h.slots.ListByZone(c.Request.Context(), h.GetDB(c), c.Param("zone"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SlotHandler) Delete(c *gin.Context) {
	if err := h.slots.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
