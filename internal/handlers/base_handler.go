package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"palboti_backend/internal/logger"
	"palboti_backend/internal/validator"
	"palboti_backend/pkg/apperrors"
	"palboti_backend/pkg/contextkeys"
)

// BaseHandler carries the pieces every handler needs: the validator and
// the shared binding/error helpers.
type BaseHandler struct {
	Validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) BaseHandler {
	return BaseHandler{Validator: v}
}

// GetDB pulls the request-scoped *gorm.DB installed by DBMiddleware.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	val, exists := c.Get(contextkeys.DBContextKey)
	if !exists {
		return nil
	}
	db, ok := val.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// BindAndValidateJSON binds the request body into req and runs struct
// validation. On failure it writes the 400 response and returns false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	if err := h.Validator.Validate(req); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			apperrors.HandleError(c, apperrors.ValidationError(ve.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError translates a service error into the HTTP response.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		apperrors.HandleError(c, appErr)
		return
	}
	logger.CtxError(c.Request.Context(), "unexpected service error", "error", err)
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware.
func (h *BaseHandler) CurrentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(contextkeys.UserIDContextKey)
	if userID == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

// ParsePagination reads limit/offset query params with sane bounds.
func (h *BaseHandler) ParsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
