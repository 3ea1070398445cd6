package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"palboti_backend/internal/auth"
	"palboti_backend/internal/logger"
	"palboti_backend/internal/repositories"
	"palboti_backend/pkg/apperrors"
	"palboti_backend/pkg/contextkeys"
)

// AuthMiddleware validates the bearer access token, loads the account
// and exposes user id, role and email to downstream handlers.
func AuthMiddleware(tokens *auth.TokenService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, apperrors.NewUnauthorizedError("Invalid authorization header"))
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		val, exists := c.Get(contextkeys.DBContextKey)
		db, ok := val.(*gorm.DB)
		if !exists || !ok {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := users.FindByID(db, claims.Subject)
		if err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) {
				logger.CtxError(c.Request.Context(), "user lookup failed during auth", "error", err)
			}
			abortUnauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(contextkeys.UserIDContextKey, user.ID)
		c.Set(contextkeys.UserRoleContextKey, string(user.Role))
		c.Set(contextkeys.UserEmailContextKey, user.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// RequireRole guards a route group behind an exact role match. Must run
// after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextkeys.UserRoleContextKey) != role {
			apperrors.HandleError(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, appErr *apperrors.AppError) {
	apperrors.HandleError(c, appErr)
	c.Abort()
}
