package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"palboti_backend/internal/auth"
	"palboti_backend/internal/handlers"
	"palboti_backend/internal/middleware"
	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
)

// Register wires every route group onto the engine. The db middleware
// is expected to be installed on the engine already.
func Register(r *gin.Engine, h *handlers.AppHandlers, tokens *auth.TokenService, users repositories.UserRepository) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	h.Auth.RegisterRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens, users))

	h.User.RegisterRoutes(authed.Group("/users"))
	h.Robot.RegisterRoutes(authed.Group("/robots"))
	h.Product.RegisterRoutes(authed.Group("/products"))
	h.Slot.RegisterRoutes(authed.Group("/slots"))
	h.Task.RegisterRoutes(authed.Group("/tasks"))
	h.Insight.RegisterRoutes(authed.Group("/insights"))

	admin := authed.Group("/admin/users")
	admin.Use(middleware.RequireRole(string(models.UserRoleAdmin)))
	h.User.RegisterAdminRoutes(admin)
}
