package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/auth"
)

// RegisterAuthRoutes wires authentication endpoints. Logout is registered by
// the protected group since it needs the resolved actor.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/refresh", h.Refresh)
}
