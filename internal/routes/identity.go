package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/identity"
)

// RegisterIdentityRoutes wires registration on the public router and profile
// lookup behind authentication.
func RegisterIdentityRoutes(public, protected fiber.Router, h *identity.Handler) {
	public.Post("/identity/register", h.Register)
	protected.Get("/identity/:userId", h.Profile)
}
