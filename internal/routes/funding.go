package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/funding"
)

// RegisterFundingRoutes wires deal funding endpoints.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/deals/fund", h.Fund)
	r.Get("/deals", h.List)
}
