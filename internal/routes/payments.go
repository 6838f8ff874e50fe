package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/payments"
)

// RegisterPaymentRoutes wires peer transfer endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Post("/payments/transfer", h.Transfer)
}
