package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/meetings"
)

// RegisterMeetingRoutes wires meeting scheduling endpoints.
func RegisterMeetingRoutes(r fiber.Router, h *meetings.Handler) {
	r.Post("/meetings", h.Schedule)
	r.Get("/meetings", h.List)
	r.Post("/meetings/:meetingId/respond", h.Respond)
}
