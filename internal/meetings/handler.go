package meetings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/middleware"
)

// Handler exposes meeting scheduling endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a meeting handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type scheduleRequest struct {
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	AllDay         bool      `json:"all_day"`
	EntrepreneurID string    `json:"entrepreneur_id"`
	InvestorID     string    `json:"investor_id"`
	Notes          string    `json:"notes"`
}

type meetingResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	StartsAt       time.Time  `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	AllDay         bool       `json:"all_day"`
	Status         string     `json:"status"`
	EntrepreneurID string     `json:"entrepreneur_id"`
	InvestorID     string     `json:"investor_id"`
	CreatedByID    string     `json:"created_by_id"`
	Notes          string     `json:"notes,omitempty"`
}

func toMeetingResponse(m Meeting) meetingResponse {
	resp := meetingResponse{
		ID:             m.ID,
		Title:          m.Title,
		StartsAt:       m.StartsAt,
		AllDay:         m.AllDay,
		Status:         string(m.Status),
		EntrepreneurID: m.EntrepreneurID,
		InvestorID:     m.InvestorID,
		CreatedByID:    m.CreatedByID,
		Notes:          m.Notes,
	}
	if !m.EndsAt.IsZero() {
		endsAt := m.EndsAt
		resp.EndsAt = &endsAt
	}
	return resp
}

// Schedule creates a pending meeting invitation.
func (h *Handler) Schedule(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	meeting, err := h.service.Schedule(c.UserContext(), actorID, ScheduleInput{
		Title:          req.Title,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		AllDay:         req.AllDay,
		EntrepreneurID: req.EntrepreneurID,
		InvestorID:     req.InvestorID,
		Notes:          req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrNotParticipant) {
			return fiber.NewError(http.StatusForbidden, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(toMeetingResponse(meeting))
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

// Respond accepts or declines a pending invitation.
func (h *Handler) Respond(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req respondRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	meeting, err := h.service.Respond(c.UserContext(), actorID, c.Params("meetingId"), req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, ErrMeetingNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotParticipant):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrAlreadyResponded):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(toMeetingResponse(meeting))
}

// List returns the authenticated user's meetings, soonest first.
func (h *Handler) List(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	meetings, err := h.service.ListForUser(c.UserContext(), actorID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]meetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		out = append(out, toMeetingResponse(meeting))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"meetings": out})
}
