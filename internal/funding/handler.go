package funding

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/middleware"
)

// Handler exposes deal funding endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type fundRequest struct {
	EntrepreneurID string `json:"entrepreneur_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	DealTitle      string `json:"deal_title"`
}

type dealResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	EntrepreneurID string    `json:"entrepreneur_id"`
	InvestorID     string    `json:"investor_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	TransactionID  string    `json:"transaction_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func toDealResponse(deal Deal) dealResponse {
	return dealResponse{
		ID:             deal.ID,
		Title:          deal.Title,
		EntrepreneurID: deal.EntrepreneurID,
		InvestorID:     deal.InvestorID,
		Amount:         deal.Amount,
		Currency:       string(deal.Currency),
		TransactionID:  deal.TransactionID,
		CreatedAt:      deal.CreatedAt,
	}
}

// Fund posts deal capital from the authenticated investor.
func (h *Handler) Fund(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req fundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Fund(c.UserContext(), actorID, FundInput{
		EntrepreneurID: req.EntrepreneurID,
		Amount:         req.Amount,
		Currency:       ledger.Currency(req.Currency),
		DealTitle:      req.DealTitle,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrCurrencyMismatch), errors.Is(err, ledger.ErrBalanceOverflow):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"transaction_id": res.Transaction.ID,
				"status":         res.Transaction.Status,
				"error":          err.Error(),
			})
		case errors.Is(err, ErrNotEntrepreneur):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrRecipientRequired), errors.Is(err, ledger.ErrAmountNotPositive), errors.Is(err, ledger.ErrUnsupportedCurrency):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrVersionConflict):
			return fiber.NewError(http.StatusConflict, "ledger state changed concurrently")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"deal":           toDealResponse(res.Deal),
		"transaction_id": res.Transaction.ID,
		"status":         res.Transaction.Status,
	})
}

// List returns deals the authenticated user participates in.
func (h *Handler) List(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	deals, err := h.service.Deals(c.UserContext(), actorID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]dealResponse, 0, len(deals))
	for _, deal := range deals {
		out = append(out, toDealResponse(deal))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"deals": out})
}
