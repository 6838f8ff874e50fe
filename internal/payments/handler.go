package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/middleware"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	ToUserID string `json:"to_user_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Transfer processes a wallet-to-wallet transfer from the authenticated user.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Transfer(c.UserContext(), actorID, TransferInput{
		ToUserID: req.ToUserID,
		Amount:   req.Amount,
		Currency: ledger.Currency(req.Currency),
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrCurrencyMismatch), errors.Is(err, ledger.ErrBalanceOverflow):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"transaction_id": tx.ID,
				"status":         tx.Status,
				"error":          err.Error(),
			})
		case errors.Is(err, ErrRecipientNotFound):
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
		"transaction_id": tx.ID,
		"amount":         tx.Amount,
		"currency":       tx.Currency,
		"status":         tx.Status,
		"created_at":     tx.CreatedAt,
	})
}
