package wallet

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/middleware"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type amountRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type transactionResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	SenderID   string    `json:"sender_id,omitempty"`
	ReceiverID string    `json:"receiver_id,omitempty"`
	Note       string    `json:"note,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toTransactionResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		Type:       string(tx.Type),
		Amount:     tx.Amount,
		Currency:   string(tx.Currency),
		SenderID:   tx.SenderID,
		ReceiverID: tx.ReceiverID,
		Note:       tx.Note,
		Status:     string(tx.Status),
		CreatedAt:  tx.CreatedAt,
	}
}

// Deposit credits the authenticated user's wallet.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.amountOp(c, h.service.Deposit)
}

// Withdraw debits the authenticated user's wallet.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.amountOp(c, h.service.Withdraw)
}

func (h *Handler) amountOp(c *fiber.Ctx, op func(ctx context.Context, actorID string, input AmountInput) (ledger.Transaction, error)) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := op(c.UserContext(), actorID, AmountInput{Amount: req.Amount, Currency: ledger.Currency(req.Currency)})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrCurrencyMismatch), errors.Is(err, ledger.ErrBalanceOverflow):
			// The rejection is committed to the audit log; return the record.
			return c.Status(http.StatusUnprocessableEntity).JSON(toTransactionResponse(tx))
		case errors.Is(err, ledger.ErrAmountNotPositive), errors.Is(err, ledger.ErrUnsupportedCurrency):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrVersionConflict):
			return fiber.NewError(http.StatusConflict, "ledger state changed concurrently")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(toTransactionResponse(tx))
}

// Me returns the authenticated user's wallet.
func (h *Handler) Me(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.Get(c.UserContext(), actorID)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id":  w.UserID,
		"balance":  w.Balance,
		"currency": w.Currency,
	})
}

// History returns the authenticated user's transactions, newest first.
func (h *Handler) History(c *fiber.Ctx) error {
	actorID := middleware.Actor(c)
	if actorID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	filter := ledger.Filter{
		Type:   ledger.TxType(c.Query("type")),
		Status: ledger.TxStatus(c.Query("status")),
		Limit:  c.QueryInt("limit"),
	}
	txs := h.service.History(c.UserContext(), actorID, filter)

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": out})
}

// Show returns another user's wallet by id.
func (h *Handler) Show(c *fiber.Ctx) error {
	w, err := h.service.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user_id":  w.UserID,
		"balance":  w.Balance,
		"currency": w.Currency,
	})
}
