package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints for the authenticated user.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Me)
	r.Get("/wallet/transactions", h.History)
	r.Post("/wallet/deposit", h.Deposit)
	r.Post("/wallet/withdraw", h.Withdraw)
	r.Get("/wallets/:userId", h.Show)
}
