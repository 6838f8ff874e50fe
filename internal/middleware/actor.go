package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/venturebridge/venturebridge/internal/auth"
	"github.com/venturebridge/venturebridge/internal/config"
	"github.com/venturebridge/venturebridge/internal/identity"
)

// ActorLocal is the fiber.Ctx local under which the acting user id is stored.
const ActorLocal = "actor_id"

// JWTAuth validates bearer tokens and resolves the acting user id for every
// protected route. When no token is presented and the service runs in
// development, the configured demo actor is substituted so the API stays
// usable without any identity infrastructure.
func JWTAuth(cfg config.Config, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			if cfg.IsDev() && cfg.DemoActorID != "" {
				c.Locals(ActorLocal, cfg.DemoActorID)
				return c.Next()
			}
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		sub, _ := claims["sub"].(string)
		verFloat, _ := claims["ver"].(float64)
		ver := int(verFloat)

		user, err := repo.FindByID(c.UserContext(), sub)
		if err != nil || user.TokenVersion != ver {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals(ActorLocal, sub)
		c.Locals("actor_role", user.Role)
		return c.Next()
	}
}

// Actor extracts the acting user id resolved by JWTAuth.
func Actor(c *fiber.Ctx) string {
	id, _ := c.Locals(ActorLocal).(string)
	return id
}
