package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mushya-portal/mushya-portal/internal/store"
)

// SessionCookie is the name of the cookie carrying the session ID.
const SessionCookie = "session"

// localsGate is the fiber locals key under which the middleware stashes
// the request's gate.
const localsGate = "gate"

// SessionKey maps a session ID to its key-value store key.
func SessionKey(sessionID string) string {
	return "session_" + sessionID
}

// Middleware builds the request's gate from the session cookie and
// stores it in the request locals. Requests without a cookie, or with a
// stale one, carry an anonymous gate; route protection is left to the
// Require* middlewares.
func Middleware(svc *Service, kv *store.KV) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)

		var gate *Gate
		if sessionID == "" {
			gate = NewGate(svc, kv, SessionKey("anonymous"))
		} else {
			gate = NewGate(svc, kv, SessionKey(sessionID))
			if err := gate.Hydrate(); err != nil {
				log.Error().Err(err).Msg("Failed to hydrate session")

				return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
			}
		}

		c.Locals(localsGate, gate)

		return c.Next()
	}
}

// GateFromCtx returns the gate stored by Middleware, or nil when the
// middleware did not run.
func GateFromCtx(c *fiber.Ctx) *Gate {
	gate, ok := c.Locals(localsGate).(*Gate)
	if !ok {
		return nil
	}

	return gate
}

// RequireAuthenticated creates Fiber middleware that rejects requests
// without an authenticated principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		gate := GateFromCtx(c)
		if gate == nil || gate.State() != StateAuthenticated {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific
// permission.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gate := GateFromCtx(c)
		if gate == nil || gate.State() != StateAuthenticated {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !gate.Can(permission) {
			log.Warn().Str("user_id", gate.Principal().ID).Str("permission", permission).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least
// one of the given permissions.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gate := GateFromCtx(c)
		if gate == nil || gate.State() != StateAuthenticated {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !gate.CanAny(permissions...) {
			log.Warn().Str("user_id", gate.Principal().ID).Strs("permissions", permissions).
				Msg("User lacks required permissions")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireAllPermissions creates Fiber middleware that requires all the
// given permissions.
func RequireAllPermissions(permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gate := GateFromCtx(c)
		if gate == nil || gate.State() != StateAuthenticated {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !gate.CanAll(permissions...) {
			log.Warn().Str("user_id", gate.Principal().ID).Strs("permissions", permissions).
				Msg("User lacks required permissions")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}
