// Package session provides session ID generation and cookie handling
// for the web layer. Session state itself lives in the key-value store,
// keyed per session ID, so any storage backend shared between pods
// shares sessions too.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// SetCookie attaches the session cookie to the response. The Secure
// flag is dropped in dev mode so plain http works locally.
func SetCookie(c *fiber.Ctx, sessionID string, expiry time.Duration, devMode bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		MaxAge:   int(expiry.Seconds()),
		Secure:   !devMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(c *fiber.Ctx, devMode bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   !devMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
