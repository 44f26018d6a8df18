package auth

import (
	"log"
	"strings"
	"time"

	"enku-backoffice/internal/config"
	"enku-backoffice/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	CookieName    = "enku_session"
	CtxSessionKey = "session"
)

// SessionMiddleware attaches the caller's session store to the request. The
// session id travels in a signed cookie, or as a Bearer token for non-browser
// clients. Requests without a valid token get a fresh signed-out session.
func SessionMiddleware(cfg *config.Config, mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieName)
		if tokenStr == "" {
			if parts := strings.SplitN(c.Get("Authorization"), " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				tokenStr = parts[1]
			}
		}

		var store *session.Store
		if tokenStr != "" {
			if id, err := ParseToken(cfg.JWTSecret, tokenStr); err == nil {
				s, err := mgr.Open(c.UserContext(), id)
				if err != nil {
					log.Printf("[WARN] %v", err)
					return fiber.NewError(fiber.StatusServiceUnavailable, "Session store unavailable")
				}
				store = s
			}
		}

		if store == nil {
			store = mgr.New()
			token, err := GenerateToken(cfg.JWTSecret, store.ID())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Session could not be created")
			}
			c.Cookie(&fiber.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(tokenTTL),
				HTTPOnly: true,
				Secure:   cfg.SecureCookies,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(CtxSessionKey, store)
		return c.Next()
	}
}

// StoreFrom returns the store attached by SessionMiddleware.
func StoreFrom(c *fiber.Ctx) (*session.Store, error) {
	s, ok := c.Locals(CtxSessionKey).(*session.Store)
	if !ok || s == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Session missing")
	}
	return s, nil
}

// RequireSignedIn rejects signed-out sessions with 401.
func RequireSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := StoreFrom(c)
		if err != nil {
			return err
		}
		if _, ok := s.Current(); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Please log in")
		}
		return c.Next()
	}
}

// RequireSection lets a request through when the identity may see section:
// 401 when signed out, 403 when the role does not match.
func RequireSection(section Section) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := StoreFrom(c)
		if err != nil {
			return err
		}
		ident, ok := s.Current()
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Please log in")
		}
		if !Allowed(ident, section) {
			return fiber.NewError(fiber.StatusForbidden, "You do not have access to this section")
		}
		return c.Next()
	}
}
