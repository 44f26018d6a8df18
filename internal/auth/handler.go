package auth

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"enku-backoffice/internal/config"
	"enku-backoffice/internal/remote"
	"enku-backoffice/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/login
func LoginHandler(cfg *config.Config, gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		s, err := StoreFrom(c)
		if err != nil {
			return err
		}

		ident, err := gate.Login(c.UserContext(), s, body.Username, body.Password)
		if err != nil {
			if errors.Is(err, ErrMissingCredentials) {
				return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
			}
			var re *remote.Error
			if errors.As(err, &re) {
				return fiber.NewError(fiber.StatusUnauthorized, "Login failed: "+re.Message)
			}
			log.Printf("[WARN] login: %v", err)
			return fiber.NewError(fiber.StatusBadGateway, "Login failed: "+err.Error())
		}

		token, err := GenerateToken(cfg.JWTSecret, s.ID())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be created")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  ident,
			"nav":   Nav(s),
		})
	}
}

// POST /auth/logout
func LogoutHandler(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := StoreFrom(c)
		if err != nil {
			return err
		}
		if err := gate.Logout(c.UserContext(), s); err != nil && !errors.Is(err, session.ErrNotSignedIn) {
			log.Printf("[WARN] logout: %v", err)
			return fiber.NewError(fiber.StatusServiceUnavailable, "Logout failed, try again")
		}
		return c.JSON(Nav(s))
	}
}

// GET /auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := StoreFrom(c)
		if err != nil {
			return err
		}
		ident, ok := s.Current()
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Please log in")
		}
		return c.JSON(ident)
	}
}

// GET /ui/nav
func NavHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := StoreFrom(c)
		if err != nil {
			return err
		}
		return c.JSON(Nav(s))
	}
}

const keepAlive = 25 * time.Second

// GET /ui/events streams the navigation view as server-sent events, once on
// connect and again after every sign in or sign out of the session, so open
// views re-derive what they may show. The stream ends when shutdown closes.
func EventsHandler(shutdown <-chan struct{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := StoreFrom(c)
		if err != nil {
			return err
		}

		changes := make(chan session.Change, 8)
		cancel := s.Subscribe(func(ch session.Change) {
			select {
			case changes <- ch:
			default:
				// a slow reader still gets the latest state on the next event
			}
		})

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			ticker := time.NewTicker(keepAlive)
			defer ticker.Stop()

			if err := writeEvent(w, "session", Nav(s)); err != nil {
				return
			}
			for {
				select {
				case <-shutdown:
					return
				case <-changes:
					if err := writeEvent(w, "session", Nav(s)); err != nil {
						return
					}
				case <-ticker.C:
					if _, err := w.WriteString(": ping\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		}))
		return nil
	}
}

func writeEvent(w *bufio.Writer, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
