package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/lumenfeed/console/configs"
	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/service"
	"github.com/lumenfeed/console/pkg/utils"
)

type AuthHandler struct {
	cfg config.Config
	s   service.LifecycleService
}

func NewAuthHandler(cfg config.Config, s service.LifecycleService) *AuthHandler {
	return &AuthHandler{cfg: cfg, s: s}
}

// Callback lands after the external OAuth flow. The identity arrives in the
// redirect query; this side only mints the session cookie from it.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if oauthErr := c.Query("error"); oauthErr != "" {
		slog.Info("oauth callback returned an error", "error", oauthErr)
		return c.Redirect(fmt.Sprintf("%s/auth/callback?error=%s", h.cfg.FrontendURL, oauthErr))
	}

	accountID := c.Query("ig_user_id")
	if accountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing account identifier",
		})
	}

	session := models.Session{
		AccountID:  accountID,
		Handle:     c.Query("ig_username"),
		Appearance: c.Query("appearance"),
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, session, 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create session",
		})
	}

	h.s.AttachSession(c.Context(), session)

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})

	return c.Redirect(h.cfg.FrontendURL)
}

// Me reports the identity behind the session cookie.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(GetSession(c))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.s.DetachSession(c.Context())

	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	return c.SendStatus(fiber.StatusOK)
}
