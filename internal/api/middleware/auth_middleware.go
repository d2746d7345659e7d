package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	config "github.com/lumenfeed/console/configs"
	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/service"
	"github.com/lumenfeed/console/pkg/utils"
)

type AuthMiddleware struct {
	s   service.LifecycleService
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config, s service.LifecycleService) *AuthMiddleware {
	return &AuthMiddleware{s: s, cfg: cfg}
}

func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing session cookie",
			})
		}

		claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
		if err != nil {
			c.Cookie(&fiber.Cookie{
				Name:   m.cfg.CookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1, // Delete cookie
			})

			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		session := models.Session{
			AccountID:  claims.AccountID,
			Handle:     claims.Handle,
			Appearance: claims.Appearance,
		}
		c.Locals("session", session)

		// A valid cookie after a restart re-seeds the in-memory session.
		if _, ok := m.s.Session(); !ok {
			m.s.AttachSession(c.Context(), session)
		}
		return c.Next()
	}
}
