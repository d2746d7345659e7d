package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lumenfeed/console/internal/models"
	"github.com/lumenfeed/console/internal/service"
)

func GetSession(c *fiber.Ctx) models.Session {
	session, _ := c.Locals("session").(models.Session)
	return session
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNoSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrSlotNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrRegenerating),
		errors.Is(err, service.ErrSlotBusy),
		errors.Is(err, service.ErrStatusConflict),
		errors.Is(err, service.ErrAlreadyScheduled),
		errors.Is(err, service.ErrAlreadyPublished),
		errors.Is(err, service.ErrNoPending):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNoImage),
		errors.Is(err, service.ErrEmptyCaption):
		return fiber.StatusBadRequest
	}
	var remoteErr *service.RemoteError
	if errors.As(err, &remoteErr) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
