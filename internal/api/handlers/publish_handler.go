package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumenfeed/console/internal/service"
)

type PublishHandler struct {
	s service.LifecycleService
}

func NewPublishHandler(s service.LifecycleService) *PublishHandler {
	return &PublishHandler{s: s}
}

func (h *PublishHandler) PublishNow(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	post, err := h.s.PublishNow(c.Context(), slot)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PublishHandler) SchedulePost(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	var body struct {
		PublishAt string `json:"publish_at"`
	}
	if err := c.BodyParser(&body); err != nil || body.PublishAt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing publish_at",
		})
	}

	post, err := h.s.Schedule(c.Context(), slot, body.PublishAt)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PublishHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.s.ScheduledJobs(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"scheduled_posts": jobs,
		"count":           len(jobs),
	})
}

func (h *PublishHandler) CancelJob(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing job id",
		})
	}
	slot := c.QueryInt("slot", 0)

	if err := h.s.CancelScheduled(c.Context(), jobID, slot); err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"cancelled": true,
		"job_id":    jobID,
	})
}
