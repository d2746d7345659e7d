package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lumenfeed/console/internal/service"
)

type PostHandler struct {
	s service.LifecycleService
}

func NewPostHandler(s service.LifecycleService) *PostHandler {
	return &PostHandler{s: s}
}

// Bootstrap loads the persisted schedule (remote first, cache fallback) and
// generates a fresh one when both are empty.
func (h *PostHandler) Bootstrap(c *fiber.Ctx) error {
	posts, err := h.s.Bootstrap(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// ListPosts feeds the calendar grid. An optional ?month=YYYY-MM narrows the
// collection to one month.
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts := h.s.Posts()

	month := c.Query("month")
	if month == "" {
		return c.Status(fiber.StatusOK).JSON(posts)
	}

	filtered := posts[:0:0]
	for _, post := range posts {
		if strings.HasPrefix(post.Date, month) {
			filtered = append(filtered, post)
		}
	}
	return c.Status(fiber.StatusOK).JSON(filtered)
}

func (h *PostHandler) PostInfo(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	post, err := h.s.Post(slot)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// AddPost backs the add-post modal: one generated post for the given date.
func (h *PostHandler) AddPost(c *fiber.Ctx) error {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.BodyParser(&body); err != nil || body.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing date",
		})
	}

	post, err := h.s.AddPost(c.Context(), body.Date)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Regenerate(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	var body struct {
		Instruction string `json:"instruction"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse body",
		})
	}

	pending, err := h.s.Regenerate(c.Context(), slot, body.Instruction)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"pending": pending,
	})
}

func (h *PostHandler) GetPending(c *fiber.Ctx) error {
	pending, ok := h.s.Pending()
	if !ok {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"pending": nil})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"pending": pending})
}

// ApplyPending accepts the surfaced regeneration result. The local apply is
// kept even when the backend patch fails; the response flags the failed sync.
func (h *PostHandler) ApplyPending(c *fiber.Ctx) error {
	post, err := h.s.ApplyPending(c.Context())
	if err != nil {
		if post != nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"post":   post,
				"synced": false,
				"error":  err.Error(),
			})
		}
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post":   post,
		"synced": true,
	})
}

func (h *PostHandler) DiscardPending(c *fiber.Ctx) error {
	if err := h.s.DiscardPending(); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) EditContent(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	var body struct {
		Caption     string `json:"caption"`
		ScenePrompt string `json:"scene_prompt"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse body",
		})
	}

	post, err := h.s.EditContent(c.Context(), slot, body.Caption, body.ScenePrompt)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) ToggleApproval(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	post, err := h.s.ToggleApproval(c.Context(), slot)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) Reject(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid slot",
		})
	}

	post, err := h.s.Reject(c.Context(), slot)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}
