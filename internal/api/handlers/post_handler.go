package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

const cronSecretHeader = "X-Cron-Secret"

type PostHandler struct {
	s          service.PostService
	sweep      service.SweepService
	cronSecret string
}

func NewPostHandler(service service.PostService, sweep service.SweepService, cronSecret string) *PostHandler {
	return &PostHandler{s: service, sweep: sweep, cronSecret: cronSecret}
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	id, err := h.s.Schedule(c.Context(), GetUserID(c), &req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"id":      id,
	})
}

func (h *PostHandler) History(c *fiber.Ctx) error {
	posts, err := h.s.History(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}
	return c.JSON(posts)
}

func (h *PostHandler) SuggestTime(c *fiber.Ctx) error {
	suggestion, err := h.s.SuggestTime(c.Context(), c.Query("platform"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to suggest a time",
		})
	}
	return c.JSON(suggestion)
}

// RunCron runs one publish sweep. Sweep-level failures are reported in the
// body with status 200; per-post failures are recorded on the posts.
func (h *PostHandler) RunCron(c *fiber.Ctx) error {
	if h.cronSecret != "" {
		got := c.Get(cronSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.cronSecret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
	}

	result, err := h.sweep.Run(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
