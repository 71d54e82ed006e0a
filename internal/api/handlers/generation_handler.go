package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

type GenerationHandler struct {
	s service.GenerationService
}

func NewGenerationHandler(s service.GenerationService) *GenerationHandler {
	return &GenerationHandler{s: s}
}

func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	var req transfer.GenerateRequest
	_ = c.BodyParser(&req)

	result, err := h.s.Generate(c.Context(), GetUserID(c), req.Intent)
	if err != nil {
		var expandErr *service.ExpandError
		if errors.As(err, &expandErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":  "expand_failed",
				"detail": expandErr.Detail,
			})
		}
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"profile":   result.Profile,
		"expanded":  result.Expanded,
		"per_image": result.PerImage,
		"outputUrl": result.OutputURL,
		"key":       result.Key,
	})
}

func (h *GenerationHandler) QueueProfile(c *fiber.Ctx) error {
	var req transfer.BrandProfileQueueRequest
	_ = c.BodyParser(&req)

	jobID, err := h.s.QueueProfile(c.Context(), GetUserID(c), &req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"ok":     true,
		"jobId":  jobID,
		"status": "queued",
	})
}
