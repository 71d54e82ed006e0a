package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userInfo, err := h.s.GetUserInfo(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(userInfo)
}

func (h *UserHandler) SetOnboardingChoice(c *fiber.Ctx) error {
	var req transfer.OnboardingChoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.SetOnboardingChoice(c.Context(), GetUserID(c), req.Choice); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *UserHandler) GetOnboardingChoice(c *fiber.Ctx) error {
	user, err := h.s.GetUserInfo(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"choice":       user.OnboardingChoice,
		"onboardingAt": user.OnboardingAt,
	})
}

func (h *UserHandler) OnboardingStatus(c *fiber.Ctx) error {
	status, err := h.s.OnboardingStatus(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(status)
}
