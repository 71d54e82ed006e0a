package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

type AdminHandler struct {
	us service.UserService
	ss service.StatsService
}

func NewAdminHandler(us service.UserService, ss service.StatsService) *AdminHandler {
	return &AdminHandler{us: us, ss: ss}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.ss.AdminStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.us.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}
	return c.JSON(users)
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req transfer.AdminUserCreate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.us.CreateUser(c.Context(), &req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req transfer.AdminUserUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.us.UpdateUser(c.Context(), &req); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	var req transfer.IDRequest
	if err := c.BodyParser(&req); err != nil || req.ID == 0 {
		req.ID = int64(c.QueryInt("id", 0))
	}

	if err := h.us.RemoveUser(c.Context(), req.ID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
