package handlers

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/pkg/utils"
)

const oauthStateTTL = 10 * time.Minute

type PlatformHandler struct {
	ps  service.PlatformService
	ig  service.InstagramService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, ig service.InstagramService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		ig:  ig,
		cfg: cfg,
	}
}

// InstagramStart links the caller to the shared business account.
func (h *PlatformHandler) InstagramStart(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.ig.ConnectSystemAccount(c.Context(), userID); err != nil {
		slog.Info(err.Error())
		return errorResponse(c, err)
	}

	return c.Redirect(fmt.Sprintf("%s/dashboard", h.cfg.FrontendURL), fiber.StatusTemporaryRedirect)
}

// AddSocialAccount redirects to the platform consent page. The state is a
// short-lived signed token naming the caller.
func (h *PlatformHandler) AddSocialAccount(c *fiber.Ctx) error {
	state, err := utils.GenerateToken(h.cfg.SecretKey, strconv.FormatInt(GetUserID(c), 10), "", oauthStateTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	authURL := h.ps.GetAuthURL(c.Context(), c.Params("platform"), state)
	if authURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported platform",
		})
	}
	return c.Redirect(authURL)
}

func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	if err := h.ig.InstagramCallback(c.Context(), code, userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	return c.Redirect(fmt.Sprintf("%s/dashboard", h.cfg.FrontendURL), fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) Unlink(c *fiber.Ctx) error {
	platform := c.Params("platform", models.PlatformInstagram)

	if err := h.ps.Unlink(c.Context(), GetUserID(c), platform); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *PlatformHandler) Status(c *fiber.Ctx) error {
	status, err := h.ps.Status(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch account status",
		})
	}
	return c.JSON(status)
}
