package handlers

import (
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/internal/transfer"
)

type AssetHandler struct {
	as service.AssetService
	ai service.AIService
	us service.UserService
}

func NewAssetHandler(as service.AssetService, ai service.AIService, us service.UserService) *AssetHandler {
	return &AssetHandler{as: as, ai: ai, us: us}
}

func readUpload(fh *multipart.FileHeader) (service.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.UploadFile{}, err
	}
	return service.UploadFile{Name: fh.Filename, Data: data}, nil
}

func (h *AssetHandler) UploadImages(c *fiber.Ctx) error {
	user, err := h.us.GetUserInfo(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	files := make([]service.UploadFile, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		file, err := readUpload(fh)
		if err != nil {
			slog.Error(err.Error())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to read file",
			})
		}
		files = append(files, file)
	}

	items, err := h.as.UploadImages(c.Context(), user, files)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"count": len(items),
		"items": items,
	})
}

func (h *AssetHandler) UploadTemp(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file received",
		})
	}

	file, err := readUpload(fh)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}

	upload, err := h.as.UploadTemp(c.Context(), file)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(upload)
}

func (h *AssetHandler) SaveCaptions(c *fiber.Ctx) error {
	var req transfer.SaveCaptionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.us.GetUserInfo(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	saved, err := h.as.SaveCaptions(c.Context(), user, req.Captions)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"key":   saved.Key,
		"url":   saved.URL,
		"count": saved.Count,
	})
}

func (h *AssetHandler) GenerateCaptions(c *fiber.Ctx) error {
	var req transfer.CaptionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	captions, err := h.ai.GenerateCaptions(c.Context(), req.Key)
	if err != nil {
		if errorStatus(err) != fiber.StatusInternalServerError {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Caption generation failed",
			"detail": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true, "captions": captions})
}

func (h *AssetHandler) GenerateHashtags(c *fiber.Ctx) error {
	var req transfer.HashtagsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sets, err := h.ai.GenerateHashtags(c.Context(), req.Caption)
	if err != nil {
		if errorStatus(err) != fiber.StatusInternalServerError {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Hashtag generation failed",
			"detail": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true, "hashtags": sets})
}
