package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"classifieds_message_service/pkg/database"
	"classifieds_message_service/pkg/logger"
)

// presignExpiry 附件下載連結有效期
const presignExpiry = 7 * 24 * time.Hour

// AttachmentHandler 處理訊息附件上傳，回傳可取回的 URL
type AttachmentHandler struct {
	Storage *database.MinIOClient
}

// NewAttachmentHandler 建立 AttachmentHandler
func NewAttachmentHandler(storage *database.MinIOClient) *AttachmentHandler {
	return &AttachmentHandler{Storage: storage}
}

// Upload 上傳附件
// @Summary 上傳訊息附件
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "attachment"
// @Success 200 {object} string "url"
// @Router /attachments [post]
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer file.Close()

	// object name 不用原始檔名，避免碰撞與路徑注入
	objectName := fmt.Sprintf("attachments/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	if err := h.Storage.UploadStream(c.Context(), objectName, file, fileHeader.Size, contentType); err != nil {
		logger.Log.Error("attachment upload Err", zap.String("user", userID), zap.String("object", objectName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed"})
	}

	url, err := h.Storage.PresignGetURL(c.Context(), objectName, presignExpiry)
	if err != nil {
		logger.Log.Error("attachment presign Err", zap.String("object", objectName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "presign failed"})
	}

	logger.Log.Info("attachment uploaded", zap.String("user", userID), zap.String("object", objectName))
	return c.JSON(fiber.Map{"url": url})
}
