package app

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/pkg/logger"
	"classifieds_message_service/pkg/middlewares"
)

// MessageHandler 處理私訊相關的 HTTP 請求
type MessageHandler struct {
	ConversationUC *ConversationUseCase
	MessageUC      *MessageUseCase
	PresenceUC     *PresenceUseCase
	SyncUC         *SyncUseCase
}

// NewMessageHandler 建立 MessageHandler
func NewMessageHandler(
	conversationUC *ConversationUseCase,
	messageUC *MessageUseCase,
	presenceUC *PresenceUseCase,
	syncUC *SyncUseCase,
) *MessageHandler {
	return &MessageHandler{
		ConversationUC: conversationUC,
		MessageUC:      messageUC,
		PresenceUC:     presenceUC,
		SyncUC:         syncUC,
	}
}

// statusFromErr 把 domain 錯誤對應到 HTTP status
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOperation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func requesterID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	return userID, ok && userID != ""
}

// CreateConversation 取得/建立與對方的對話
// @Summary 取得或建立 1對1 對話
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body object true "peer_id"
// @Success 200 {object} string "conversation_id"
// @Router /conversations [post]
func (h *MessageHandler) CreateConversation(c *fiber.Ctx) error {
	type request struct {
		PeerID string `json:"peer_id"`
	}

	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("CreateConversation", zap.String("user", userID), zap.String("peer", req.PeerID))

	conversationID, err := h.ConversationUC.FindOrCreate(c.Context(), userID, req.PeerID)
	if err != nil {
		logger.Log.Error("CreateConversation Err", zap.String("user", userID), zap.String("peer", req.PeerID), zap.Error(err))
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"conversation_id": conversationID})
}

// SendMessage 發送訊息
// @Summary 發送訊息到對話
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "conversation id"
// @Param request body object true "message_id, content, image_url"
// @Success 200 {object} string "message"
// @Router /conversations/{id}/messages [post]
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	type request struct {
		MessageID string `json:"message_id"`
		Content   string `json:"content"`
		ImageURL  string `json:"image_url"`
	}

	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	msg, err := h.MessageUC.Append(c.Context(), c.Params("id"), userID, req.MessageID, req.Content, req.ImageURL)
	if err != nil {
		logger.Log.Error("SendMessage Err", zap.String("user", userID), zap.String("conversation", c.Params("id")), zap.Error(err))
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": msg})
}

// ListMessages 增量拉取訊息
// @Summary 拉取 cursor 之後的訊息
// @Tags Messages
// @Produce json
// @Param id path string true "conversation id"
// @Param after_ms query int false "cursor timestamp (unix ms)"
// @Param after_id query string false "cursor message id"
// @Success 200 {object} string "messages"
// @Router /conversations/{id}/messages [get]
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	cursor := parseCursor(c)
	messages, err := h.MessageUC.ListSince(c.Context(), c.Params("id"), userID, cursor)
	if err != nil {
		logger.Log.Error("ListMessages Err", zap.String("user", userID), zap.String("conversation", c.Params("id")), zap.Error(err))
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// MarkRead 將對話標記為已讀
// @Summary 已讀整個對話
// @Tags Messages
// @Produce json
// @Param id path string true "conversation id"
// @Success 200 {object} string "flipped"
// @Router /conversations/{id}/read [post]
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	flipped, err := h.MessageUC.MarkRead(c.Context(), c.Params("id"), userID)
	if err != nil {
		logger.Log.Error("MarkRead Err", zap.String("user", userID), zap.String("conversation", c.Params("id")), zap.Error(err))
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"flipped": flipped})
}

// Sync 輪詢入口，帶 cursor 拿增量，不帶 cursor 拿初次載入
// @Summary 輪詢對話（訊息 + 對方 presence）
// @Tags Sync
// @Produce json
// @Param id path string true "conversation id"
// @Param after_ms query int false "cursor timestamp (unix ms)"
// @Param after_id query string false "cursor message id"
// @Success 200 {object} string "view"
// @Router /conversations/{id}/sync [get]
func (h *MessageHandler) Sync(c *fiber.Ctx) error {
	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	cursor := parseCursor(c)
	if cursor == nil {
		view, err := h.SyncUC.FetchConversationView(c.Context(), c.Params("id"), userID)
		if err != nil {
			logger.Log.Error("Sync Err", zap.String("user", userID), zap.String("conversation", c.Params("id")), zap.Error(err))
			return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
		}
		if view.Messages == nil {
			view.Messages = []domain.Message{}
		}
		return c.JSON(view)
	}

	delta, err := h.SyncUC.FetchDelta(c.Context(), c.Params("id"), userID, cursor)
	if err != nil {
		logger.Log.Error("Sync Err", zap.String("user", userID), zap.String("conversation", c.Params("id")), zap.Error(err))
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if delta.NewMessages == nil {
		delta.NewMessages = []domain.Message{}
	}
	return c.JSON(delta)
}

// Heartbeat 保持在線
// @Summary 刷新自己的 heartbeat
// @Tags Presence
// @Produce json
// @Success 200 {object} string "ok"
// @Router /presence/heartbeat [post]
func (h *MessageHandler) Heartbeat(c *fiber.Ctx) error {
	userID, ok := requesterID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	if err := h.PresenceUC.Heartbeat(c.Context(), userID); err != nil {
		logger.Log.Error("Heartbeat Err", zap.String("user", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "ok"})
}

// PresenceStatus 查詢指定 user 的 presence
// @Summary 查詢 user online/last seen
// @Tags Presence
// @Produce json
// @Param user_id path string true "user id"
// @Success 200 {object} string "presence"
// @Router /presence/{user_id} [get]
func (h *MessageHandler) PresenceStatus(c *fiber.Ctx) error {
	if _, ok := requesterID(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	status, err := h.PresenceUC.StatusOf(c.Context(), c.Params("user_id"))
	if err != nil {
		logger.Log.Error("PresenceStatus Err", zap.String("user", c.Params("user_id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(status)
}

// parseCursor 從 query 解析 (after_ms, after_id)，沒帶 after_ms 視為初次載入
func parseCursor(c *fiber.Ctx) *domain.MessageCursor {
	afterMS := c.QueryInt("after_ms", -1)
	if afterMS < 0 {
		return nil
	}
	return &domain.MessageCursor{
		After:   time.UnixMilli(int64(afterMS)).UTC(),
		AfterID: c.Query("after_id"),
	}
}
