package router

import (
	"classifieds_message_service/internal/message/app"
	"classifieds_message_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 註冊私訊相關的路由
// @title Classifieds Message Service API
// @version 1.0
// @description Direct messaging and presence API
// @BasePath /
func RegisterRoutes(r *fiber.App, messageHandler *app.MessageHandler, attachmentHandler *app.AttachmentHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 所有私訊操作都要先解析出身份
	r.Use(middlewares.JWTMiddleware())

	r.Post("/conversations", messageHandler.CreateConversation)
	r.Post("/conversations/:id/messages", messageHandler.SendMessage)
	r.Get("/conversations/:id/messages", messageHandler.ListMessages)
	r.Post("/conversations/:id/read", messageHandler.MarkRead)
	r.Get("/conversations/:id/sync", messageHandler.Sync)

	r.Post("/presence/heartbeat", messageHandler.Heartbeat)
	r.Get("/presence/:user_id", messageHandler.PresenceStatus)

	r.Post("/attachments", attachmentHandler.Upload)
}
