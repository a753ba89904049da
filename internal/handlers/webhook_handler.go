package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nutrisight/nutrisight-go/internal/dto"
	"github.com/nutrisight/nutrisight-go/internal/services"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	authToken           string
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, authToken string) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		authToken:           authToken,
	}
}

// HandleRevenueCat processes subscription lifecycle events. The Authorization
// header must match the token configured in the RevenueCat dashboard.
func (h *WebhookHandler) HandleRevenueCat(c *fiber.Ctx) error {
	if h.authToken == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.authToken)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var webhook dto.RevenueCatWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if err := h.subscriptionService.HandleWebhookEvent(&webhook.Event); err != nil {
		slog.Error("webhook processing failed", "event_type", webhook.Event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_type", webhook.Event.Type)
	return c.JSON(fiber.Map{"received": true})
}
