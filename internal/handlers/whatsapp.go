package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/models"
	"github.com/zrxcoding/Gaming/internal/services"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	conversation *services.Conversation
	sender       services.MessageSender
	logger       *zap.Logger
}

// NewWhatsAppHandler creates a new WhatsApp handler. sender may be nil, in
// which case replies are only logged.
func NewWhatsAppHandler(conversation *services.Conversation, sender services.MessageSender, logger *zap.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		conversation: conversation,
		sender:       sender,
		logger:       logger.Named("WhatsAppHandler"),
	}
}

// TwilioWebhookPayload represents incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid    string `form:"MessageSid"`
	AccountSid    string `form:"AccountSid"`
	From          string `form:"From"` // WhatsApp number (whatsapp:+919876543210)
	To            string `form:"To"`
	Body          string `form:"Body"`
	ButtonPayload string `form:"ButtonPayload"` // set when a quick-reply button was tapped
	ButtonText    string `form:"ButtonText"`
}

// DecodeEvent turns a raw inbound message into a typed event. Button
// payloads win over the message body; "/start" style bodies are commands.
func DecodeEvent(userID, body, buttonPayload string) models.Event {
	if buttonPayload != "" {
		return models.ButtonEvent(userID, models.ParseAction(strings.TrimSpace(buttonPayload)))
	}

	text := strings.TrimSpace(body)
	if strings.HasPrefix(text, "/") {
		name := strings.ToLower(strings.Fields(text)[0][1:])
		return models.CommandEvent(userID, models.Command(name))
	}
	return models.TextEvent(userID, body)
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.logger.Warn("Error parsing webhook", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Status callbacks carry no body or button
	if payload.From == "" || (payload.Body == "" && payload.ButtonPayload == "") {
		return c.SendStatus(fiber.StatusOK)
	}

	from := strings.TrimPrefix(payload.From, "whatsapp:")
	h.logger.Info("WhatsApp message received", zap.String("from", from), zap.String("button", payload.ButtonPayload))

	reply, err := h.conversation.Handle(c.UserContext(), DecodeEvent(from, payload.Body, payload.ButtonPayload))
	if err != nil {
		h.logger.Error("Error processing message", zap.String("from", from), zap.Error(err))
		reply = models.Reply{Text: "❌ Sorry, something went wrong. Please try again."}
	}

	text := services.RenderText(reply)
	if h.sender == nil {
		h.logger.Info("Response not sent, Twilio not configured", zap.String("to", from), zap.String("response", text))
		return c.SendStatus(fiber.StatusOK)
	}
	if err := h.sender.SendWhatsAppMessage(from, text); err != nil {
		h.logger.Error("Failed to send WhatsApp response", zap.String("to", from), zap.Error(err))
	}

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload drives the conversation without Twilio
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
	Button  string `json:"button"`
}

// TestWebhookButton is a menu entry in the test webhook response
type TestWebhookButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// HandleTestWebhook processes test messages and returns the reply as JSON
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil || payload.From == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	reply, err := h.conversation.Handle(c.UserContext(), DecodeEvent(payload.From, payload.Message, payload.Button))
	if err != nil {
		h.logger.Error("Error processing test message", zap.String("from", payload.From), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	buttons := make([]TestWebhookButton, 0)
	for _, row := range reply.Buttons {
		for _, b := range row {
			buttons = append(buttons, TestWebhookButton{Label: b.Label, Action: b.Action.Token()})
		}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"text":     reply.Text,
		"buttons":  buttons,
		"response": services.RenderText(reply),
	})
}
