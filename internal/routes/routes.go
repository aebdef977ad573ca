package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/handlers"
	"github.com/zrxcoding/Gaming/internal/middleware"
)

// Options controls which routes are mounted
type Options struct {
	// ValidateWebhook enables Twilio signature checks on the webhook
	ValidateWebhook bool
	TwilioAuthToken string
	// EnableTestRoutes mounts /test/whatsapp
	EnableTestRoutes bool
}

// SetupRoutes configures all routes
func SetupRoutes(app *fiber.App, whatsapp *handlers.WhatsAppHandler, health *handlers.HealthHandler, opts Options, logger *zap.Logger) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Gaming Utility Bot",
			"version": health.Version,
			"endpoints": fiber.Map{
				"health":  "/health",
				"webhook": "/webhook/whatsapp",
			},
		})
	})

	app.Get("/health", health.Check)

	webhooks := app.Group("/webhook")
	if opts.ValidateWebhook {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(opts.TwilioAuthToken, logger), whatsapp.HandleWebhook)
	} else {
		logger.Warn("WhatsApp webhook validation DISABLED")
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
	}

	if opts.EnableTestRoutes {
		app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)
	}
}
