package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxAgeMonths = 216 // 18 years; older children are out of scope

type Config struct {
	MaxEvents       int
	MaxChatMessages int
	MaxSurveyFields int
	Logger          *zap.Logger
}

// Middleware shape-checks evaluate payloads before they reach the
// engine. The engine itself never rejects data; this is the one place a
// request can be refused.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxEvents == 0 {
		cfg.MaxEvents = 5000
	}
	if cfg.MaxChatMessages == 0 {
		cfg.MaxChatMessages = 500
	}
	if cfg.MaxSurveyFields == 0 {
		cfg.MaxSurveyFields = 300
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost || !strings.Contains(c.Path(), "/diagnostics/evaluate") {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": "Unsupported content type",
			})
		}

		var req struct {
			ChildID      string         `json:"child_id"`
			AgeMonths    *int           `json:"age_months"`
			Survey       map[string]any `json:"survey"`
			Events       []any          `json:"events"`
			ChatMessages []string       `json:"chat_messages"`
		}

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON format",
			})
		}

		if strings.TrimSpace(req.ChildID) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "child_id is required",
			})
		}

		if req.AgeMonths == nil || *req.AgeMonths < 0 || *req.AgeMonths > maxAgeMonths {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "age_months must be between 0 and 216",
			})
		}

		if len(req.Events) > cfg.MaxEvents {
			cfg.Logger.Warn("Evaluate payload rejected: too many events",
				zap.String("child_id", req.ChildID),
				zap.Int("events", len(req.Events)),
			)
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "Too many events in payload",
			})
		}

		if len(req.ChatMessages) > cfg.MaxChatMessages {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "Too many chat messages in payload",
			})
		}

		if len(req.Survey) > cfg.MaxSurveyFields {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "Too many survey fields in payload",
			})
		}

		return c.Next()
	}
}
