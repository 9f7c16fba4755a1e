package handlers

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/diagnostic"
	"github.com/sleepcoach/backend/internal/metrics"
	"github.com/sleepcoach/backend/pkg/logger"
)

// WebSocketHandler serves progressive diagnostic evaluations: the client
// sends an evaluate request and receives one message per validation
// group as soon as the full run finishes, then a complete message with
// the whole report. Consultant dashboards render the four semaphores as
// they arrive.
type WebSocketHandler struct {
	engine *diagnostic.Engine
}

func NewWebSocketHandler(engine *diagnostic.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")
	metrics.WebsocketSessions.Inc()

	defer func() {
		c.Close()
		metrics.WebsocketSessions.Dec()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type  string                     `json:"type"`
			Input diagnostic.ValidationInput `json:"input"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "evaluate" {
			continue
		}

		if msg.Input.ChildID == "" {
			h.sendError(c, "child_id is required")
			continue
		}

		logger.Info("Processing WebSocket evaluation",
			zap.String("child_id", msg.Input.ChildID),
			zap.Int("age_months", msg.Input.AgeMonths),
		)

		err = h.streamEvaluation(c, msg.Input)
		if err != nil {
			logger.Error("Failed to stream evaluation", zap.Error(err))
			h.sendError(c, "Failed to run evaluation")
		}
	}
}

func (h *WebSocketHandler) streamEvaluation(c *websocket.Conn, input diagnostic.ValidationInput) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := h.sendStatus(c, "Evaluating diagnostic groups..."); err != nil {
		return err
	}

	result := h.engine.Evaluate(ctx, input)

	groups := []struct {
		group      diagnostic.GroupID
		validation diagnostic.GroupValidation
	}{
		{diagnostic.GroupSchedule, result.Schedule},
		{diagnostic.GroupMedical, result.Medical.GroupValidation},
		{diagnostic.GroupNutrition, result.Nutrition.GroupValidation},
		{diagnostic.GroupEnvironment, result.Environment.GroupValidation},
	}

	for _, entry := range groups {
		msg := map[string]interface{}{
			"type":    "group",
			"group":   entry.group,
			"status":  entry.validation.Status,
			"summary": entry.validation.Summary,
		}
		if err := c.WriteJSON(msg); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":           "complete",
		"result_id":      result.ID,
		"overall_status": result.OverallStatus,
		"alerts":         len(result.Alerts),
		"result":         result,
	})
}

func (h *WebSocketHandler) sendStatus(c *websocket.Conn, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    "status",
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	if err := c.WriteJSON(msg); err != nil {
		logger.Error("Failed to send WebSocket error", zap.Error(err))
	}
}
