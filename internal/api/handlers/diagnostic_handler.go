package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/diagnostic"
	"github.com/sleepcoach/backend/internal/metrics"
	"github.com/sleepcoach/backend/internal/storage/models"
	"github.com/sleepcoach/backend/internal/storage/sqlite"
	"github.com/sleepcoach/backend/pkg/logger"
)

type DiagnosticHandler struct {
	engine *diagnostic.Engine
	store  *sqlite.Client
}

func NewDiagnosticHandler(engine *diagnostic.Engine, store *sqlite.Client) *DiagnosticHandler {
	return &DiagnosticHandler{
		engine: engine,
		store:  store,
	}
}

func (h *DiagnosticHandler) HandleEvaluate(c *fiber.Ctx) error {
	var input diagnostic.ValidationInput

	if err := c.BodyParser(&input); err != nil {
		logger.Error("Failed to parse evaluate request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.ChildID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "child_id is required",
		})
	}

	started := time.Now()
	result := h.engine.Evaluate(c.Context(), input)
	observeResult(result, time.Since(started))

	// History is best-effort: a storage hiccup must not cost the family
	// their report.
	if err := h.persistReport(result); err != nil {
		logger.Warn("Failed to persist diagnostic report",
			zap.String("report_id", result.ID),
			zap.Error(err),
		)
	}

	return c.JSON(result)
}

func (h *DiagnosticHandler) GetHistory(c *fiber.Ctx) error {
	childID := c.Query("child_id")
	if childID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "child_id is required",
		})
	}

	limit := c.QueryInt("limit", 20)

	summaries, err := h.store.ListReports(childID, limit)
	if err != nil {
		logger.Error("Failed to list reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load report history",
		})
	}

	return c.JSON(fiber.Map{
		"child_id": childID,
		"reports":  summaries,
	})
}

func (h *DiagnosticHandler) GetReport(c *fiber.Ctx) error {
	id := c.Params("id")

	report, err := h.store.GetReport(id)
	if err != nil {
		logger.Error("Failed to load report", zap.String("report_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load report",
		})
	}
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	var result diagnostic.DiagnosticResult
	if err := json.Unmarshal([]byte(report.ResultJSON), &result); err != nil {
		logger.Error("Corrupt stored report", zap.String("report_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Stored report is unreadable",
		})
	}

	return c.JSON(result)
}

func (h *DiagnosticHandler) HandleFeedback(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Helpful      bool   `json:"helpful"`
		ConsultantID string `json:"consultant_id"`
		Comment      string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := h.store.StoreFeedback(&models.Feedback{
		ReportID:     id,
		Helpful:      req.Helpful,
		ConsultantID: req.ConsultantID,
		Comment:      req.Comment,
	})
	if err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	return c.JSON(fiber.Map{"status": "stored"})
}

func (h *DiagnosticHandler) persistReport(result *diagnostic.DiagnosticResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	warnings, pending := 0, 0
	for _, group := range []diagnostic.GroupValidation{
		result.Schedule,
		result.Medical.GroupValidation,
		result.Nutrition.GroupValidation,
		result.Environment.GroupValidation,
	} {
		for _, criterion := range group.Criteria {
			if criterion.Status == diagnostic.StatusWarning {
				warnings++
			}
			if !criterion.DataAvailable {
				pending++
			}
		}
	}

	alertCount := 0
	alerts := make([]models.ReportAlert, 0, len(result.Alerts))
	for _, alert := range result.Alerts {
		if alert.Severity == diagnostic.StatusAlert {
			alertCount++
		}
		alerts = append(alerts, models.ReportAlert{
			ReportID:    result.ID,
			GroupID:     string(alert.Group),
			CriterionID: alert.CriterionID,
			Severity:    string(alert.Severity),
			Message:     alert.Message,
			SourceType:  string(alert.SourceType),
			SourceField: alert.SourceField,
		})
	}

	err = h.store.InsertReport(&models.Report{
		ID:            result.ID,
		ChildID:       result.ChildID,
		AgeMonths:     result.AgeMonths,
		OverallStatus: string(result.OverallStatus),
		AlertCount:    alertCount,
		WarningCount:  warnings,
		PendingCount:  pending,
		ResultJSON:    string(data),
		CreatedAt:     result.EvaluatedAt,
	}, alerts)
	if err != nil {
		return err
	}

	metrics.ReportsStored.Inc()
	return nil
}

func observeResult(result *diagnostic.DiagnosticResult, elapsed time.Duration) {
	metrics.EvaluationDuration.Observe(elapsed.Seconds())
	metrics.EvaluationsTotal.WithLabelValues(string(result.OverallStatus)).Inc()

	for _, alert := range result.Alerts {
		metrics.AlertsTotal.WithLabelValues(string(alert.Group), string(alert.Severity)).Inc()
	}

	metrics.GroupStatus.WithLabelValues(string(diagnostic.GroupSchedule), string(result.Schedule.Status)).Inc()
	metrics.GroupStatus.WithLabelValues(string(diagnostic.GroupMedical), string(result.Medical.Status)).Inc()
	metrics.GroupStatus.WithLabelValues(string(diagnostic.GroupNutrition), string(result.Nutrition.Status)).Inc()
	metrics.GroupStatus.WithLabelValues(string(diagnostic.GroupEnvironment), string(result.Environment.Status)).Inc()
}
