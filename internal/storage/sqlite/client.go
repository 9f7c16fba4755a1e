package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/storage/models"
	"github.com/sleepcoach/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping() error {
	return c.db.Ping()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		age_months INTEGER NOT NULL,
		overall_status TEXT NOT NULL,
		alert_count INTEGER NOT NULL DEFAULT 0,
		warning_count INTEGER NOT NULL DEFAULT 0,
		pending_count INTEGER NOT NULL DEFAULT 0,
		result_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_child ON reports(child_id);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(overall_status);

	CREATE TABLE IF NOT EXISTS report_alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		criterion_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT,
		source_type TEXT,
		source_field TEXT,
		FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_report ON report_alerts(report_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_severity ON report_alerts(severity);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL,
		helpful INTEGER NOT NULL,
		consultant_id TEXT,
		comment TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_report ON feedback(report_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertReport(report *models.Report, alerts []models.ReportAlert) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO reports (id, child_id, age_months, overall_status, alert_count,
			warning_count, pending_count, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.ChildID,
		report.AgeMonths,
		report.OverallStatus,
		report.AlertCount,
		report.WarningCount,
		report.PendingCount,
		report.ResultJSON,
		report.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for _, alert := range alerts {
		_, err = tx.Exec(
			`INSERT INTO report_alerts (report_id, group_id, criterion_id, severity, message, source_type, source_field)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			report.ID,
			alert.GroupID,
			alert.CriterionID,
			alert.Severity,
			alert.Message,
			alert.SourceType,
			alert.SourceField,
		)
		if err != nil {
			return fmt.Errorf("failed to insert report alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}

	logger.Debug("Report stored",
		zap.String("report_id", report.ID),
		zap.String("child_id", report.ChildID),
		zap.Int("alerts", len(alerts)),
	)
	return nil
}

func (c *Client) GetReport(id string) (*models.Report, error) {
	var report models.Report
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT id, child_id, age_months, overall_status, alert_count, warning_count,
			pending_count, result_json, created_at
		FROM reports WHERE id = ?`,
		id,
	).Scan(
		&report.ID,
		&report.ChildID,
		&report.AgeMonths,
		&report.OverallStatus,
		&report.AlertCount,
		&report.WarningCount,
		&report.PendingCount,
		&report.ResultJSON,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	report.CreatedAt = time.Unix(createdAt, 0)
	return &report, nil
}

func (c *Client) ListReports(childID string, limit int) ([]models.ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.Query(
		`SELECT id, child_id, age_months, overall_status, alert_count, warning_count, created_at
		FROM reports
		WHERE child_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		childID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []models.ReportSummary
	for rows.Next() {
		var s models.ReportSummary
		var createdAt int64

		err := rows.Scan(&s.ID, &s.ChildID, &s.AgeMonths, &s.OverallStatus,
			&s.AlertCount, &s.WarningCount, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		s.CreatedAt = time.Unix(createdAt, 0)
		summaries = append(summaries, s)
	}

	return summaries, nil
}

func (c *Client) StoreFeedback(feedback *models.Feedback) error {
	helpful := 0
	if feedback.Helpful {
		helpful = 1
	}

	_, err := c.db.Exec(
		`INSERT INTO feedback (report_id, helpful, consultant_id, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		feedback.ReportID,
		helpful,
		feedback.ConsultantID,
		feedback.Comment,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}

	logger.Info("Feedback stored",
		zap.String("report_id", feedback.ReportID),
		zap.Bool("helpful", feedback.Helpful),
	)
	return nil
}
