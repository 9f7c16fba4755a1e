package models

import "time"

type Report struct {
	ID            string
	ChildID       string
	AgeMonths     int
	OverallStatus string
	AlertCount    int
	WarningCount  int
	PendingCount  int
	ResultJSON    string
	CreatedAt     time.Time
}

type ReportSummary struct {
	ID            string
	ChildID       string
	AgeMonths     int
	OverallStatus string
	AlertCount    int
	WarningCount  int
	CreatedAt     time.Time
}

type ReportAlert struct {
	ID          int
	ReportID    string
	GroupID     string
	CriterionID string
	Severity    string
	Message     string
	SourceType  string
	SourceField string
}

type Feedback struct {
	ID           int
	ReportID     string
	Helpful      bool
	ConsultantID string
	Comment      string
	CreatedAt    time.Time
}
