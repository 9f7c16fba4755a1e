package diagnostic

import (
	"fmt"
	"time"

	"github.com/sleepcoach/backend/internal/classify"
)

// Status is the three-level semaphore used uniformly for criteria,
// groups and the overall result.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusAlert   Status = "alert"
)

func (s Status) rank() int {
	switch s {
	case StatusAlert:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// WorstStatus returns the most severe of the given statuses; with no
// arguments it returns ok.
func WorstStatus(statuses ...Status) Status {
	worst := StatusOK
	for _, s := range statuses {
		if s.rank() > worst.rank() {
			worst = s
		}
	}
	return worst
}

type SourceType string

const (
	SourceSurvey     SourceType = "survey"
	SourceEvent      SourceType = "event"
	SourcePlan       SourceType = "plan"
	SourceChat       SourceType = "chat"
	SourceCalculated SourceType = "calculated"
)

type GroupID string

const (
	GroupSchedule    GroupID = "schedule"
	GroupMedical     GroupID = "medical"
	GroupNutrition   GroupID = "nutrition"
	GroupEnvironment GroupID = "environment"
)

// CriterionResult is one evaluated clinical check. DataAvailable is
// false when the underlying datum is missing, which is distinct from a
// failing check: such criteria are always at least a warning, never an
// assumed pass.
type CriterionResult struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Status        Status     `json:"status"`
	Value         string     `json:"value,omitempty"`
	Expected      string     `json:"expected,omitempty"`
	Message       string     `json:"message"`
	SourceType    SourceType `json:"source_type"`
	SourceField   string     `json:"source_field,omitempty"`
	DataAvailable bool       `json:"data_available"`
}

type DataCompleteness struct {
	Available int      `json:"available"`
	Total     int      `json:"total"`
	Pending   []string `json:"pending"`
}

type GroupValidation struct {
	Group        GroupID           `json:"group"`
	Name         string            `json:"name"`
	Status       Status            `json:"status"`
	Criteria     []CriterionResult `json:"criteria"`
	Completeness DataCompleteness  `json:"completeness"`
	Summary      string            `json:"summary"`
}

// ConditionReport separates "healthy" from "unmeasured" for one screened
// condition: zero detections with most indicators pending is not a
// clean bill.
type ConditionReport struct {
	Condition          string   `json:"condition"`
	Status             Status   `json:"status"`
	DetectedCount      int      `json:"detected_count"`
	PendingCount       int      `json:"pending_count"`
	TotalIndicators    int      `json:"total_indicators"`
	DetectedIndicators []string `json:"detected_indicators,omitempty"`
}

type MedicalValidation struct {
	GroupValidation
	Conditions []ConditionReport `json:"conditions"`
}

type NutritionValidation struct {
	GroupValidation
	CoveredGroups  []classify.NutritionGroup `json:"covered_groups"`
	RequiredGroups []classify.NutritionGroup `json:"required_groups"`
	OneOfGroups    []classify.NutritionGroup `json:"one_of_groups,omitempty"`
}

type KeywordMatch struct {
	Category     string     `json:"category"`
	CategoryName string     `json:"category_name"`
	Keyword      string     `json:"keyword"`
	Source       SourceType `json:"source"`
}

type EnvironmentValidation struct {
	GroupValidation
	DetectedKeywords []KeywordMatch `json:"detected_keywords"`
}

// Alert is a denormalized projection of one non-passing criterion, ready
// for UI lists and deep links back to the originating record.
type Alert struct {
	Group       GroupID    `json:"group"`
	CriterionID string     `json:"criterion_id"`
	Severity    Status     `json:"severity"`
	Message     string     `json:"message"`
	SourceType  SourceType `json:"source_type"`
	SourceField string     `json:"source_field,omitempty"`
}

// DiagnosticResult is the root aggregate returned by every evaluation.
// It is created fresh per request and never mutated afterwards.
type DiagnosticResult struct {
	ID            string                `json:"id"`
	ChildID       string                `json:"child_id"`
	AgeMonths     int                   `json:"age_months"`
	EvaluatedAt   time.Time             `json:"evaluated_at"`
	OverallStatus Status                `json:"overall_status"`
	Schedule      GroupValidation       `json:"schedule"`
	Medical       MedicalValidation     `json:"medical"`
	Nutrition     NutritionValidation   `json:"nutrition"`
	Environment   EnvironmentValidation `json:"environment"`
	Alerts        []Alert               `json:"alerts"`
}

func completenessOf(criteria []CriterionResult) DataCompleteness {
	completeness := DataCompleteness{
		Total:   len(criteria),
		Pending: []string{},
	}
	for _, c := range criteria {
		if c.DataAvailable {
			completeness.Available++
		} else {
			completeness.Pending = append(completeness.Pending, c.ID)
		}
	}
	return completeness
}

func worstOfCriteria(criteria []CriterionResult) Status {
	worst := StatusOK
	for _, c := range criteria {
		worst = WorstStatus(worst, c.Status)
	}
	return worst
}

func summarize(name string, criteria []CriterionResult) string {
	var alerts, warnings, pending int
	for _, c := range criteria {
		switch c.Status {
		case StatusAlert:
			alerts++
		case StatusWarning:
			warnings++
		}
		if !c.DataAvailable {
			pending++
		}
	}
	if alerts == 0 && warnings == 0 {
		return fmt.Sprintf("%s: all %d checks passed", name, len(criteria))
	}
	return fmt.Sprintf("%s: %d alerts, %d warnings out of %d checks (%d pending data)",
		name, alerts, warnings, len(criteria), pending)
}
