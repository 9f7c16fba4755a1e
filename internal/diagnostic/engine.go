package diagnostic

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/classify"
)

// Engine runs the four group validators and assembles the final report.
// It never fetches data itself: callers hand it a fully materialized
// ValidationInput, which keeps every evaluation testable without storage
// or network fixtures.
type Engine struct {
	classifier classify.Classifier
	logger     *zap.Logger
}

func NewEngine(classifier classify.Classifier, logger *zap.Logger) *Engine {
	if classifier == nil {
		classifier = classify.NoopClassifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		classifier: classifier,
		logger:     logger,
	}
}

// Evaluate always returns a complete DiagnosticResult for shape-valid
// input: missing upstream data degrades individual criteria, never the
// evaluation. The validators share no state, so they run concurrently.
func (e *Engine) Evaluate(ctx context.Context, input ValidationInput) *DiagnosticResult {
	started := time.Now()
	now := started

	var (
		schedule    GroupValidation
		medical     MedicalValidation
		nutrition   NutritionValidation
		environment EnvironmentValidation
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		schedule = ValidateSchedule(input, now)
	}()
	go func() {
		defer wg.Done()
		medical = ValidateMedical(input)
	}()
	go func() {
		defer wg.Done()
		nutrition = ValidateNutrition(ctx, input, e.classifier, now)
	}()
	go func() {
		defer wg.Done()
		environment = ValidateEnvironment(input)
	}()
	wg.Wait()

	result := &DiagnosticResult{
		ID:          uuid.New().String(),
		ChildID:     input.ChildID,
		AgeMonths:   input.AgeMonths,
		EvaluatedAt: now,
		OverallStatus: WorstStatus(
			schedule.Status,
			medical.Status,
			nutrition.Status,
			environment.Status,
		),
		Schedule:    schedule,
		Medical:     medical,
		Nutrition:   nutrition,
		Environment: environment,
	}
	result.Alerts = collectAlerts(result)

	e.logger.Info("Diagnostic evaluation completed",
		zap.String("result_id", result.ID),
		zap.String("child_id", input.ChildID),
		zap.Int("age_months", input.AgeMonths),
		zap.String("overall_status", string(result.OverallStatus)),
		zap.Int("alerts", len(result.Alerts)),
		zap.Duration("duration", time.Since(started)),
	)

	return result
}

var groupOrder = map[GroupID]int{
	GroupSchedule:    0,
	GroupMedical:     1,
	GroupNutrition:   2,
	GroupEnvironment: 3,
}

// collectAlerts flattens every non-passing criterion into the flat alert
// list, most severe first, with a stable order inside each severity.
func collectAlerts(result *DiagnosticResult) []Alert {
	alerts := []Alert{}

	appendGroup := func(group GroupValidation) {
		for _, criterion := range group.Criteria {
			if criterion.Status == StatusOK {
				continue
			}
			alerts = append(alerts, Alert{
				Group:       group.Group,
				CriterionID: criterion.ID,
				Severity:    criterion.Status,
				Message:     criterion.Message,
				SourceType:  criterion.SourceType,
				SourceField: criterion.SourceField,
			})
		}
	}

	appendGroup(result.Schedule)
	appendGroup(result.Medical.GroupValidation)
	appendGroup(result.Nutrition.GroupValidation)
	appendGroup(result.Environment.GroupValidation)

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity.rank() != alerts[j].Severity.rank() {
			return alerts[i].Severity.rank() > alerts[j].Severity.rank()
		}
		if groupOrder[alerts[i].Group] != groupOrder[alerts[j].Group] {
			return groupOrder[alerts[i].Group] < groupOrder[alerts[j].Group]
		}
		return alerts[i].CriterionID < alerts[j].CriterionID
	})

	return alerts
}
