package diagnostic

import (
	"fmt"

	"github.com/sleepcoach/backend/internal/rules"
)

type eventPredicate func(events []Event) bool

var medicalPredicates = map[string]eventPredicate{
	rules.PredicateFrequentNightFeedings:    hasFrequentNightFeedings,
	rules.PredicateSecondHalfFragmentation:  hasSecondHalfFragmentation,
	rules.PredicateFrequentBriefNightWaking: hasFrequentBriefNightWakings,
}

// ValidateMedical screens the three medical condition catalogs. A single
// detected indicator raises an alert for its condition: the threshold is
// deliberately low for pediatric safety and must not be tuned down.
func ValidateMedical(input ValidationInput) MedicalValidation {
	var criteria []CriterionResult
	var reports []ConditionReport

	groupStatus := StatusOK

	for _, condition := range rules.Conditions() {
		catalog := rules.IndicatorsForCondition(condition)
		report := ConditionReport{
			Condition:       string(condition),
			TotalIndicators: len(catalog),
		}

		for _, indicator := range catalog {
			criterion := evaluateIndicator(input, condition, indicator)
			criteria = append(criteria, criterion)

			if !criterion.DataAvailable {
				report.PendingCount++
				continue
			}
			if criterion.Status == StatusAlert {
				report.DetectedCount++
				report.DetectedIndicators = append(report.DetectedIndicators, indicator.ID)
			}
		}

		switch {
		case report.DetectedCount >= 1:
			report.Status = StatusAlert
		case report.PendingCount*2 > report.TotalIndicators:
			report.Status = StatusWarning
		default:
			report.Status = StatusOK
		}

		groupStatus = WorstStatus(groupStatus, report.Status)
		reports = append(reports, report)
	}

	return MedicalValidation{
		GroupValidation: GroupValidation{
			Group:        GroupMedical,
			Name:         "Medical indicators",
			Status:       groupStatus,
			Criteria:     criteria,
			Completeness: completenessOf(criteria),
			Summary:      summarizeConditions(reports),
		},
		Conditions: reports,
	}
}

func evaluateIndicator(input ValidationInput, condition rules.Condition, indicator rules.MedicalIndicator) CriterionResult {
	criterion := CriterionResult{
		ID:       fmt.Sprintf("%s.%s", condition, indicator.ID),
		Name:     indicator.Name,
		Expected: "not present",
	}

	switch indicator.Source {
	case rules.IndicatorFromSurvey:
		criterion.SourceType = SourceSurvey
		criterion.SourceField = indicator.SurveyField

		value, ok := input.surveyValue(indicator.SurveyField)
		if !ok {
			criterion.Status = StatusWarning
			criterion.Message = "Survey question not answered yet"
			return criterion
		}

		criterion.DataAvailable = true
		criterion.Value = fmt.Sprintf("%v", value)
		if IsAffirmative(value) {
			criterion.Status = StatusAlert
			criterion.Message = fmt.Sprintf("%s reported in the intake survey", indicator.Name)
		} else {
			criterion.Status = StatusOK
			criterion.Message = "Not reported"
		}
		return criterion

	case rules.IndicatorFromEvents:
		criterion.SourceType = SourceEvent

		if len(input.Events) == 0 {
			criterion.Status = StatusWarning
			criterion.Message = "No event data to evaluate this indicator"
			return criterion
		}

		predicate, ok := medicalPredicates[indicator.Predicate]
		if !ok {
			// Catalog names a predicate this build does not know; treat
			// as not applicable rather than crash.
			criterion.Status = StatusOK
			criterion.DataAvailable = true
			criterion.Message = fmt.Sprintf("Indicator %s is not applicable", indicator.ID)
			return criterion
		}

		criterion.DataAvailable = true
		if predicate(input.Events) {
			criterion.Status = StatusAlert
			criterion.Value = "detected"
			criterion.Message = fmt.Sprintf("%s detected in the event log", indicator.Name)
		} else {
			criterion.Status = StatusOK
			criterion.Value = "not detected"
			criterion.Message = "Not detected"
		}
		return criterion

	default:
		criterion.Status = StatusWarning
		criterion.Message = fmt.Sprintf("Unknown indicator source %q", indicator.Source)
		return criterion
	}
}

func summarizeConditions(reports []ConditionReport) string {
	alerts := 0
	pending := 0
	for _, r := range reports {
		if r.Status == StatusAlert {
			alerts++
		}
		pending += r.PendingCount
	}
	if alerts == 0 {
		return fmt.Sprintf("Medical indicators: no conditions flagged (%d indicators pending data)", pending)
	}
	return fmt.Sprintf("Medical indicators: %d of %d conditions flagged (%d indicators pending data)",
		alerts, len(reports), pending)
}
