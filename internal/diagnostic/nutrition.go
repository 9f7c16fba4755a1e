package diagnostic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sleepcoach/backend/internal/classify"
	"github.com/sleepcoach/backend/internal/rules"
)

// ValidateNutrition evaluates today's feeding log against the
// age-banded nutrition requirements, enriched where possible by the food
// classifier. The classifier is optional: unclassified notes degrade the
// coverage criterion to pending data and never block the count-based
// criteria.
func ValidateNutrition(ctx context.Context, input ValidationInput, classifier classify.Classifier, now time.Time) NutritionValidation {
	rule := rules.NutritionRuleForAge(input.AgeMonths)

	today := feedingsOn(input.Events, now)
	var milk, solids []Event
	for _, feeding := range today {
		switch feeding.FeedingKind {
		case FeedingSolid:
			solids = append(solids, feeding)
		default:
			milk = append(milk, feeding)
		}
	}

	if classifier == nil {
		classifier = classify.NoopClassifier{}
	}
	covered, classifiedCount := classifyFeedings(ctx, classifier, today)

	criteria := []CriterionResult{
		milkCountCriterion(milk, len(today), rule),
		solidCountCriterion(solids, len(today), rule, input.AgeMonths),
		milkOunceCriterion(milk, input.AgeMonths),
		feedingGapCriterion(today),
		coverageCriterion(covered, classifiedCount, rule),
	}
	criteria = append(criteria, nutritionSurveyCriteria(input)...)

	return NutritionValidation{
		GroupValidation: GroupValidation{
			Group:        GroupNutrition,
			Name:         "Nutrition",
			Status:       worstOfCriteria(criteria),
			Criteria:     criteria,
			Completeness: completenessOf(criteria),
			Summary:      summarize("Nutrition", criteria),
		},
		CoveredGroups:  covered,
		RequiredGroups: rule.RequiredGroups,
		OneOfGroups:    rule.OneOfGroups,
	}
}

func feedingsOn(events []Event, day time.Time) []Event {
	date := day.Format("2006-01-02")
	var out []Event
	for _, e := range events {
		if e.Type == EventFeeding && e.StartTime.Format("2006-01-02") == date {
			out = append(out, e)
		}
	}
	return out
}

// classifyFeedings runs every feeding note through the classifier in one
// batch and unions the resulting nutrition groups. Notes that fail to
// classify simply contribute nothing.
func classifyFeedings(ctx context.Context, classifier classify.Classifier, feedings []Event) ([]classify.NutritionGroup, int) {
	var notes []string
	for _, feeding := range feedings {
		if strings.TrimSpace(feeding.Note) != "" {
			notes = append(notes, feeding.Note)
		}
	}
	if len(notes) == 0 {
		return nil, 0
	}

	classifications := classifier.ClassifyBatch(ctx, notes)

	seen := map[classify.NutritionGroup]struct{}{}
	classified := 0
	for _, classification := range classifications {
		if !classification.AIClassified {
			continue
		}
		classified++
		for _, group := range classification.Groups {
			seen[group] = struct{}{}
		}
	}

	covered := make([]classify.NutritionGroup, 0, len(seen))
	for group := range seen {
		covered = append(covered, group)
	}
	sort.Slice(covered, func(i, j int) bool { return covered[i] < covered[j] })
	return covered, classified
}

// countStatus applies the shared count-tolerance policy: meeting the
// minimum passes, one short warns, more than one short alerts.
func countStatus(count, required int) Status {
	switch {
	case count >= required:
		return StatusOK
	case count == required-1:
		return StatusWarning
	default:
		return StatusAlert
	}
}

func milkCountCriterion(milk []Event, totalFeedings int, rule *rules.NutritionRule) CriterionResult {
	criterion := CriterionResult{
		ID:         "milk_feeding_count",
		Name:       "Milk feedings today",
		Expected:   fmt.Sprintf("at least %d", rule.MinMilkFeedings),
		SourceType: SourceEvent,
	}

	if totalFeedings == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No feedings logged today"
		return criterion
	}

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%d", len(milk))
	criterion.Status = countStatus(len(milk), rule.MinMilkFeedings)
	criterion.Message = fmt.Sprintf("%d milk feedings logged, %d expected", len(milk), rule.MinMilkFeedings)
	return criterion
}

func solidCountCriterion(solids []Event, totalFeedings int, rule *rules.NutritionRule, ageMonths int) CriterionResult {
	criterion := CriterionResult{
		ID:         "solid_feeding_count",
		Name:       "Solid feedings today",
		SourceType: SourceEvent,
	}

	if ageMonths < rules.SolidsStartMonths {
		criterion.Status = StatusOK
		criterion.DataAvailable = true
		criterion.Expected = "not applicable"
		criterion.Message = fmt.Sprintf("Solids are not expected before %d months", rules.SolidsStartMonths)
		return criterion
	}

	criterion.Expected = fmt.Sprintf("at least %d", rule.MinSolidFeedings)

	if totalFeedings == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No feedings logged today"
		return criterion
	}

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%d", len(solids))
	criterion.Status = countStatus(len(solids), rule.MinSolidFeedings)
	criterion.Message = fmt.Sprintf("%d solid feedings logged, %d expected", len(solids), rule.MinSolidFeedings)
	return criterion
}

func milkOunceCriterion(milk []Event, ageMonths int) CriterionResult {
	criterion := CriterionResult{
		ID:         "milk_ounces",
		Name:       "Total milk ounces today",
		SourceType: SourceEvent,
	}

	if ageMonths < rules.MilkOunceCeilingMonths {
		criterion.Status = StatusOK
		criterion.DataAvailable = true
		criterion.Expected = "not applicable"
		criterion.Message = fmt.Sprintf("The milk ceiling applies from %d months", rules.MilkOunceCeilingMonths)
		return criterion
	}

	criterion.Expected = fmt.Sprintf("up to %.0f oz", rules.MaxMilkOunces)

	total := 0.0
	measured := false
	for _, feeding := range milk {
		if feeding.AmountOz != nil {
			total += *feeding.AmountOz
			measured = true
		}
	}

	if !measured {
		criterion.Status = StatusWarning
		criterion.Message = "No milk amounts logged today"
		return criterion
	}

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%.1f oz", total)

	if total > rules.MaxMilkOunces {
		criterion.Status = StatusAlert
		criterion.Message = fmt.Sprintf("%.1f oz of milk exceeds the %.0f oz ceiling; milk may be displacing solids",
			total, rules.MaxMilkOunces)
		return criterion
	}

	criterion.Status = StatusOK
	criterion.Message = fmt.Sprintf("%.1f oz of milk today", total)
	return criterion
}

func feedingGapCriterion(today []Event) CriterionResult {
	criterion := CriterionResult{
		ID:         "feeding_gap",
		Name:       "Longest gap between feedings",
		Expected:   fmt.Sprintf("up to %.0f h", rules.MaxFeedingGapHours),
		SourceType: SourceEvent,
	}

	if len(today) < 2 {
		criterion.Status = StatusWarning
		criterion.Message = "Fewer than two feedings logged today; gap cannot be computed"
		return criterion
	}

	times := make([]time.Time, len(today))
	for i, feeding := range today {
		times[i] = feeding.StartTime
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	longest := 0.0
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]).Hours(); gap > longest {
			longest = gap
		}
	}

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%.1f h", longest)

	if longest > rules.MaxFeedingGapHours {
		criterion.Status = StatusAlert
		criterion.Message = fmt.Sprintf("Longest gap between feedings was %.1f h, above the %.0f h maximum",
			longest, rules.MaxFeedingGapHours)
		return criterion
	}

	criterion.Status = StatusOK
	criterion.Message = fmt.Sprintf("Longest gap between feedings was %.1f h", longest)
	return criterion
}

func coverageCriterion(covered []classify.NutritionGroup, classifiedCount int, rule *rules.NutritionRule) CriterionResult {
	criterion := CriterionResult{
		ID:         "nutrition_group_coverage",
		Name:       "Nutrition group coverage",
		Expected:   coverageExpectation(rule),
		SourceType: SourceCalculated,
	}

	if classifiedCount == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No classified feeding notes today; coverage cannot be assessed"
		return criterion
	}

	coveredSet := map[classify.NutritionGroup]struct{}{}
	for _, group := range covered {
		coveredSet[group] = struct{}{}
	}

	var missing []string
	for _, group := range rule.RequiredGroups {
		if _, ok := coveredSet[group]; !ok {
			missing = append(missing, string(group))
		}
	}

	oneOfSatisfied := len(rule.OneOfGroups) == 0
	for _, group := range rule.OneOfGroups {
		if _, ok := coveredSet[group]; ok {
			oneOfSatisfied = true
			break
		}
	}

	// A failed one-of clause counts as one more missing group.
	missingCount := len(missing)
	if !oneOfSatisfied {
		missingCount++
	}

	criterion.DataAvailable = true
	criterion.Value = groupList(covered)

	switch {
	case missingCount == 0:
		criterion.Status = StatusOK
		criterion.Message = "All required nutrition groups covered today"
	case missingCount == 1:
		criterion.Status = StatusWarning
		criterion.Message = coverageGapMessage(missing, oneOfSatisfied, rule)
	default:
		criterion.Status = StatusAlert
		criterion.Message = coverageGapMessage(missing, oneOfSatisfied, rule)
	}
	return criterion
}

func coverageExpectation(rule *rules.NutritionRule) string {
	expected := groupList(rule.RequiredGroups)
	if len(rule.OneOfGroups) > 0 {
		expected += fmt.Sprintf(" plus one of %s", groupList(rule.OneOfGroups))
	}
	return expected
}

func coverageGapMessage(missing []string, oneOfSatisfied bool, rule *rules.NutritionRule) string {
	parts := []string{}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %s", strings.Join(missing, ", ")))
	}
	if !oneOfSatisfied {
		parts = append(parts, fmt.Sprintf("none of %s covered", groupList(rule.OneOfGroups)))
	}
	return fmt.Sprintf("Nutrition coverage incomplete: %s", strings.Join(parts, "; "))
}

func groupList(groups []classify.NutritionGroup) string {
	if len(groups) == 0 {
		return "none"
	}
	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = string(group)
	}
	return strings.Join(names, ", ")
}

// nutritionSurveyCriteria covers the survey baseline: these criteria
// exist only when the corresponding survey answers do.
func nutritionSurveyCriteria(input ValidationInput) []CriterionResult {
	var criteria []CriterionResult

	if value, ok := input.surveyValue("feeding_type"); ok {
		criteria = append(criteria, CriterionResult{
			ID:            "survey_feeding_type",
			Name:          "Feeding type",
			Status:        StatusOK,
			Value:         fmt.Sprintf("%v", value),
			Message:       fmt.Sprintf("Feeding type on record: %v", value),
			SourceType:    SourceSurvey,
			SourceField:   "feeding_type",
			DataAvailable: true,
		})
	}

	if value, ok := input.surveyValue("solids_started"); ok {
		criterion := CriterionResult{
			ID:            "survey_solids_started",
			Name:          "Solids started per survey",
			Value:         fmt.Sprintf("%v", value),
			SourceType:    SourceSurvey,
			SourceField:   "solids_started",
			DataAvailable: true,
		}
		if input.AgeMonths >= rules.SolidsStartMonths && !IsAffirmative(value) {
			criterion.Status = StatusWarning
			criterion.Message = fmt.Sprintf("Solids not started by %d months per survey", input.AgeMonths)
		} else {
			criterion.Status = StatusOK
			criterion.Message = "Consistent with age"
		}
		criteria = append(criteria, criterion)
	}

	if percentile, ok := input.surveyNumber("weight_percentile"); ok {
		criterion := CriterionResult{
			ID:            "survey_weight_percentile",
			Name:          "Weight percentile",
			Value:         fmt.Sprintf("P%.0f", percentile),
			Expected:      "P3 to P97",
			SourceType:    SourceSurvey,
			SourceField:   "weight_percentile",
			DataAvailable: true,
		}
		switch {
		case percentile < 3:
			criterion.Status = StatusAlert
			criterion.Message = fmt.Sprintf("Weight at P%.0f, below the 3rd percentile", percentile)
		case percentile < 10 || percentile > 97:
			criterion.Status = StatusWarning
			criterion.Message = fmt.Sprintf("Weight at P%.0f, outside the typical range", percentile)
		default:
			criterion.Status = StatusOK
			criterion.Message = fmt.Sprintf("Weight at P%.0f", percentile)
		}
		criteria = append(criteria, criterion)
	}

	return criteria
}
