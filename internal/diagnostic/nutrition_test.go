package diagnostic

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleepcoach/backend/internal/classify"
)

var nutritionNow = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

// keywordClassifier tags notes by simple keyword lookup, standing in for
// the real adapter in validator tests.
type keywordClassifier struct {
	groups map[string][]classify.NutritionGroup
}

func (k keywordClassifier) Classify(_ context.Context, text string) classify.Classification {
	var matched []classify.NutritionGroup
	for keyword, groups := range k.groups {
		if strings.Contains(strings.ToLower(text), keyword) {
			matched = append(matched, groups...)
		}
	}
	if len(matched) == 0 {
		return classify.Unclassified(text)
	}
	return classify.Classification{
		Groups:       matched,
		AIClassified: true,
		Confidence:   0.9,
		RawText:      text,
	}
}

func (k keywordClassifier) ClassifyBatch(ctx context.Context, texts []string) []classify.Classification {
	results := make([]classify.Classification, len(texts))
	for i, text := range texts {
		results[i] = k.Classify(ctx, text)
	}
	return results
}

func feedingToday(hour, min int, kind FeedingKind, note string) Event {
	return Event{
		Type:        EventFeeding,
		StartTime:   time.Date(2026, 3, 15, hour, min, 0, 0, time.UTC),
		FeedingKind: kind,
		Note:        note,
	}
}

func feedingWithOunces(hour int, oz float64) Event {
	e := feedingToday(hour, 0, FeedingMilk, "")
	e.AmountOz = &oz
	return e
}

func testClassifier() keywordClassifier {
	return keywordClassifier{groups: map[string][]classify.NutritionGroup{
		"pollo":    {classify.GroupProtein},
		"verduras": {classify.GroupFiber},
		"palta":    {classify.GroupFat},
		"arroz":    {classify.GroupCarbohydrate},
	}}
}

func TestNutritionMilkCountOneShortWarns(t *testing.T) {
	// 7 months expects at least 4 milk feedings; 3 logged.
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 7,
		Events: []Event{
			feedingToday(7, 0, FeedingMilk, ""),
			feedingToday(11, 0, FeedingMilk, ""),
			feedingToday(15, 0, FeedingMilk, ""),
		},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	milk := criterionByID(t, validation.GroupValidation, "milk_feeding_count")
	assert.Equal(t, StatusWarning, milk.Status)
	assert.Equal(t, "3", milk.Value)

	// Zero solids against an expected 2 is more than one short.
	solids := criterionByID(t, validation.GroupValidation, "solid_feeding_count")
	assert.Equal(t, StatusAlert, solids.Status)
}

func TestNutritionSolidsNotExpectedBeforeSixMonths(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 4,
		Events: []Event{
			feedingToday(7, 0, FeedingMilk, ""),
		},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	solids := criterionByID(t, validation.GroupValidation, "solid_feeding_count")
	assert.Equal(t, StatusOK, solids.Status)
	assert.Equal(t, "not applicable", solids.Expected)
}

func TestNutritionMilkOunceCeiling(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 14,
		Events: []Event{
			feedingWithOunces(7, 8),
			feedingWithOunces(12, 6),
			feedingWithOunces(17, 5),
		},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	ounces := criterionByID(t, validation.GroupValidation, "milk_ounces")
	assert.Equal(t, StatusAlert, ounces.Status)
	assert.Equal(t, "19.0 oz", ounces.Value)
}

func TestNutritionMilkOunceCeilingNotAppliedToInfants(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 7,
		Events:    []Event{feedingWithOunces(7, 30)},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	ounces := criterionByID(t, validation.GroupValidation, "milk_ounces")
	assert.Equal(t, StatusOK, ounces.Status)
}

func TestNutritionFeedingGap(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 7,
		Events: []Event{
			feedingToday(7, 0, FeedingMilk, ""),
			feedingToday(13, 30, FeedingMilk, ""),
		},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	gap := criterionByID(t, validation.GroupValidation, "feeding_gap")
	assert.Equal(t, StatusAlert, gap.Status)
	assert.Equal(t, "6.5 h", gap.Value)
}

func TestNutritionCoverageBoundary(t *testing.T) {
	// 8 months requires protein and fiber plus one of fat/carbohydrate.
	classifier := testClassifier()

	// Both required groups but neither one-of member: exactly one gap.
	oneGap := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 8,
		Events: []Event{
			feedingToday(12, 0, FeedingSolid, "pollo desmenuzado"),
			feedingToday(17, 0, FeedingSolid, "puré de verduras"),
		},
	}
	validation := ValidateNutrition(context.Background(), oneGap, classifier, nutritionNow)
	coverage := criterionByID(t, validation.GroupValidation, "nutrition_group_coverage")
	assert.Equal(t, StatusWarning, coverage.Status)

	// Missing fiber as well: two gaps, alert.
	twoGaps := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 8,
		Events: []Event{
			feedingToday(12, 0, FeedingSolid, "pollo desmenuzado"),
		},
	}
	validation = ValidateNutrition(context.Background(), twoGaps, classifier, nutritionNow)
	coverage = criterionByID(t, validation.GroupValidation, "nutrition_group_coverage")
	assert.Equal(t, StatusAlert, coverage.Status)

	// Everything covered.
	full := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 8,
		Events: []Event{
			feedingToday(12, 0, FeedingSolid, "pollo con arroz"),
			feedingToday(17, 0, FeedingSolid, "verduras con palta"),
		},
	}
	validation = ValidateNutrition(context.Background(), full, classifier, nutritionNow)
	coverage = criterionByID(t, validation.GroupValidation, "nutrition_group_coverage")
	assert.Equal(t, StatusOK, coverage.Status)
	assert.ElementsMatch(t,
		[]classify.NutritionGroup{classify.GroupProtein, classify.GroupFiber, classify.GroupFat, classify.GroupCarbohydrate},
		validation.CoveredGroups)
}

func TestNutritionCoveragePendingWithoutClassifier(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 8,
		Events: []Event{
			feedingToday(12, 0, FeedingSolid, "pollo desmenuzado"),
		},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	coverage := criterionByID(t, validation.GroupValidation, "nutrition_group_coverage")
	assert.Equal(t, StatusWarning, coverage.Status)
	assert.False(t, coverage.DataAvailable)
}

func TestNutritionIgnoresOtherDays(t *testing.T) {
	yesterday := feedingToday(12, 0, FeedingMilk, "")
	yesterday.StartTime = yesterday.StartTime.AddDate(0, 0, -1)

	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 7,
		Events:    []Event{yesterday},
	}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	milk := criterionByID(t, validation.GroupValidation, "milk_feeding_count")
	assert.Equal(t, StatusWarning, milk.Status)
	assert.False(t, milk.DataAvailable)
}

func TestNutritionSurveyWeightPercentile(t *testing.T) {
	tests := []struct {
		percentile float64
		want       Status
	}{
		{50, StatusOK},
		{10, StatusOK},
		{9, StatusWarning},
		{98, StatusWarning},
		{2, StatusAlert},
	}

	for _, tt := range tests {
		input := ValidationInput{
			ChildID:   "c1",
			AgeMonths: 7,
			Survey:    map[string]any{"weight_percentile": tt.percentile},
		}
		validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)
		weight := criterionByID(t, validation.GroupValidation, "survey_weight_percentile")
		assert.Equal(t, tt.want, weight.Status, "percentile %.0f", tt.percentile)
	}
}

func TestNutritionSolidsStartedSurvey(t *testing.T) {
	lagging := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 8,
		Survey:    map[string]any{"solids_started": "no"},
	}
	validation := ValidateNutrition(context.Background(), lagging, classify.NoopClassifier{}, nutritionNow)
	started := criterionByID(t, validation.GroupValidation, "survey_solids_started")
	assert.Equal(t, StatusWarning, started.Status)

	young := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 4,
		Survey:    map[string]any{"solids_started": "no"},
	}
	validation = ValidateNutrition(context.Background(), young, classify.NoopClassifier{}, nutritionNow)
	started = criterionByID(t, validation.GroupValidation, "survey_solids_started")
	assert.Equal(t, StatusOK, started.Status)
}

func TestNutritionSurveyCriteriaOnlyWhenAnswered(t *testing.T) {
	input := ValidationInput{ChildID: "c1", AgeMonths: 7}

	validation := ValidateNutrition(context.Background(), input, classify.NoopClassifier{}, nutritionNow)

	for _, c := range validation.Criteria {
		require.NotContains(t, []string{"survey_feeding_type", "survey_solids_started", "survey_weight_percentile"}, c.ID)
	}
}
