package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryConditionHasACatalog(t *testing.T) {
	for _, condition := range Conditions() {
		catalog := IndicatorsForCondition(condition)
		require.NotEmpty(t, catalog, "condition %s", condition)
		assert.Len(t, catalog, 5, "condition %s", condition)
	}
}

func TestCatalogsMixSurveyAndEventIndicators(t *testing.T) {
	for _, condition := range Conditions() {
		surveyCount, eventCount := 0, 0
		for _, indicator := range IndicatorsForCondition(condition) {
			switch indicator.Source {
			case IndicatorFromSurvey:
				surveyCount++
				assert.NotEmpty(t, indicator.SurveyField, "%s.%s", condition, indicator.ID)
			case IndicatorFromEvents:
				eventCount++
				assert.NotEmpty(t, indicator.Predicate, "%s.%s", condition, indicator.ID)
			default:
				t.Errorf("unknown source %q for %s.%s", indicator.Source, condition, indicator.ID)
			}
		}
		assert.Equal(t, 4, surveyCount, "condition %s", condition)
		assert.Equal(t, 1, eventCount, "condition %s", condition)
	}
}

func TestUnknownConditionHasNoCatalog(t *testing.T) {
	assert.Nil(t, IndicatorsForCondition(Condition("colic")))
}
