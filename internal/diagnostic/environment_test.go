package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodEnvironmentSurvey() map[string]any {
	return map[string]any{
		"screen_time_hours":     0.5,
		"room_temperature":      20.0,
		"room_humidity":         50.0,
		"room_darkness":         "sí",
		"co_sleeping":           "no",
		"postpartum_depression": "no",
		"notes":                 "todo tranquilo esta semana",
	}
}

func TestEnvironmentAllWithinRange(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 10,
		Survey:    goodEnvironmentSurvey(),
	}

	validation := ValidateEnvironment(input)

	assert.Equal(t, StatusOK, validation.Status)
	assert.Empty(t, validation.DetectedKeywords)
}

func TestEnvironmentNumericFactorOutOfRange(t *testing.T) {
	survey := goodEnvironmentSurvey()
	survey["room_temperature"] = 26.0

	input := ValidationInput{ChildID: "c1", AgeMonths: 10, Survey: survey}
	validation := ValidateEnvironment(input)

	temp := criterionByID(t, validation.GroupValidation, "room_temperature")
	assert.Equal(t, StatusAlert, temp.Status)
	assert.Equal(t, StatusAlert, validation.Status)
}

func TestEnvironmentBooleanFactorMismatch(t *testing.T) {
	survey := goodEnvironmentSurvey()
	survey["co_sleeping"] = "sí"

	input := ValidationInput{ChildID: "c1", AgeMonths: 10, Survey: survey}
	validation := ValidateEnvironment(input)

	coSleeping := criterionByID(t, validation.GroupValidation, "co_sleeping")
	assert.Equal(t, StatusAlert, coSleeping.Status)
}

func TestEnvironmentMissingAnswersArePending(t *testing.T) {
	input := ValidationInput{ChildID: "c1", AgeMonths: 10}

	validation := ValidateEnvironment(input)

	assert.Equal(t, StatusWarning, validation.Status)
	assert.Equal(t, 0, validation.Completeness.Available)
	for _, c := range validation.Criteria {
		assert.NotEqual(t, StatusAlert, c.Status, "criterion %s", c.ID)
	}
}

func TestEnvironmentDetectsSpanishChangeKeywords(t *testing.T) {
	survey := goodEnvironmentSurvey()
	survey["recent_changes"] = "Estamos en plena mudanza y duerme peor"

	input := ValidationInput{ChildID: "c1", AgeMonths: 10, Survey: survey}
	validation := ValidateEnvironment(input)

	changes := criterionByID(t, validation.GroupValidation, "recent_changes")
	assert.Equal(t, StatusAlert, changes.Status)

	require.NotEmpty(t, validation.DetectedKeywords)
	assert.Equal(t, "moving", validation.DetectedKeywords[0].Category)
	assert.Equal(t, SourceSurvey, validation.DetectedKeywords[0].Source)
}

func TestEnvironmentDetectsKeywordsInChatAndEvents(t *testing.T) {
	input := ValidationInput{
		ChildID:   "c1",
		AgeMonths: 10,
		Survey:    goodEnvironmentSurvey(),
		Events: []Event{
			{Type: EventNote, StartTime: nutritionNow, Note: "started daycare this week"},
		},
		ChatMessages: []string{"creo que le están saliendo los dientes"},
	}

	validation := ValidateEnvironment(input)

	categories := map[string]SourceType{}
	for _, match := range validation.DetectedKeywords {
		categories[match.Category] = match.Source
	}
	assert.Equal(t, SourceEvent, categories["caregiver_change"])
	assert.Equal(t, SourceChat, categories["teething"])
}

func TestEnvironmentMultiWordPhraseMatch(t *testing.T) {
	survey := goodEnvironmentSurvey()
	survey["notes"] = "volvimos del viaje con jet lag terrible"

	input := ValidationInput{ChildID: "c1", AgeMonths: 10, Survey: survey}
	validation := ValidateEnvironment(input)

	keywords := map[string]bool{}
	for _, match := range validation.DetectedKeywords {
		keywords[match.Keyword] = true
	}
	assert.True(t, keywords["viaje"])
	assert.True(t, keywords["jet lag"])
}

func TestEnvironmentNoFreeTextIsPendingScan(t *testing.T) {
	survey := goodEnvironmentSurvey()
	delete(survey, "notes")

	input := ValidationInput{ChildID: "c1", AgeMonths: 10, Survey: survey}
	validation := ValidateEnvironment(input)

	changes := criterionByID(t, validation.GroupValidation, "recent_changes")
	assert.Equal(t, StatusWarning, changes.Status)
	assert.False(t, changes.DataAvailable)
}
