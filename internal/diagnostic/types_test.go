package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorstStatus(t *testing.T) {
	assert.Equal(t, StatusOK, WorstStatus())
	assert.Equal(t, StatusOK, WorstStatus(StatusOK, StatusOK))
	assert.Equal(t, StatusWarning, WorstStatus(StatusOK, StatusWarning, StatusOK))
	assert.Equal(t, StatusAlert, WorstStatus(StatusWarning, StatusAlert))
	assert.Equal(t, StatusAlert, WorstStatus(StatusAlert, StatusOK))
}

func TestCompletenessOf(t *testing.T) {
	criteria := []CriterionResult{
		{ID: "a", DataAvailable: true},
		{ID: "b", DataAvailable: false},
		{ID: "c", DataAvailable: true},
	}

	completeness := completenessOf(criteria)
	assert.Equal(t, 2, completeness.Available)
	assert.Equal(t, 3, completeness.Total)
	assert.Equal(t, []string{"b"}, completeness.Pending)
}

func TestSummarize(t *testing.T) {
	allOK := []CriterionResult{
		{Status: StatusOK, DataAvailable: true},
		{Status: StatusOK, DataAvailable: true},
	}
	assert.Equal(t, "Sleep schedule: all 2 checks passed", summarize("Sleep schedule", allOK))

	mixed := []CriterionResult{
		{Status: StatusAlert, DataAvailable: true},
		{Status: StatusWarning, DataAvailable: false},
		{Status: StatusOK, DataAvailable: true},
	}
	assert.Equal(t,
		"Nutrition: 1 alerts, 1 warnings out of 3 checks (1 pending data)",
		summarize("Nutrition", mixed))
}
