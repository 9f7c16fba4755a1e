package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnclassifiedSentinel(t *testing.T) {
	result := Unclassified("puré de zapallo")

	assert.False(t, result.AIClassified)
	assert.NotNil(t, result.Groups)
	assert.Empty(t, result.Groups)
	assert.Equal(t, "puré de zapallo", result.RawText)
}

func TestNoopClassifierBatchPreservesOrder(t *testing.T) {
	texts := []string{"pollo", "arroz", "palta"}

	results := NoopClassifier{}.ClassifyBatch(context.Background(), texts)

	require.Len(t, results, len(texts))
	for i, result := range results {
		assert.False(t, result.AIClassified)
		assert.Equal(t, texts[i], result.RawText)
	}
}

func TestParseClassification(t *testing.T) {
	result, err := parseClassification(`{"groups": ["protein", "fiber"], "confidence": 0.85}`)
	require.NoError(t, err)
	assert.True(t, result.AIClassified)
	assert.Equal(t, []NutritionGroup{GroupProtein, GroupFiber}, result.Groups)
	assert.Equal(t, 0.85, result.Confidence)
}

func TestParseClassificationStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"groups\": [\"carbohydrate\"], \"confidence\": 0.7}\n```"

	result, err := parseClassification(reply)
	require.NoError(t, err)
	assert.Equal(t, []NutritionGroup{GroupCarbohydrate}, result.Groups)
}

func TestParseClassificationExtractsEmbeddedJSON(t *testing.T) {
	reply := `Here is the classification: {"groups": ["fat"], "confidence": 0.6} as requested.`

	result, err := parseClassification(reply)
	require.NoError(t, err)
	assert.Equal(t, []NutritionGroup{GroupFat}, result.Groups)
}

func TestParseClassificationDropsUnknownGroups(t *testing.T) {
	result, err := parseClassification(`{"groups": ["protein", "sugar", " FIBER "], "confidence": 0.5}`)
	require.NoError(t, err)
	assert.Equal(t, []NutritionGroup{GroupProtein, GroupFiber}, result.Groups)
}

func TestParseClassificationRejectsGarbage(t *testing.T) {
	for _, reply := range []string{"", "not json", "{broken", "[]"} {
		_, err := parseClassification(reply)
		assert.Error(t, err, "reply %q", reply)
	}
}

func TestClassifyAllSettledMixedBatch(t *testing.T) {
	// Five notes where the third fails: the batch still yields five
	// results in order, the failed note unclassified and the rest real.
	texts := []string{"pollo", "arroz", "???", "palta", "verduras"}

	classifyOne := func(_ context.Context, text string) Classification {
		if text == "???" {
			return Unclassified(text)
		}
		return Classification{
			Groups:       []NutritionGroup{GroupProtein},
			AIClassified: true,
			Confidence:   0.9,
			RawText:      text,
		}
	}

	results := classifyAllSettled(context.Background(), texts, 2, classifyOne)

	require.Len(t, results, 5)
	for i, result := range results {
		assert.Equal(t, texts[i], result.RawText, "result %d out of order", i)
	}
	assert.False(t, results[2].AIClassified)
	assert.Empty(t, results[2].Groups)
	for _, i := range []int{0, 1, 3, 4} {
		assert.True(t, results[i].AIClassified, "result %d", i)
	}
}

func TestClassifyAllSettledRecoversPanics(t *testing.T) {
	texts := []string{"pollo", "boom", "arroz"}

	classifyOne := func(_ context.Context, text string) Classification {
		if text == "boom" {
			panic("classifier blew up")
		}
		return Classification{
			Groups:       []NutritionGroup{GroupFiber},
			AIClassified: true,
			RawText:      text,
		}
	}

	results := classifyAllSettled(context.Background(), texts, 4, classifyOne)

	require.Len(t, results, 3)
	assert.True(t, results[0].AIClassified)
	assert.False(t, results[1].AIClassified)
	assert.Equal(t, "boom", results[1].RawText)
	assert.True(t, results[2].AIClassified)
}

func TestClassifyAllSettledEmptyAndSerial(t *testing.T) {
	assert.Empty(t, classifyAllSettled(context.Background(), nil, 4, nil))

	// A non-positive concurrency still processes every note.
	results := classifyAllSettled(context.Background(), []string{"a", "b"}, 0,
		func(_ context.Context, text string) Classification {
			return Classification{AIClassified: true, RawText: text}
		})
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].RawText)
	assert.Equal(t, "b", results[1].RawText)
}

func TestIsValidGroup(t *testing.T) {
	for _, group := range AllGroups() {
		assert.True(t, IsValidGroup(group))
	}
	assert.False(t, IsValidGroup(NutritionGroup("sugar")))
	assert.False(t, IsValidGroup(NutritionGroup("")))
}
