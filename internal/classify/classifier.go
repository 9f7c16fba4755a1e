package classify

import (
	"context"
)

type NutritionGroup string

const (
	GroupProtein      NutritionGroup = "protein"
	GroupCarbohydrate NutritionGroup = "carbohydrate"
	GroupFat          NutritionGroup = "fat"
	GroupFiber        NutritionGroup = "fiber"
)

func AllGroups() []NutritionGroup {
	return []NutritionGroup{GroupProtein, GroupCarbohydrate, GroupFat, GroupFiber}
}

func IsValidGroup(g NutritionGroup) bool {
	switch g {
	case GroupProtein, GroupCarbohydrate, GroupFat, GroupFiber:
		return true
	}
	return false
}

// Classification is the result of running one feeding note through the
// food classifier. AIClassified is false when the note could not be
// classified (adapter disabled, call failed, unparseable reply); the
// nutrition validator treats such notes as carrying no group information.
type Classification struct {
	Groups       []NutritionGroup `json:"groups"`
	AIClassified bool             `json:"ai_classified"`
	Confidence   float64          `json:"confidence,omitempty"`
	RawText      string           `json:"raw_text,omitempty"`
}

func Unclassified(text string) Classification {
	return Classification{
		Groups:       []NutritionGroup{},
		AIClassified: false,
		RawText:      text,
	}
}

// Classifier turns free-text feeding notes into nutrition-group tags.
// Implementations never return an error: any failure maps to an
// unclassified result so that a single bad note cannot taint an
// evaluation. ClassifyBatch preserves input order, one result per note.
type Classifier interface {
	Classify(ctx context.Context, text string) Classification
	ClassifyBatch(ctx context.Context, texts []string) []Classification
}

// NoopClassifier is used when no classifier is configured. Every note
// comes back unclassified, which the nutrition validator surfaces as
// pending data rather than a failure.
type NoopClassifier struct{}

func (NoopClassifier) Classify(_ context.Context, text string) Classification {
	return Unclassified(text)
}

func (NoopClassifier) ClassifyBatch(_ context.Context, texts []string) []Classification {
	results := make([]Classification, len(texts))
	for i, text := range texts {
		results[i] = Unclassified(text)
	}
	return results
}
