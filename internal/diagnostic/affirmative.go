package diagnostic

import "strings"

// negativeSurveyTokens is the lexicon of survey answers that count as
// "no". Intake forms come back in Spanish with occasional English, and
// several flows serialize booleans as strings, so detection works over
// text. Widening this list is a clinical-owner decision; keep it in one
// place.
var negativeSurveyTokens = []string{
	"no",
	"ninguno",
	"none",
	"nunca",
	"false",
	"0",
}

// IsAffirmative classifies a survey value as a positive answer:
// boolean true, a positive number, or any non-empty string outside the
// negative lexicon.
func IsAffirmative(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		if text == "" {
			return false
		}
		for _, negative := range negativeSurveyTokens {
			if text == negative {
				return false
			}
		}
		return true
	default:
		if n, ok := asNumber(value); ok {
			return n > 0
		}
		return false
	}
}
