package diagnostic

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/sleepcoach/backend/internal/rules"
)

// Survey fields whose free text is pooled into recent-change detection.
var environmentNoteFields = []string{"notes", "recent_changes", "observations"}

// ValidateEnvironment evaluates the table-driven sleep-environment
// factors plus the recent-changes keyword scan over all pooled free
// text.
func ValidateEnvironment(input ValidationInput) EnvironmentValidation {
	var criteria []CriterionResult

	for _, factor := range rules.EnvironmentalFactors() {
		criteria = append(criteria, evaluateFactor(input, factor))
	}

	changes, matches := recentChangesCriterion(input)
	criteria = append(criteria, changes)

	return EnvironmentValidation{
		GroupValidation: GroupValidation{
			Group:        GroupEnvironment,
			Name:         "Sleep environment",
			Status:       worstOfCriteria(criteria),
			Criteria:     criteria,
			Completeness: completenessOf(criteria),
			Summary:      summarize("Sleep environment", criteria),
		},
		DetectedKeywords: matches,
	}
}

func evaluateFactor(input ValidationInput, factor rules.EnvironmentalFactor) CriterionResult {
	criterion := CriterionResult{
		ID:          factor.ID,
		Name:        factor.Name,
		SourceType:  SourceSurvey,
		SourceField: factor.SurveyField,
	}

	switch factor.Kind {
	case rules.FactorNumeric:
		criterion.Expected = fmt.Sprintf("%.0f-%.0f %s", factor.Min, factor.Max, factor.Unit)

		value, ok := input.surveyNumber(factor.SurveyField)
		if !ok {
			criterion.Status = StatusWarning
			criterion.Message = fmt.Sprintf("%s not reported", factor.Name)
			return criterion
		}

		criterion.DataAvailable = true
		criterion.Value = fmt.Sprintf("%.1f %s", value, factor.Unit)

		if value < factor.Min || value > factor.Max {
			criterion.Status = StatusAlert
			criterion.Message = fmt.Sprintf("%s at %.1f %s, outside the %.0f-%.0f %s range",
				factor.Name, value, factor.Unit, factor.Min, factor.Max, factor.Unit)
		} else {
			criterion.Status = StatusOK
			criterion.Message = fmt.Sprintf("%s within range", factor.Name)
		}
		return criterion

	case rules.FactorBoolean:
		criterion.Expected = fmt.Sprintf("%t", factor.Expected)

		value, ok := input.surveyValue(factor.SurveyField)
		if !ok {
			criterion.Status = StatusWarning
			criterion.Message = fmt.Sprintf("%s not reported", factor.Name)
			return criterion
		}

		answer := IsAffirmative(value)
		criterion.DataAvailable = true
		criterion.Value = fmt.Sprintf("%t", answer)

		if answer != factor.Expected {
			criterion.Status = StatusAlert
			criterion.Message = fmt.Sprintf("%s: reported %t, expected %t", factor.Name, answer, factor.Expected)
		} else {
			criterion.Status = StatusOK
			criterion.Message = fmt.Sprintf("%s as recommended", factor.Name)
		}
		return criterion

	default:
		criterion.Status = StatusWarning
		criterion.Message = fmt.Sprintf("Unknown factor kind %q", factor.Kind)
		return criterion
	}
}

type sourcedText struct {
	text   string
	source SourceType
}

func pooledFreeText(input ValidationInput) []sourcedText {
	var pool []sourcedText

	for _, field := range environmentNoteFields {
		if value, ok := input.surveyValue(field); ok {
			if text, isString := value.(string); isString {
				pool = append(pool, sourcedText{text: text, source: SourceSurvey})
			}
		}
	}

	for _, event := range input.Events {
		if strings.TrimSpace(event.Note) != "" {
			pool = append(pool, sourcedText{text: event.Note, source: SourceEvent})
		}
	}

	for _, message := range input.ChatMessages {
		if strings.TrimSpace(message) != "" {
			pool = append(pool, sourcedText{text: message, source: SourceChat})
		}
	}

	return pool
}

// recentChangesCriterion scans all pooled free text for life-disruption
// keywords. Any match is an alert: recent changes are treated as
// directly sleep-relevant, and the matched keywords are surfaced for the
// consultant to show context.
func recentChangesCriterion(input ValidationInput) (CriterionResult, []KeywordMatch) {
	criterion := CriterionResult{
		ID:         "recent_changes",
		Name:       "Recent life changes",
		Expected:   "none",
		SourceType: SourceCalculated,
	}

	pool := pooledFreeText(input)
	if len(pool) == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No notes or messages available to scan for recent changes"
		return criterion, nil
	}

	matches := detectChangeKeywords(pool)
	criterion.DataAvailable = true

	if len(matches) == 0 {
		criterion.Status = StatusOK
		criterion.Value = "none detected"
		criterion.Message = "No recent life changes mentioned"
		return criterion, nil
	}

	categories := map[string]struct{}{}
	var names []string
	for _, match := range matches {
		if _, seen := categories[match.Category]; !seen {
			categories[match.Category] = struct{}{}
			names = append(names, match.CategoryName)
		}
	}

	criterion.Status = StatusAlert
	criterion.Value = fmt.Sprintf("%d matches", len(matches))
	criterion.Message = fmt.Sprintf("Recent changes mentioned: %s", strings.Join(names, ", "))
	return criterion, matches
}

// detectChangeKeywords matches the categorized lexicon against each
// text: multi-word phrases as substrings of the normalized text, single
// words against the token set.
func detectChangeKeywords(pool []sourcedText) []KeywordMatch {
	var matches []KeywordMatch

	for _, entry := range pool {
		normalized := " " + strings.ToLower(entry.text) + " "
		tokens := tokenize(entry.text)

		for _, category := range rules.ChangeKeywordLexicon() {
			for _, keyword := range category.Keywords {
				var hit bool
				if strings.Contains(keyword, " ") {
					hit = strings.Contains(normalized, keyword)
				} else {
					_, hit = tokens[keyword]
				}
				if hit {
					matches = append(matches, KeywordMatch{
						Category:     category.ID,
						CategoryName: category.Name,
						Keyword:      keyword,
						Source:       entry.source,
					})
				}
			}
		}
	}

	return matches
}

func tokenize(text string) map[string]struct{} {
	tokens := map[string]struct{}{}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		// prose only fails on pathological input; fall back to fields.
		for _, field := range strings.Fields(text) {
			tokens[strings.ToLower(strings.Trim(field, ".,;:!?¿¡()"))] = struct{}{}
		}
		return tokens
	}

	for _, token := range doc.Tokens() {
		tokens[strings.ToLower(token.Text)] = struct{}{}
	}
	return tokens
}
