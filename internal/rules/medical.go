package rules

// Condition is one of the medical conditions screened during a
// diagnostic evaluation.
type Condition string

const (
	ConditionReflux       Condition = "reflux"
	ConditionApneaAllergy Condition = "apnea_allergy"
	ConditionRestlessLeg  Condition = "restless_leg"
)

func Conditions() []Condition {
	return []Condition{ConditionReflux, ConditionApneaAllergy, ConditionRestlessLeg}
}

type IndicatorSource string

const (
	IndicatorFromSurvey IndicatorSource = "survey"
	IndicatorFromEvents IndicatorSource = "event"
)

// MedicalIndicator is one screening entry in a condition catalog.
// Survey-backed entries name the survey field whose affirmative value
// counts as detected. Event-backed entries name a predicate that the
// medical validator resolves to a function over the event stream.
type MedicalIndicator struct {
	ID          string
	Name        string
	Source      IndicatorSource
	SurveyField string
	Predicate   string
}

// Predicate names resolved by the medical validator.
const (
	PredicateFrequentNightFeedings    = "frequent_night_feedings"
	PredicateSecondHalfFragmentation  = "second_half_fragmentation"
	PredicateFrequentBriefNightWaking = "frequent_brief_night_wakings"
)

var medicalCatalogs = map[Condition][]MedicalIndicator{
	ConditionReflux: {
		{ID: "reflux_diagnosed", Name: "Reflux diagnosed by pediatrician", Source: IndicatorFromSurvey, SurveyField: "reflux_diagnosed"},
		{ID: "frequent_spit_up", Name: "Frequent spit-up or regurgitation", Source: IndicatorFromSurvey, SurveyField: "frequent_spit_up"},
		{ID: "arching_during_feeds", Name: "Back arching during or after feeds", Source: IndicatorFromSurvey, SurveyField: "arching_during_feeds"},
		{ID: "crying_when_lying_flat", Name: "Crying or discomfort when lying flat", Source: IndicatorFromSurvey, SurveyField: "crying_when_lying_flat"},
		{ID: "frequent_night_feedings", Name: "Frequent overnight feedings", Source: IndicatorFromEvents, Predicate: PredicateFrequentNightFeedings},
	},
	ConditionApneaAllergy: {
		{ID: "snoring", Name: "Habitual snoring", Source: IndicatorFromSurvey, SurveyField: "snoring"},
		{ID: "breathing_pauses", Name: "Observed pauses in breathing", Source: IndicatorFromSurvey, SurveyField: "breathing_pauses"},
		{ID: "mouth_breathing", Name: "Mouth breathing during sleep", Source: IndicatorFromSurvey, SurveyField: "mouth_breathing"},
		{ID: "chronic_congestion", Name: "Chronic nasal congestion or frequent colds", Source: IndicatorFromSurvey, SurveyField: "chronic_congestion"},
		{ID: "second_half_fragmentation", Name: "Sleep fragmentation concentrated after 03:00", Source: IndicatorFromEvents, Predicate: PredicateSecondHalfFragmentation},
	},
	ConditionRestlessLeg: {
		{ID: "restless_legs_observed", Name: "Restless or constantly moving legs at bedtime", Source: IndicatorFromSurvey, SurveyField: "restless_legs_observed"},
		{ID: "leg_kicking_at_night", Name: "Repetitive leg kicking during sleep", Source: IndicatorFromSurvey, SurveyField: "leg_kicking_at_night"},
		{ID: "family_history_rls", Name: "Family history of restless legs", Source: IndicatorFromSurvey, SurveyField: "family_history_rls"},
		{ID: "iron_deficiency", Name: "Known iron deficiency or low ferritin", Source: IndicatorFromSurvey, SurveyField: "iron_deficiency"},
		{ID: "frequent_brief_night_wakings", Name: "Many brief night wakings", Source: IndicatorFromEvents, Predicate: PredicateFrequentBriefNightWaking},
	},
}

// IndicatorsForCondition returns the catalog for a condition, or nil for
// an unknown condition.
func IndicatorsForCondition(condition Condition) []MedicalIndicator {
	return medicalCatalogs[condition]
}
