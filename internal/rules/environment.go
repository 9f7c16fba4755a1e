package rules

type FactorKind string

const (
	FactorNumeric FactorKind = "numeric"
	FactorBoolean FactorKind = "boolean"
)

// EnvironmentalFactor is one table-driven sleep-environment check.
// Numeric factors carry an acceptable [Min, Max] range; boolean factors
// carry the expected answer (Expected), judged through the affirmative
// detector on the survey value.
type EnvironmentalFactor struct {
	ID          string
	Name        string
	SurveyField string
	Kind        FactorKind
	Min         float64
	Max         float64
	Unit        string
	Expected    bool
}

var environmentalFactors = []EnvironmentalFactor{
	{ID: "screen_time", Name: "Screen time before bed", SurveyField: "screen_time_hours", Kind: FactorNumeric, Min: 0, Max: 1.0, Unit: "h"},
	{ID: "room_temperature", Name: "Bedroom temperature", SurveyField: "room_temperature", Kind: FactorNumeric, Min: 18, Max: 22, Unit: "°C"},
	{ID: "room_humidity", Name: "Bedroom humidity", SurveyField: "room_humidity", Kind: FactorNumeric, Min: 40, Max: 60, Unit: "%"},
	{ID: "room_darkness", Name: "Room darkened for sleep", SurveyField: "room_darkness", Kind: FactorBoolean, Expected: true},
	{ID: "co_sleeping", Name: "Co-sleeping in the parents' bed", SurveyField: "co_sleeping", Kind: FactorBoolean, Expected: false},
	{ID: "postpartum_depression", Name: "Caregiver postpartum depression flag", SurveyField: "postpartum_depression", Kind: FactorBoolean, Expected: false},
}

func EnvironmentalFactors() []EnvironmentalFactor {
	out := make([]EnvironmentalFactor, len(environmentalFactors))
	copy(out, environmentalFactors)
	return out
}
