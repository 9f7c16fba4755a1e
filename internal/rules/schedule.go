package rules

// NapCountVariable marks age bands where nap patterns have not yet
// consolidated and any count is acceptable.
const NapCountVariable = -1

// Fixed clinical constants referenced by the schedule validator. Minutes
// are counted from midnight.
const (
	// WakeToleranceMinutes is the acceptable deviation between the
	// actual and planned wake or bed time before it counts against the
	// schedule.
	WakeToleranceMinutes = 15

	// MinWakeMinutes is the earliest acceptable morning wake time
	// (06:00). An average wake time before this is flagged.
	MinWakeMinutes = 6 * 60

	// NightWakingCutoffMinutes: a wake recorded before 04:00 is a night
	// waking, not a morning wake, and is excluded from wake-time
	// averages.
	NightWakingCutoffMinutes = 4 * 60
)

// ScheduleRule is one age band of the sleep-schedule table. Bands are
// inclusive [MinMonths, MaxMonths] and must not overlap or leave gaps;
// that is enforced by tests, not at runtime.
type ScheduleRule struct {
	MinMonths          int
	MaxMonths          int
	Label              string
	NapCount           int // expected naps per day, NapCountVariable for infants
	NapMaxMinutes      int // longest acceptable average nap
	RecommendedBedtime string
	TotalSleepHours    float64 // reference total over 24h, informational
}

var scheduleRules = []ScheduleRule{
	{MinMonths: 0, MaxMonths: 2, Label: "newborn", NapCount: NapCountVariable, NapMaxMinutes: 240, RecommendedBedtime: "21:00", TotalSleepHours: 16.0},
	{MinMonths: 3, MaxMonths: 5, Label: "young infant", NapCount: NapCountVariable, NapMaxMinutes: 180, RecommendedBedtime: "20:30", TotalSleepHours: 15.0},
	{MinMonths: 6, MaxMonths: 8, Label: "infant", NapCount: 3, NapMaxMinutes: 120, RecommendedBedtime: "19:30", TotalSleepHours: 14.0},
	{MinMonths: 9, MaxMonths: 11, Label: "older infant", NapCount: 2, NapMaxMinutes: 90, RecommendedBedtime: "19:30", TotalSleepHours: 14.0},
	{MinMonths: 12, MaxMonths: 14, Label: "young toddler", NapCount: 2, NapMaxMinutes: 90, RecommendedBedtime: "19:45", TotalSleepHours: 13.5},
	{MinMonths: 15, MaxMonths: 17, Label: "toddler", NapCount: 1, NapMaxMinutes: 150, RecommendedBedtime: "20:00", TotalSleepHours: 13.5},
	{MinMonths: 18, MaxMonths: 23, Label: "toddler", NapCount: 1, NapMaxMinutes: 150, RecommendedBedtime: "20:00", TotalSleepHours: 13.0},
	{MinMonths: 24, MaxMonths: 35, Label: "two-year-old", NapCount: 1, NapMaxMinutes: 120, RecommendedBedtime: "20:00", TotalSleepHours: 12.5},
	{MinMonths: 36, MaxMonths: 47, Label: "three-year-old", NapCount: 1, NapMaxMinutes: 90, RecommendedBedtime: "20:00", TotalSleepHours: 12.0},
	{MinMonths: 48, MaxMonths: 59, Label: "four-year-old", NapCount: 0, NapMaxMinutes: 60, RecommendedBedtime: "20:15", TotalSleepHours: 11.5},
	{MinMonths: 60, MaxMonths: 71, Label: "five-year-old", NapCount: 0, NapMaxMinutes: 60, RecommendedBedtime: "20:30", TotalSleepHours: 11.0},
	{MinMonths: 72, MaxMonths: 216, Label: "school age", NapCount: 0, NapMaxMinutes: 60, RecommendedBedtime: "20:30", TotalSleepHours: 10.5},
}

// ScheduleRuleForAge returns the band containing the given age. Ages
// above the last tabulated band fall back to the last row; negative ages
// have no rule.
func ScheduleRuleForAge(months int) *ScheduleRule {
	if months < 0 {
		return nil
	}
	for i := range scheduleRules {
		if months >= scheduleRules[i].MinMonths && months <= scheduleRules[i].MaxMonths {
			return &scheduleRules[i]
		}
	}
	return &scheduleRules[len(scheduleRules)-1]
}

// NightDurationForAge is the expected overnight sleep in hours,
// piecewise by age.
func NightDurationForAge(months int) float64 {
	switch {
	case months < 36:
		return 11.0
	case months < 48:
		return 11.75
	case months < 60:
		return 11.25
	case months < 72:
		return 10.75
	default:
		return 10.25
	}
}

// ScheduleRules exposes a copy of the table for reporting surfaces.
func ScheduleRules() []ScheduleRule {
	out := make([]ScheduleRule, len(scheduleRules))
	copy(out, scheduleRules)
	return out
}
