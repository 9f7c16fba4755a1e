package diagnostic

import (
	"fmt"
	"math"
	"time"

	"github.com/sleepcoach/backend/internal/rules"
)

// scheduleWindowDays is the aggregation window for sleep statistics.
const scheduleWindowDays = 7

// ValidateSchedule evaluates the sleep-schedule group over the last
// seven days of sleep events against the active plan and the age-banded
// schedule rules.
func ValidateSchedule(input ValidationInput, now time.Time) GroupValidation {
	rule := rules.ScheduleRuleForAge(input.AgeMonths)

	from := now.AddDate(0, 0, -scheduleWindowDays)
	nights := input.eventsInWindow(EventNightSleep, from, now)
	naps := input.eventsInWindow(EventNap, from, now)

	criteria := []CriterionResult{
		minWakeTimeCriterion(nights),
		wakeDeviationCriterion(nights, input.Plan),
		bedtimeDeviationCriterion(nights, input.Plan),
		nightDurationCriterion(nights, input.AgeMonths),
		napCountCriterion(naps, nights, rule),
		napDurationCriterion(naps, rule),
	}

	return GroupValidation{
		Group:        GroupSchedule,
		Name:         "Sleep schedule",
		Status:       worstOfCriteria(criteria),
		Criteria:     criteria,
		Completeness: completenessOf(criteria),
		Summary:      summarize("Sleep schedule", criteria),
	}
}

// morningWakeMinutes extracts the wake clock time of each completed
// night. Wakes before the 04:00 cutoff are night wakings, not morning
// wakes, and are excluded.
func morningWakeMinutes(nights []Event) []int {
	var wakes []int
	for _, night := range nights {
		if night.EndTime == nil {
			continue
		}
		minute := minuteOfDay(*night.EndTime)
		if minute >= rules.NightWakingCutoffMinutes {
			wakes = append(wakes, minute)
		}
	}
	return wakes
}

func meanInt(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

func minWakeTimeCriterion(nights []Event) CriterionResult {
	criterion := CriterionResult{
		ID:         "min_wake_time",
		Name:       "Minimum wake time",
		Expected:   fmt.Sprintf("not before %s", formatClock(rules.MinWakeMinutes)),
		SourceType: SourceEvent,
	}

	wakes := morningWakeMinutes(nights)
	if len(wakes) == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No morning wake events recorded in the last 7 days"
		return criterion
	}

	average := meanInt(wakes)
	criterion.DataAvailable = true
	criterion.Value = formatClock(average)

	if average < rules.MinWakeMinutes {
		criterion.Status = StatusAlert
		criterion.Message = fmt.Sprintf("Average wake time %s is before %s",
			formatClock(average), formatClock(rules.MinWakeMinutes))
		return criterion
	}

	criterion.Status = StatusOK
	criterion.Message = fmt.Sprintf("Average wake time %s", formatClock(average))
	return criterion
}

// planDeviationStatus applies the shared tolerance policy for schedule
// drift against the plan.
func planDeviationStatus(deviation int) Status {
	switch {
	case deviation <= rules.WakeToleranceMinutes:
		return StatusOK
	case deviation <= 2*rules.WakeToleranceMinutes:
		return StatusWarning
	default:
		return StatusAlert
	}
}

// averagePlanDeviation averages the wraparound-corrected deviation of
// each night's clock time against the planned one.
func averagePlanDeviation(clocks []int, planned int) int {
	if len(clocks) == 0 {
		return 0
	}
	sum := 0
	for _, clock := range clocks {
		sum += clockDiffMinutes(clock, planned)
	}
	return int(math.Round(float64(sum) / float64(len(clocks))))
}

func wakeDeviationCriterion(nights []Event, plan *CarePlan) CriterionResult {
	criterion := CriterionResult{
		ID:          "wake_time_deviation",
		Name:        "Wake time vs. plan",
		Expected:    fmt.Sprintf("within %d min of plan", rules.WakeToleranceMinutes),
		SourceType:  SourcePlan,
		SourceField: "wake_time",
	}

	planned, havePlan := 0, false
	if plan != nil {
		planned, havePlan = parseClockMinutes(plan.WakeTime)
	}

	wakes := morningWakeMinutes(nights)
	if !havePlan || len(wakes) == 0 {
		criterion.Status = StatusWarning
		if !havePlan {
			criterion.Message = "No planned wake time to compare against"
		} else {
			criterion.Message = "No morning wake events recorded in the last 7 days"
		}
		return criterion
	}

	deviation := averagePlanDeviation(wakes, planned)
	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%d min", deviation)
	criterion.Status = planDeviationStatus(deviation)
	criterion.Message = fmt.Sprintf("Wake time deviates %d min from the planned %s",
		deviation, formatClock(planned))
	return criterion
}

func bedtimeDeviationCriterion(nights []Event, plan *CarePlan) CriterionResult {
	criterion := CriterionResult{
		ID:          "bedtime_deviation",
		Name:        "Bedtime vs. plan",
		Expected:    fmt.Sprintf("within %d min of plan", rules.WakeToleranceMinutes),
		SourceType:  SourcePlan,
		SourceField: "bedtime",
	}

	planned, havePlan := 0, false
	if plan != nil {
		planned, havePlan = parseClockMinutes(plan.Bedtime)
	}

	var bedtimes []int
	for _, night := range nights {
		bedtimes = append(bedtimes, minuteOfDay(night.StartTime))
	}

	if !havePlan || len(bedtimes) == 0 {
		criterion.Status = StatusWarning
		if !havePlan {
			criterion.Message = "No planned bedtime to compare against"
		} else {
			criterion.Message = "No night sleep events recorded in the last 7 days"
		}
		return criterion
	}

	deviation := averagePlanDeviation(bedtimes, planned)
	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%d min", deviation)
	criterion.Status = planDeviationStatus(deviation)
	criterion.Message = fmt.Sprintf("Bedtime deviates %d min from the planned %s",
		deviation, formatClock(planned))
	return criterion
}

func nightDurationCriterion(nights []Event, ageMonths int) CriterionResult {
	expected := rules.NightDurationForAge(ageMonths)
	criterion := CriterionResult{
		ID:         "night_duration",
		Name:       "Night sleep duration",
		Expected:   fmt.Sprintf("%.2f h", expected),
		SourceType: SourceEvent,
	}

	var hours []float64
	for _, night := range nights {
		if duration, ok := night.Duration(); ok {
			hours = append(hours, duration.Hours())
		}
	}

	if len(hours) == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No completed night sleep events in the last 7 days"
		return criterion
	}

	sum := 0.0
	for _, h := range hours {
		sum += h
	}
	average := sum / float64(len(hours))
	deviation := math.Abs(average - expected)

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%.2f h", average)
	criterion.Message = fmt.Sprintf("Average night sleep %.1f h vs. expected %.1f h", average, expected)

	switch {
	case deviation <= 1.0:
		criterion.Status = StatusOK
	case deviation <= 2.0:
		criterion.Status = StatusWarning
	default:
		criterion.Status = StatusAlert
	}
	return criterion
}

// distinctDays counts the calendar days covered by the given events, so
// that sparse logs do not dilute per-day averages.
func distinctDays(eventSets ...[]Event) int {
	days := map[string]struct{}{}
	for _, events := range eventSets {
		for _, e := range events {
			days[e.StartTime.Format("2006-01-02")] = struct{}{}
		}
	}
	return len(days)
}

func napCountCriterion(naps, nights []Event, rule *rules.ScheduleRule) CriterionResult {
	criterion := CriterionResult{
		ID:         "nap_count",
		Name:       "Naps per day",
		SourceType: SourceEvent,
	}

	if rule == nil {
		criterion.Status = StatusOK
		criterion.DataAvailable = true
		criterion.Message = "No schedule rule applies at this age"
		return criterion
	}

	if rule.NapCount == rules.NapCountVariable {
		criterion.Status = StatusOK
		criterion.DataAvailable = true
		criterion.Expected = "variable"
		criterion.Message = "Nap patterns are still variable at this age"
		return criterion
	}

	criterion.Expected = fmt.Sprintf("%d naps", rule.NapCount)

	days := distinctDays(naps, nights)
	if days == 0 {
		criterion.Status = StatusWarning
		criterion.Message = "No sleep events recorded in the last 7 days"
		return criterion
	}

	average := float64(len(naps)) / float64(days)
	rounded := int(math.Round(average))
	deviation := rounded - rule.NapCount
	if deviation < 0 {
		deviation = -deviation
	}

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%d naps", rounded)
	criterion.Message = fmt.Sprintf("Averaging %.1f naps per day vs. expected %d", average, rule.NapCount)

	switch deviation {
	case 0:
		criterion.Status = StatusOK
	case 1:
		criterion.Status = StatusWarning
	default:
		criterion.Status = StatusAlert
	}
	return criterion
}

func napDurationCriterion(naps []Event, rule *rules.ScheduleRule) CriterionResult {
	criterion := CriterionResult{
		ID:         "nap_duration",
		Name:       "Average nap duration",
		SourceType: SourceEvent,
	}

	if rule == nil {
		criterion.Status = StatusOK
		criterion.DataAvailable = true
		criterion.Message = "No schedule rule applies at this age"
		return criterion
	}

	criterion.Expected = fmt.Sprintf("up to %d min", rule.NapMaxMinutes)

	var minutes []float64
	for _, nap := range naps {
		if duration, ok := nap.Duration(); ok {
			minutes = append(minutes, duration.Minutes())
		}
	}

	if len(minutes) == 0 {
		if rule.NapCount == 0 {
			criterion.Status = StatusOK
			criterion.DataAvailable = true
			criterion.Message = "Naps are no longer expected at this age"
			return criterion
		}
		criterion.Status = StatusWarning
		criterion.Message = "No completed naps recorded in the last 7 days"
		return criterion
	}

	sum := 0.0
	for _, m := range minutes {
		sum += m
	}
	average := sum / float64(len(minutes))

	criterion.DataAvailable = true
	criterion.Value = fmt.Sprintf("%.0f min", average)

	// Long naps are lower-severity than schedule drift: warning, never alert.
	if average > float64(rule.NapMaxMinutes) {
		criterion.Status = StatusWarning
		criterion.Message = fmt.Sprintf("Naps average %.0f min, above the %d min guideline",
			average, rule.NapMaxMinutes)
		return criterion
	}

	criterion.Status = StatusOK
	criterion.Message = fmt.Sprintf("Naps average %.0f min", average)
	return criterion
}
