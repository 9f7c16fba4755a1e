package diagnostic

// Event-derived medical predicates. Each is a small pure function over
// the event slice so its boundary behavior (too few events, clock
// cutoffs) can be tested in isolation. The medical validator resolves
// them by the predicate names in the indicator catalogs.

const (
	nightFeedingWindowEndMinutes = 5 * 60 // feedings before 05:00 count as night feedings
	fragmentationCutoffMinutes   = 3 * 60 // night wakings split at 03:00
	eveningStartMinutes          = 19 * 60
	morningEndMinutes            = 9 * 60
	briefWakingMaxMinutes        = 15.0
)

// hasFrequentNightFeedings reports whether the child averages two or
// more feedings per night between midnight and 05:00, a reflux marker.
func hasFrequentNightFeedings(events []Event) bool {
	nightFeedings := 0
	days := map[string]struct{}{}

	for _, e := range events {
		if e.Type != EventFeeding {
			continue
		}
		days[e.StartTime.Format("2006-01-02")] = struct{}{}
		if minuteOfDay(e.StartTime) < nightFeedingWindowEndMinutes {
			nightFeedings++
		}
	}

	if len(days) == 0 {
		return false
	}
	return float64(nightFeedings)/float64(len(days)) >= 2.0
}

// hasSecondHalfFragmentation reports whether night wakings concentrate
// after 03:00: more wakings in the second half of the night than the
// first. Fewer than two wakings carry no signal.
func hasSecondHalfFragmentation(events []Event) bool {
	firstHalf, secondHalf := 0, 0

	for _, e := range events {
		if e.Type != EventNightWaking {
			continue
		}
		minute := minuteOfDay(e.StartTime)
		switch {
		case minute >= eveningStartMinutes || minute < fragmentationCutoffMinutes:
			firstHalf++
		case minute < morningEndMinutes:
			secondHalf++
		}
	}

	if firstHalf+secondHalf < 2 {
		return false
	}
	return secondHalf > firstHalf
}

// hasFrequentBriefNightWakings reports whether the child averages three
// or more brief night wakings per recorded night, a restless-legs
// marker. Wakings without an end time count as brief.
func hasFrequentBriefNightWakings(events []Event) bool {
	brief := 0
	days := map[string]struct{}{}

	for _, e := range events {
		if e.Type != EventNightWaking {
			continue
		}
		days[e.StartTime.Format("2006-01-02")] = struct{}{}
		if duration, ok := e.Duration(); !ok || duration.Minutes() <= briefWakingMaxMinutes {
			brief++
		}
	}

	if len(days) == 0 {
		return false
	}
	return float64(brief)/float64(len(days)) >= 3.0
}
