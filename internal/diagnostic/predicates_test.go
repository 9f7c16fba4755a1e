package diagnostic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func eventAt(t EventType, day int, hour, min int) Event {
	return Event{
		Type:      t,
		StartTime: time.Date(2026, 3, day, hour, min, 0, 0, time.UTC),
	}
}

func eventWithDuration(t EventType, day, hour, min, durationMin int) Event {
	e := eventAt(t, day, hour, min)
	end := e.StartTime.Add(time.Duration(durationMin) * time.Minute)
	e.EndTime = &end
	return e
}

func TestHasFrequentNightFeedings(t *testing.T) {
	// Two nights, two feedings before 05:00 each: reflux marker fires.
	frequent := []Event{
		eventAt(EventFeeding, 1, 1, 0),
		eventAt(EventFeeding, 1, 3, 30),
		eventAt(EventFeeding, 2, 2, 0),
		eventAt(EventFeeding, 2, 4, 45),
	}
	assert.True(t, hasFrequentNightFeedings(frequent))

	// Daytime feedings dilute the per-day average below two.
	sparse := []Event{
		eventAt(EventFeeding, 1, 1, 0),
		eventAt(EventFeeding, 1, 9, 0),
		eventAt(EventFeeding, 2, 12, 0),
		eventAt(EventFeeding, 2, 18, 0),
	}
	assert.False(t, hasFrequentNightFeedings(sparse))

	// A feeding at exactly 05:00 is outside the night window.
	boundary := []Event{
		eventAt(EventFeeding, 1, 5, 0),
		eventAt(EventFeeding, 1, 5, 30),
	}
	assert.False(t, hasFrequentNightFeedings(boundary))

	assert.False(t, hasFrequentNightFeedings(nil))
}

func TestHasSecondHalfFragmentation(t *testing.T) {
	// Wakings concentrated after 03:00.
	lateHeavy := []Event{
		eventAt(EventNightWaking, 1, 4, 0),
		eventAt(EventNightWaking, 1, 5, 30),
		eventAt(EventNightWaking, 2, 4, 15),
	}
	assert.True(t, hasSecondHalfFragmentation(lateHeavy))

	// Evening wakings (and pre-03:00 ones) belong to the first half.
	earlyHeavy := []Event{
		eventAt(EventNightWaking, 1, 21, 0),
		eventAt(EventNightWaking, 1, 1, 30),
		eventAt(EventNightWaking, 2, 4, 0),
	}
	assert.False(t, hasSecondHalfFragmentation(earlyHeavy))

	// One waking carries no signal regardless of its time.
	single := []Event{eventAt(EventNightWaking, 1, 4, 0)}
	assert.False(t, hasSecondHalfFragmentation(single))

	// A tie is not a concentration.
	tie := []Event{
		eventAt(EventNightWaking, 1, 1, 0),
		eventAt(EventNightWaking, 1, 4, 0),
	}
	assert.False(t, hasSecondHalfFragmentation(tie))
}

func TestHasFrequentBriefNightWakings(t *testing.T) {
	// Three brief wakings on a single night.
	brief := []Event{
		eventWithDuration(EventNightWaking, 1, 1, 0, 5),
		eventWithDuration(EventNightWaking, 1, 3, 0, 10),
		eventWithDuration(EventNightWaking, 1, 4, 30, 15),
	}
	assert.True(t, hasFrequentBriefNightWakings(brief))

	// Long wakings do not count as brief.
	long := []Event{
		eventWithDuration(EventNightWaking, 1, 1, 0, 45),
		eventWithDuration(EventNightWaking, 1, 3, 0, 30),
		eventWithDuration(EventNightWaking, 1, 4, 30, 60),
	}
	assert.False(t, hasFrequentBriefNightWakings(long))

	// Wakings without an end time count as brief.
	open := []Event{
		eventAt(EventNightWaking, 1, 1, 0),
		eventAt(EventNightWaking, 1, 2, 0),
		eventAt(EventNightWaking, 1, 4, 0),
	}
	assert.True(t, hasFrequentBriefNightWakings(open))

	// Spread over two nights the average drops below three.
	spread := []Event{
		eventWithDuration(EventNightWaking, 1, 1, 0, 5),
		eventWithDuration(EventNightWaking, 1, 3, 0, 5),
		eventWithDuration(EventNightWaking, 2, 2, 0, 5),
	}
	assert.False(t, hasFrequentBriefNightWakings(spread))

	assert.False(t, hasFrequentBriefNightWakings(nil))
}
