package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"06:30", 390, true},
		{"19:45", 1185, true},
		{"23:59", 1439, true},
		{" 20:00 ", 1200, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
		{"7", 0, false},
	}

	for _, tt := range tests {
		minutes, ok := parseClockMinutes(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.minutes, minutes, "input %q", tt.input)
		}
	}
}

func TestClockDiffMinutesWrapsMidnight(t *testing.T) {
	// 23:50 and 00:10 are 20 minutes apart, not 1420.
	assert.Equal(t, 20, clockDiffMinutes(23*60+50, 10))
	assert.Equal(t, 20, clockDiffMinutes(10, 23*60+50))

	assert.Equal(t, 0, clockDiffMinutes(600, 600))
	assert.Equal(t, 90, clockDiffMinutes(600, 690))
	assert.Equal(t, 720, clockDiffMinutes(0, 720))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "06:00", formatClock(360))
	assert.Equal(t, "00:05", formatClock(5))
	assert.Equal(t, "23:59", formatClock(1439))
	assert.Equal(t, "00:00", formatClock(1440))
	assert.Equal(t, "23:50", formatClock(-10))
}
