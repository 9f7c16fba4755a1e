package diagnostic

import (
	"strconv"
	"strings"
	"time"
)

type EventType string

const (
	EventNightSleep  EventType = "night_sleep"
	EventNap         EventType = "nap"
	EventNightWaking EventType = "night_waking"
	EventFeeding     EventType = "feeding"
	EventMedical     EventType = "medical"
	EventEnvironment EventType = "environment"
	EventNote        EventType = "note"
)

type FeedingKind string

const (
	FeedingMilk  FeedingKind = "milk"
	FeedingSolid FeedingKind = "solid"
)

// Event is one generic record from the child's event log. Only the
// fields relevant to its type are set.
type Event struct {
	ID        string     `json:"id,omitempty"`
	Type      EventType  `json:"type"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Note      string     `json:"note,omitempty"`

	FeedingKind FeedingKind `json:"feeding_kind,omitempty"`
	AmountOz    *float64    `json:"amount_oz,omitempty"`
}

// Duration reports the event span when both timestamps are present.
func (e Event) Duration() (time.Duration, bool) {
	if e.EndTime == nil || e.EndTime.Before(e.StartTime) {
		return 0, false
	}
	return e.EndTime.Sub(e.StartTime), true
}

// CarePlan carries the schedule targets of the active plan. Times are
// "HH:MM" clock strings.
type CarePlan struct {
	Bedtime  string `json:"bedtime,omitempty"`
	WakeTime string `json:"wake_time,omitempty"`
}

// ValidationInput is the engine's sole input contract. All data arrives
// already materialized; the engine performs no queries of its own.
type ValidationInput struct {
	ChildID      string         `json:"child_id"`
	AgeMonths    int            `json:"age_months"`
	Survey       map[string]any `json:"survey,omitempty"`
	Events       []Event        `json:"events,omitempty"`
	Plan         *CarePlan      `json:"plan,omitempty"`
	ChatMessages []string       `json:"chat_messages,omitempty"`
}

func (in ValidationInput) eventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range in.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (in ValidationInput) eventsInWindow(t EventType, from, to time.Time) []Event {
	var out []Event
	for _, e := range in.Events {
		if e.Type == t && !e.StartTime.Before(from) && !e.StartTime.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// surveyValue reports a survey field and whether it carries a usable
// datum. nil values and blank strings count as missing.
func (in ValidationInput) surveyValue(field string) (any, bool) {
	if in.Survey == nil {
		return nil, false
	}
	value, ok := in.Survey[field]
	if !ok || value == nil {
		return nil, false
	}
	if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return value, true
}

// surveyNumber reads a survey field as a number, accepting the numeric
// types JSON decoding produces plus numeric strings.
func (in ValidationInput) surveyNumber(field string) (float64, bool) {
	value, ok := in.surveyValue(field)
	if !ok {
		return 0, false
	}
	return asNumber(value)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", ".")), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
