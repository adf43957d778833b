package sensor

import (
	"errors"
	"fmt"
)

// Event tags an unusual oceanographic condition overlaid on a reading.
type Event string

const (
	EventAlgalBloom Event = "algal_bloom"
	EventUpwelling  Event = "upwelling"
	EventStorm      Event = "storm"
	EventPollution  Event = "pollution"
)

// Events lists the recognized event tags in a stable order.
var Events = []Event{EventAlgalBloom, EventUpwelling, EventStorm, EventPollution}

var ErrUnknownEvent = errors.New("sensor: unknown event type")

// ParseEvent validates a wire-level event tag.
func ParseEvent(s string) (Event, error) {
	switch Event(s) {
	case EventAlgalBloom, EventUpwelling, EventStorm, EventPollution:
		return Event(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// applyEvent overlays one event on a freshly generated reading, in place.
// Exactly one event applies per reading; transforms never compose.
func applyEvent(r *Reading, ev Event) {
	switch ev {
	case EventAlgalBloom:
		r.PhytoplanktonCount *= 5
		r.Turbidity *= 3
		r.DissolvedOxygen *= 1.5
		r.PH += 0.2
	case EventUpwelling:
		r.Temperature -= 5
		r.Nitrate *= 3
		r.Phosphate *= 2.5
		r.PhytoplanktonCount *= 2
	case EventStorm:
		r.Turbidity *= 4
		r.DissolvedOxygen *= 1.3
		r.Temperature -= 2
	case EventPollution:
		r.PH -= 0.3
		r.DissolvedOxygen *= 0.6
		r.Turbidity *= 2
		r.BacteriaCount *= 3
	}
	r.Event = string(ev)
}
