package listener

import "strings"

// Recorder keeps every event it receives.
type Recorder struct {
	Func

	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Func = func(e Event) {
		r.events = append(r.events, e)
	}
	return r
}

// Events returns the recorded events in call order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}

// String renders one event per line.
func (r *Recorder) String() string {
	return Trace(r.events)
}

// Trace renders events one per line.
func Trace(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Tee returns a listener that forwards every event to each of ls in order.
func Tee(ls ...Listener) Listener {
	targets := append([]Listener(nil), ls...)
	return Func(func(e Event) {
		for _, l := range targets {
			Emit(l, e)
		}
	})
}
