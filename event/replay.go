package event

import "io"

type replay struct {
	events []Event
	pos    int
}

// Replay returns a Source that yields events in order and then io.EOF.
// The slice is not copied.
func Replay(events []Event) Source {
	return &replay{events: events}
}

func (r *replay) Next() (Event, error) {
	if r.pos >= len(r.events) {
		return Event{}, io.EOF
	}
	ev := r.events[r.pos]
	r.pos++
	return ev, nil
}

// Collect drains src into a slice. It stops at io.EOF.
func Collect(src Source) ([]Event, error) {
	var out []Event
	for {
		ev, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
}

// Kinds returns the kind of each event.
func Kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}
