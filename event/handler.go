package event

// Handler receives simulation events. Handlers are called synchronously from the frame loop and
// must not block.
type Handler interface {
	HandleEvent(ev Event)
}

// NopHandler drops every event.
type NopHandler struct{}

func (NopHandler) HandleEvent(Event) {}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleEvent(ev Event) { f(ev) }

// Multi fans each event out to every handler passed, in order.
type Multi []Handler

func (m Multi) HandleEvent(ev Event) {
	for _, h := range m {
		h.HandleEvent(ev)
	}
}

// Recorder keeps every event it receives.
type Recorder struct {
	Events []Event
}

func (r *Recorder) HandleEvent(ev Event) {
	r.Events = append(r.Events, ev)
}

// Count returns how many recorded events have the ID passed.
func (r *Recorder) Count(id byte) int {
	n := 0
	for _, ev := range r.Events {
		if ev.ID() == id {
			n++
		}
	}
	return n
}
