package event

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

const (
	IDJumped byte = iota
	IDLanded
	IDMounted
	IDDismounted
	IDPlayerHit
	IDAdversaryHit
	IDAdversaryDied
	IDAdversaryState
	IDProjectilesFired
	IDCameraMode
	IDBoltFired
)

var names = map[byte]string{
	IDJumped:           "jumped",
	IDLanded:           "landed",
	IDMounted:          "mounted",
	IDDismounted:       "dismounted",
	IDPlayerHit:        "player_hit",
	IDAdversaryHit:     "adversary_hit",
	IDAdversaryDied:    "adversary_died",
	IDAdversaryState:   "adversary_state",
	IDProjectilesFired: "projectiles_fired",
	IDCameraMode:       "camera_mode",
	IDBoltFired:        "bolt_fired",
}

// Event is a discrete occurrence in the simulation that audio, animation and UI collaborators
// may react to.
type Event interface {
	ID() byte
	// Details returns the payload of the event in a stable order.
	Details() *orderedmap.OrderedMap[string, any]
}

// Name returns the name of the event passed.
func Name(ev Event) string {
	if n, ok := names[ev.ID()]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", ev.ID())
}

// String formats an event with its details for logging.
func String(ev Event) string {
	var sb strings.Builder
	sb.WriteString(Name(ev))
	sb.WriteByte(' ')
	writeDetails(&sb, ev.Details())
	return sb.String()
}

// writeDetails writes the details passed as a bracketed list of key=value pairs.
func writeDetails(sb *strings.Builder, data *orderedmap.OrderedMap[string, any]) {
	sb.WriteByte('[')
	for el := data.Front(); el != nil; el = el.Next() {
		if el != data.Front() {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%s=%v", el.Key, el.Value)
	}
	sb.WriteByte(']')
}

func details(kv ...any) *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return m
}
