package events

import "vaultrewards/core/types"

// Event represents a structured state change emitted by the reward ledger.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Recorder keeps every emitted event in order.
type Recorder struct {
	Events []*types.Event
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(evt Event) {
	if r == nil || evt == nil {
		return
	}
	r.Events = append(r.Events, evt.Event())
}

// OfType returns the recorded events with the supplied type.
func (r *Recorder) OfType(kind string) []*types.Event {
	if r == nil {
		return nil
	}
	var out []*types.Event
	for _, evt := range r.Events {
		if evt.Type == kind {
			out = append(out, evt)
		}
	}
	return out
}
