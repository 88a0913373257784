package input

import (
	"fmt"
	"log/slog"

	"SignaturePad/internal/state"
)

// Handler is the capability set a stroke consumer exposes.
type Handler interface {
	OnStart(p state.Point) error
	OnMove(p state.Point) error
	OnEnd() error
}

// Kind is the phase of a pointer event.
type Kind int

const (
	Start Kind = iota
	Move
	End
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Move:
		return "move"
	}
	return "end"
}

// Scope is where a listener is attached. Document listeners see events
// that end outside the surface.
type Scope int

const (
	ScopeSurface Scope = iota
	ScopeDocument
)

func (s Scope) String() string {
	if s == ScopeDocument {
		return "document"
	}
	return "surface"
}

type slot struct {
	scope Scope
	kind  Kind
}

// Dispatcher keeps at most one listener per scope and kind. It is driven
// from the UI thread only.
type Dispatcher struct {
	origin    func() state.Point
	listeners map[slot]Handler
}

// NewDispatcher takes a function reporting the surface's page offset, used
// to localise touch coordinates. A nil origin means (0,0).
func NewDispatcher(origin func() state.Point) *Dispatcher {
	if origin == nil {
		origin = func() state.Point { return state.Point{} }
	}
	return &Dispatcher{origin: origin, listeners: make(map[slot]Handler)}
}

func (d *Dispatcher) Listen(scope Scope, kind Kind, h Handler) {
	d.listeners[slot{scope, kind}] = h
}

// Unlisten removes h; a different handler in the same slot is left alone.
func (d *Dispatcher) Unlisten(scope Scope, kind Kind, h Handler) {
	k := slot{scope, kind}
	if d.listeners[k] == h {
		delete(d.listeners, k)
	}
}

func (d *Dispatcher) Listening(scope Scope, kind Kind) bool {
	_, ok := d.listeners[slot{scope, kind}]
	return ok
}

// Reset drops every listener.
func (d *Dispatcher) Reset() {
	clear(d.listeners)
}

// Dispatch delivers ev to the listener for scope and kind. Events without a
// listener are dropped and report false.
func (d *Dispatcher) Dispatch(scope Scope, kind Kind, ev Event) (bool, error) {
	h, ok := d.listeners[slot{scope, kind}]
	if !ok {
		return false, nil
	}
	if kind == End {
		return true, h.OnEnd()
	}

	c, err := Resolve(ev, d.origin())
	if err != nil {
		return true, fmt.Errorf("%s %s: %w", scope, kind, err)
	}
	slog.Debug("pointer", "component", "input", "scope", scope, "kind", kind, "source", c.Source, "x", c.Point.X, "y", c.Point.Y)
	if kind == Start {
		return true, h.OnStart(c.Point)
	}
	return true, h.OnMove(c.Point)
}
