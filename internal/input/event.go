// Package input turns device events into surface-local points and routes
// them to the stroke handler registered for each scope.
package input

import (
	"errors"

	"SignaturePad/internal/state"
)

var ErrNoCoordinates = errors.New("event carries no usable coordinates")

// Source names which field of an Event produced its coordinates.
type Source int

const (
	SourceNone Source = iota
	SourceTouch
	SourceLayer
	SourceOffset
)

func (s Source) String() string {
	switch s {
	case SourceTouch:
		return "touch"
	case SourceLayer:
		return "layer"
	case SourceOffset:
		return "offset"
	}
	return "none"
}

// Event is a device event as delivered by the toolkit. Any subset of the
// fields may be set; Resolve picks one.
type Event struct {
	// Touches holds page positions of the changed touch points.
	Touches []state.Point
	// Layer is a position relative to the receiving layer.
	Layer *state.Point
	// Offset is a position relative to the target's padding edge.
	Offset *state.Point
}

func TouchEvent(page ...state.Point) Event { return Event{Touches: page} }

func LayerEvent(p state.Point) Event { return Event{Layer: &p} }

func OffsetEvent(p state.Point) Event { return Event{Offset: &p} }

// Coord is a resolved surface-local coordinate.
type Coord struct {
	Source Source
	Point  state.Point
}

// Resolve returns surface-local coordinates for ev. The first touch point
// wins, minus origin (the surface's page offset); then the layer position;
// then the offset position. Layer and offset values are returned unchanged.
func Resolve(ev Event, origin state.Point) (Coord, error) {
	switch {
	case len(ev.Touches) > 0:
		t := ev.Touches[0]
		return Coord{Source: SourceTouch, Point: state.Point{X: t.X - origin.X, Y: t.Y - origin.Y}}, nil
	case ev.Layer != nil:
		return Coord{Source: SourceLayer, Point: *ev.Layer}, nil
	case ev.Offset != nil:
		return Coord{Source: SourceOffset, Point: *ev.Offset}, nil
	}
	return Coord{}, ErrNoCoordinates
}
