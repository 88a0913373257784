package state

import (
	"encoding/json"
	"fmt"
)

// Point is a surface-local coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mid returns the point halfway between p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Average3 is the unweighted mean of three points.
func Average3(a, b, c Point) Point {
	return Point{X: (a.X + b.X + c.X) / 3, Y: (a.Y + b.Y + c.Y) / 3}
}

// Marker tags a point log entry that is not a coordinate.
type Marker string

const (
	MarkStart Marker = "moveStart"
	MarkEnd   Marker = "e"
)

// Entry is one slot of the point log: either a marker or a single coordinate value.
type Entry struct {
	Marker Marker
	Value  float64
}

func (e Entry) IsMarker() bool { return e.Marker != "" }

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsMarker() {
		return json.Marshal(string(e.Marker))
	}
	return json.Marshal(e.Value)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Marker, e.Value = Marker(s), 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("point log entry %s: %w", data, err)
	}
	e.Marker, e.Value = "", v
	return nil
}

// PointLog is the flat replay log: per stroke a start marker, x/y pairs, and an end marker.
type PointLog []Entry

func (l *PointLog) mark(m Marker) {
	*l = append(*l, Entry{Marker: m})
}

func (l *PointLog) point(p Point) {
	*l = append(*l, Entry{Value: p.X}, Entry{Value: p.Y})
}

// Values flattens the log into markers (strings) and coordinates (float64).
func (l PointLog) Values() []any {
	out := make([]any, 0, len(l))
	for _, e := range l {
		if e.IsMarker() {
			out = append(out, string(e.Marker))
		} else {
			out = append(out, e.Value)
		}
	}
	return out
}

// Stroke is one pen-down to pen-up run, as recorded by a Session or
// recovered from a point log.
type Stroke struct {
	Points []Point `json:"points"` // raw input samples
	Trace  []Point `json:"trace"`  // smoothed-trace points
	Open   bool    `json:"open"`   // no end marker yet
}

type OpType string

const (
	OpStart  OpType = "start"
	OpMove   OpType = "move"
	OpEnd    OpType = "end"
	OpClear  OpType = "clear"
	OpResize OpType = "resize"
)

// Op is one pad mutation as seen by mirror viewers.
type Op struct {
	Type    OpType `json:"type"`
	Point   Point  `json:"point,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Lamport uint64 `json:"lamport"`
	Site    string `json:"site"`
}
