package state

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrStrokeInProgress = errors.New("stroke already in progress")
	ErrNotStroking      = errors.New("no stroke in progress")
)

// Phase is the input state of a session.
type Phase int

const (
	Idle Phase = iota
	Stroking
)

func (p Phase) String() string {
	if p == Stroking {
		return "stroking"
	}
	return "idle"
}

// Segment is the curve to render for one move sample: a quadratic from the
// current path position through Ctrl to To.
type Segment struct {
	Ctrl Point
	To   Point
	// Smoothed is the trace point logged for this sample; valid when HasSmoothed.
	Smoothed    Point
	HasSmoothed bool
}

// Session is the transient state of the strokes drawn on one surface.
type Session struct {
	ID string

	empty        bool
	saveDisabled bool
	log          PointLog
	// strokes holds the raw samples behind log.
	strokes []Stroke
	steps   int

	last    Point
	lastMid Point
	primed  bool
	phase   Phase
}

func NewSession() *Session {
	return &Session{
		ID:           uuid.NewString(),
		empty:        true,
		saveDisabled: true,
	}
}

func (s *Session) Empty() bool        { return s.empty }
func (s *Session) SaveDisabled() bool { return s.saveDisabled }
func (s *Session) Phase() Phase       { return s.phase }
func (s *Session) Primed() bool       { return s.primed }

// LastPoint is the most recent raw sample; ok is false before the first stroke.
func (s *Session) LastPoint() (p Point, ok bool) {
	return s.last, !s.empty
}

// LastMidpoint is only defined once smoothing is primed.
func (s *Session) LastMidpoint() (p Point, ok bool) {
	if !s.primed {
		return Point{}, false
	}
	return s.lastMid, true
}

// Pen is where the open stroke's path continues from: the last midpoint
// once primed, else the down sample.
func (s *Session) Pen() (p Point, ok bool) {
	if s.phase != Stroking {
		return Point{}, false
	}
	if s.primed {
		return s.lastMid, true
	}
	return s.last, true
}

// Steps counts accepted Begin, Extend and Finish calls.
func (s *Session) Steps() int { return s.steps }

// Strokes returns a copy of the raw samples of every stroke.
func (s *Session) Strokes() []Stroke {
	out := make([]Stroke, len(s.strokes))
	for i, st := range s.strokes {
		out[i] = Stroke{
			Points: append([]Point(nil), st.Points...),
			Trace:  append([]Point(nil), st.Trace...),
			Open:   st.Open,
		}
	}
	return out
}

// Log returns a copy of the point log.
func (s *Session) Log() PointLog {
	out := make(PointLog, len(s.log))
	copy(out, s.log)
	return out
}

// Begin opens a stroke at p.
func (s *Session) Begin(p Point) error {
	if s.phase == Stroking {
		return ErrStrokeInProgress
	}
	s.phase = Stroking
	s.empty = false
	s.log.mark(MarkStart)
	s.log.point(p)
	s.strokes = append(s.strokes, Stroke{Points: []Point{p}, Open: true})
	s.steps++
	s.last = p
	s.primed = false
	return nil
}

// Preview returns the segment Extend(p) would draw without recording p.
func (s *Session) Preview(p Point) (Segment, error) {
	if s.phase != Stroking {
		return Segment{}, ErrNotStroking
	}
	mid := s.last.Mid(p)
	seg := Segment{Ctrl: s.last, To: mid}
	if s.primed {
		seg.Smoothed = Average3(s.lastMid, s.last, mid)
		seg.HasSmoothed = true
	}
	return seg, nil
}

// Extend records the sample p and returns the curve segment to draw.
func (s *Session) Extend(p Point) (Segment, error) {
	seg, err := s.Preview(p)
	if err != nil {
		return Segment{}, err
	}
	cur := &s.strokes[len(s.strokes)-1]
	if seg.HasSmoothed {
		s.log.point(seg.Smoothed)
		cur.Trace = append(cur.Trace, seg.Smoothed)
	}
	s.primed = true

	s.log.point(seg.To)
	cur.Points = append(cur.Points, p)
	s.steps++
	s.lastMid = seg.To
	s.last = p
	return seg, nil
}

// Finish closes the open stroke.
func (s *Session) Finish() error {
	if s.phase != Stroking {
		return ErrNotStroking
	}
	s.phase = Idle
	s.saveDisabled = false
	s.log.mark(MarkEnd)
	s.strokes[len(s.strokes)-1].Open = false
	s.steps++
	s.primed = false
	return nil
}
