package state

import (
	"errors"
	"fmt"
)

var ErrMalformedLog = errors.New("malformed point log")

// Decode splits a point log back into strokes. Raw samples are recovered
// from the logged midpoints: each midpoint is the mean of two consecutive
// samples, so sample k is 2*mid_k - sample(k-1). A trailing stroke with no
// end marker is returned with Open set.
func Decode(log PointLog) ([]Stroke, error) {
	var (
		strokes []Stroke
		cur     *Stroke
		pending []float64
		pairs   int
	)

	for i, e := range log {
		if e.IsMarker() {
			switch e.Marker {
			case MarkStart:
				if cur != nil {
					return nil, fmt.Errorf("%w: start at %d inside open stroke", ErrMalformedLog, i)
				}
				strokes = append(strokes, Stroke{Open: true})
				cur = &strokes[len(strokes)-1]
				pairs = 0
			case MarkEnd:
				if cur == nil {
					return nil, fmt.Errorf("%w: end at %d without start", ErrMalformedLog, i)
				}
				if len(pending) != 0 || pairs == 0 {
					return nil, fmt.Errorf("%w: incomplete stroke at %d", ErrMalformedLog, i)
				}
				cur.Open = false
				cur = nil
			default:
				return nil, fmt.Errorf("%w: unknown marker %q", ErrMalformedLog, e.Marker)
			}
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("%w: coordinate at %d outside stroke", ErrMalformedLog, i)
		}
		pending = append(pending, e.Value)
		if len(pending) < 2 {
			continue
		}
		p := Point{X: pending[0], Y: pending[1]}
		pending = pending[:0]
		pairs++

		// pair 1 is the down sample, pair 2 the first midpoint, then smoothed/midpoint alternate
		switch {
		case pairs == 1:
			cur.Points = append(cur.Points, p)
		case pairs%2 == 0:
			prev := cur.Points[len(cur.Points)-1]
			cur.Points = append(cur.Points, Point{X: 2*p.X - prev.X, Y: 2*p.Y - prev.Y})
		default:
			cur.Trace = append(cur.Trace, p)
		}
	}

	if len(pending) != 0 {
		return nil, fmt.Errorf("%w: dangling coordinate", ErrMalformedLog)
	}
	return strokes, nil
}
