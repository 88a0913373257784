package pad

import (
	"fmt"

	"SignaturePad/internal/state"
)

// Sync is the state a mirror viewer needs to catch up with this pad.
type Sync struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Log    state.PointLog `json:"log"`
	// Strokes carries the raw samples so replay does not depend on
	// recovering them from Log. Optional; Log is decoded when absent.
	Strokes []state.Stroke `json:"strokes,omitempty"`
	// InkFrom is the number of replay steps whose ink a Resize discarded.
	InkFrom int    `json:"inkFrom,omitempty"`
	Lamport uint64 `json:"lamport"`
}

// SyncState captures the raster size, point log and raw strokes.
func (p *Pad) SyncState() (Sync, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surf == nil {
		return Sync{}, ErrDetached
	}
	w, h := p.surf.Size()
	return Sync{
		Width:   w,
		Height:  h,
		Log:     p.session.Log(),
		Strokes: p.session.Strokes(),
		InkFrom: p.inkFrom,
		Lamport: p.clock.Now(),
	}, nil
}

// Restore rebuilds the surface at the synced size and redraws the synced
// strokes, wiping the raster again where the origin pad was resized.
// Local flags end up as they were on the origin pad.
func (p *Pad) Restore(s Sync) error {
	strokes := s.Strokes
	if strokes == nil {
		var err error
		if strokes, err = state.Decode(s.Log); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}

	p.mu.Lock()
	host := p.host
	if host == nil {
		p.mu.Unlock()
		return ErrDetached
	}
	p.detachLocked()
	if err := p.attachLocked(host, s.Width, s.Height); err != nil {
		p.mu.Unlock()
		return err
	}
	p.clock.Observe(s.Lamport)
	err := p.replayLocked(strokes, s.InkFrom)
	p.mu.Unlock()

	host.Invalidate()
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// replayLocked feeds strokes through the input handlers. Once inkFrom
// steps have been replayed the raster is wiped in place, as Resize did.
func (p *Pad) replayLocked(strokes []state.Stroke, inkFrom int) error {
	wiped := inkFrom <= 0
	step := func(f func() error) error {
		if !wiped && p.session.Steps() >= inkFrom {
			w, h := p.surf.Size()
			if err := p.resizeLocked(w, h); err != nil {
				return err
			}
			wiped = true
		}
		return f()
	}

	for _, st := range strokes {
		if len(st.Points) == 0 {
			continue
		}
		first := st.Points[0]
		if err := step(func() error { return p.startLocked(first) }); err != nil {
			return err
		}
		for _, pt := range st.Points[1:] {
			if err := step(func() error { return p.moveLocked(pt) }); err != nil {
				return err
			}
		}
		if !st.Open {
			if err := step(p.endLocked); err != nil {
				return err
			}
		}
	}
	if !wiped {
		return step(func() error { return nil })
	}
	return nil
}

// Apply replays one op received from another pad. Nothing is emitted.
func (p *Pad) Apply(op state.Op) error {
	p.mu.Lock()
	host := p.host
	if host == nil {
		p.mu.Unlock()
		return ErrDetached
	}
	p.clock.Observe(op.Lamport)

	var err error
	switch op.Type {
	case state.OpStart:
		err = p.startLocked(op.Point)
	case state.OpMove:
		err = p.moveLocked(op.Point)
	case state.OpEnd:
		err = p.endLocked()
	case state.OpClear:
		p.detachLocked()
		err = p.attachLocked(host, op.Width, op.Height)
	case state.OpResize:
		err = p.resizeLocked(op.Width, op.Height)
	default:
		err = fmt.Errorf("unknown op %q", op.Type)
	}
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("apply %s: %w", op.Type, err)
	}
	host.Invalidate()
	return nil
}
