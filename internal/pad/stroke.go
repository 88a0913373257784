package pad

import (
	"fmt"

	"SignaturePad/internal/input"
	"SignaturePad/internal/state"
)

// OnStart handles pointer-down. A second contact while a stroke is open is
// rejected with state.ErrStrokeInProgress.
func (p *Pad) OnStart(pt state.Point) error {
	p.mu.Lock()
	err := p.startLocked(pt)
	host := p.host
	var op state.Op
	if err == nil {
		op = p.clock.Stamp(state.Op{Type: state.OpStart, Point: pt})
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.emit(op)
	host.Invalidate()
	return nil
}

func (p *Pad) startLocked(pt state.Point) error {
	if p.surf == nil {
		return ErrDetached
	}
	if err := p.session.Begin(pt); err != nil {
		return err
	}
	p.events.Listen(input.ScopeSurface, input.Move, p)
	p.events.Listen(input.ScopeSurface, input.End, p)
	p.events.Listen(input.ScopeDocument, input.End, p)

	p.surf.BeginPath()
	p.surf.MoveTo(pt)
	return nil
}

// OnMove extends the open stroke with a quadratic segment ending at the
// midpoint between the previous and the current sample.
func (p *Pad) OnMove(pt state.Point) error {
	p.mu.Lock()
	err := p.moveLocked(pt)
	host := p.host
	var op state.Op
	if err == nil {
		op = p.clock.Stamp(state.Op{Type: state.OpMove, Point: pt})
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.emit(op)
	host.Invalidate()
	return nil
}

func (p *Pad) moveLocked(pt state.Point) error {
	if p.surf == nil {
		return ErrDetached
	}
	seg, err := p.session.Preview(pt)
	if err != nil {
		return err
	}
	p.surf.QuadTo(seg.Ctrl, seg.To)
	if err := p.surf.Stroke(); err != nil {
		p.restorePenLocked()
		return fmt.Errorf("stroke segment: %w", err)
	}
	// only a drawn segment is recorded
	if _, err := p.session.Extend(pt); err != nil {
		return err
	}
	p.surf.BeginPath()
	p.surf.MoveTo(seg.To)
	return nil
}

// restorePenLocked restarts the surface path where the open stroke continues.
func (p *Pad) restorePenLocked() {
	p.surf.BeginPath()
	if pen, ok := p.session.Pen(); ok {
		p.surf.MoveTo(pen)
	}
}

// OnEnd closes the open stroke and stops listening for move and up.
func (p *Pad) OnEnd() error {
	p.mu.Lock()
	err := p.endLocked()
	host := p.host
	var op state.Op
	if err == nil {
		op = p.clock.Stamp(state.Op{Type: state.OpEnd})
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.emit(op)
	host.Invalidate()
	return nil
}

func (p *Pad) endLocked() error {
	if p.surf == nil {
		return ErrDetached
	}
	p.events.Unlisten(input.ScopeSurface, input.Move, p)
	p.events.Unlisten(input.ScopeSurface, input.End, p)
	p.events.Unlisten(input.ScopeDocument, input.End, p)

	if err := p.session.Finish(); err != nil {
		return err
	}
	if err := p.surf.Stroke(); err != nil {
		return fmt.Errorf("stroke: %w", err)
	}
	return nil
}
