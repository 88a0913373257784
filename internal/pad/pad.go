// Package pad is the signature capture component: it owns one surface,
// one stroke session and the pointer handlers that connect them.
package pad

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"SignaturePad/internal/input"
	"SignaturePad/internal/state"
	"SignaturePad/internal/surface"
)

var ErrDetached = errors.New("pad is not attached")

// Host is the container a pad's surface lives in.
type Host interface {
	// ContentSize is the container's content box in pixels.
	ContentSize() (w, h int)
	// Origin is the surface's offset from the page, used for touch input.
	Origin() state.Point
	// Mount adds the surface as the container's drawing child; events for it
	// must be delivered through d.
	Mount(s *surface.Surface, d *input.Dispatcher)
	Unmount(s *surface.Surface)
	// Invalidate asks the container to repaint the surface.
	Invalidate()
}

// Pad is a signature pad. The zero value is not usable; call New.
type Pad struct {
	// OnLocalOp receives every change made through local input or the public
	// operations. It is called without the pad lock held.
	OnLocalOp func(state.Op)

	mu      sync.Mutex
	host    Host
	surf    *surface.Surface
	session *state.Session
	events  *input.Dispatcher
	style   surface.Style
	clock   *state.Clock
	log     *slog.Logger
	// inkFrom is the session step count at the last Resize; ink drawn
	// before it is gone from the raster.
	inkFrom int
}

var _ input.Handler = (*Pad)(nil)

func New(style surface.Style) *Pad {
	return &Pad{
		style:   style,
		session: state.NewSession(),
		clock:   state.NewClock(),
		log:     slog.Default().With("component", "pad"),
	}
}

// Attach creates a surface sized to host, resets the session, paints the
// background and baseline, and starts listening for pointer-down.
func (p *Pad) Attach(host Host) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.host != nil {
		p.detachLocked()
	}
	w, h := host.ContentSize()
	return p.attachLocked(host, w, h)
}

func (p *Pad) attachLocked(host Host, w, h int) error {
	surf, err := surface.New(w, h, p.style)
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	p.host = host
	p.surf = surf
	p.session = state.NewSession()
	p.inkFrom = 0
	p.events = input.NewDispatcher(host.Origin)
	p.events.Listen(input.ScopeSurface, input.Start, p)
	host.Mount(surf, p.events)
	p.log.Debug("attached", "session", p.session.ID, "width", w, "height", h)
	return nil
}

// Detach removes the surface from its container.
func (p *Pad) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detachLocked()
}

func (p *Pad) detachLocked() {
	if p.surf == nil {
		return
	}
	p.events.Reset()
	p.host.Unmount(p.surf)
	if err := p.surf.Close(); err != nil {
		p.log.Warn("closing surface", "error", err)
	}
	p.log.Debug("detached", "session", p.session.ID)
	p.surf = nil
	p.host = nil
}

// Clear replaces the surface with a fresh one: all ink is erased, the
// baseline restored and both flags reset.
func (p *Pad) Clear() error {
	p.mu.Lock()
	host := p.host
	if host == nil {
		p.mu.Unlock()
		return ErrDetached
	}
	p.detachLocked()
	w, h := host.ContentSize()
	err := p.attachLocked(host, w, h)
	op := p.clock.Stamp(state.Op{Type: state.OpClear, Width: w, Height: h})
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.emit(op)
	host.Invalidate()
	return nil
}

// Resize matches the raster to the container's content box. Drawn ink is
// not kept; the background and baseline are repainted. The point log and
// flags are untouched and an open stroke continues on the new raster.
func (p *Pad) Resize() error {
	p.mu.Lock()
	if p.surf == nil {
		p.mu.Unlock()
		return ErrDetached
	}
	host := p.host
	w, h := host.ContentSize()
	err := p.resizeLocked(w, h)
	op := p.clock.Stamp(state.Op{Type: state.OpResize, Width: w, Height: h})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	p.emit(op)
	host.Invalidate()
	return nil
}

func (p *Pad) resizeLocked(w, h int) error {
	if err := p.surf.Resize(w, h); err != nil {
		return err
	}
	p.inkFrom = p.session.Steps()
	p.restorePenLocked()
	return nil
}

// Snapshot returns the surface contents as a PNG data URI.
func (p *Pad) Snapshot() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surf == nil {
		return "", ErrDetached
	}
	return p.surf.DataURI()
}

// PNG returns the encoded surface contents.
func (p *Pad) PNG() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surf == nil {
		return nil, ErrDetached
	}
	return p.surf.PNG()
}

// IsEmpty is true until the first pointer-down after attach or clear.
func (p *Pad) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Empty()
}

// SaveDisabled is true until a stroke has been completed.
func (p *Pad) SaveDisabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.SaveDisabled()
}

func (p *Pad) Phase() state.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Phase()
}

func (p *Pad) PointLog() state.PointLog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.Log()
}

// Size is the surface's current raster size.
func (p *Pad) Size() (w, h int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surf == nil {
		return 0, 0, ErrDetached
	}
	w, h = p.surf.Size()
	return w, h, nil
}

// Bounds is the padded bounding box of all ink, clipped to the surface.
func (p *Pad) Bounds() (state.Rect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surf == nil {
		return state.Rect{}, ErrDetached
	}
	r, err := state.InkBounds(p.session.Log())
	if err != nil {
		return state.Rect{}, err
	}
	w, h := p.surf.Size()
	return r.Clip(float64(w), float64(h)), nil
}

// SetInk changes the pen for later strokes, including after Clear.
func (p *Pad) SetInk(hex string, width float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.style.Ink = hex
	p.style.InkWidth = width
	if p.surf != nil {
		p.surf.SetInk(hex, width)
	}
}

// emit hands an op stamped under the pad lock to OnLocalOp.
func (p *Pad) emit(op state.Op) {
	if p.OnLocalOp != nil {
		p.OnLocalOp(op)
	}
}
