package ui

import (
	"SignaturePad/internal/input"
	"SignaturePad/internal/pad"
	"SignaturePad/internal/state"
	"SignaturePad/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Host is the Fyne container a pad draws into. Until the container has been
// laid out it reports the fallback size.
type Host struct {
	Container *fyne.Container
	// OnResize fires after layout gives the container a new size.
	OnResize func(fyne.Size)
	// ReadOnly mounts surfaces without wiring pointer input.
	ReadOnly bool

	fallback fyne.Size
	current  *SurfaceWidget
}

var _ pad.Host = (*Host)(nil)

func NewHost(fallback fyne.Size) *Host {
	h := &Host{fallback: fallback}
	h.Container = container.New(&hostLayout{host: h})
	return h
}

func (h *Host) size() fyne.Size {
	s := h.Container.Size()
	if s.Width < 1 || s.Height < 1 {
		return h.fallback
	}
	return s
}

func (h *Host) ContentSize() (int, int) {
	s := h.size()
	return int(s.Width), int(s.Height)
}

// Origin is the absolute position of the mounted surface widget.
func (h *Host) Origin() state.Point {
	if h.current == nil {
		return state.Point{}
	}
	app := fyne.CurrentApp()
	if app == nil {
		return state.Point{}
	}
	return toPoint(app.Driver().AbsolutePositionForObject(h.current))
}

func (h *Host) Mount(s *surface.Surface, d *input.Dispatcher) {
	if h.ReadOnly {
		d = nil
	}
	h.current = NewSurfaceWidget(s, d)
	h.Container.Add(h.current)
}

func (h *Host) Unmount(s *surface.Surface) {
	if h.current == nil || h.current.surf != s {
		return
	}
	h.Container.Remove(h.current)
	h.current = nil
}

func (h *Host) Invalidate() {
	if h.current != nil {
		h.current.Refresh()
	}
}

// Surface returns the mounted widget, or nil.
func (h *Host) Surface() *SurfaceWidget { return h.current }

// hostLayout fills the container with its children and reports size changes.
type hostLayout struct {
	host *Host
	last fyne.Size
}

func (l *hostLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	if size == l.last || size.Width < 1 || size.Height < 1 {
		return
	}
	l.last = size
	if l.host.OnResize != nil {
		l.host.OnResize(size)
	}
}

func (l *hostLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(100, 50)
}
