package ui

import (
	"image/color"
	"log/slog"

	"SignaturePad/internal/input"
	"SignaturePad/internal/state"
	"SignaturePad/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// SurfaceWidget shows a pad surface and feeds pointer input to its dispatcher.
type SurfaceWidget struct {
	widget.BaseWidget
	surf   *surface.Surface
	events *input.Dispatcher
}

var _ fyne.Widget = (*SurfaceWidget)(nil)
var _ fyne.Draggable = (*SurfaceWidget)(nil)
var _ desktop.Mouseable = (*SurfaceWidget)(nil)
var _ mobile.Touchable = (*SurfaceWidget)(nil)

func NewSurfaceWidget(s *surface.Surface, d *input.Dispatcher) *SurfaceWidget {
	w := &SurfaceWidget{surf: s, events: d}
	w.ExtendBaseWidget(w)
	return w
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (w *SurfaceWidget) dispatch(scope input.Scope, kind input.Kind, ev input.Event) {
	if w.events == nil {
		return
	}
	if _, err := w.events.Dispatch(scope, kind, ev); err != nil {
		slog.Debug("input dropped", "component", "ui", "scope", scope, "kind", kind, "error", err)
	}
}

func (w *SurfaceWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.dispatch(input.ScopeSurface, input.Start, input.OffsetEvent(toPoint(e.Position)))
}

func (w *SurfaceWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.dispatch(input.ScopeSurface, input.End, input.OffsetEvent(toPoint(e.Position)))
}

// Dragged carries moves while a button or finger is down, positioned
// relative to this widget.
func (w *SurfaceWidget) Dragged(e *fyne.DragEvent) {
	w.dispatch(input.ScopeSurface, input.Move, input.LayerEvent(toPoint(e.Position)))
}

// DragEnd is delivered even when the pointer was released outside the
// widget, so it stands in for a document-wide release.
func (w *SurfaceWidget) DragEnd() {
	w.dispatch(input.ScopeDocument, input.End, input.Event{})
}

func (w *SurfaceWidget) TouchDown(e *mobile.TouchEvent) {
	w.dispatch(input.ScopeSurface, input.Start, input.TouchEvent(toPoint(e.AbsolutePosition)))
}

func (w *SurfaceWidget) TouchUp(e *mobile.TouchEvent) {
	w.dispatch(input.ScopeSurface, input.End, input.TouchEvent(toPoint(e.AbsolutePosition)))
}

func (w *SurfaceWidget) TouchCancel(*mobile.TouchEvent) {
	w.dispatch(input.ScopeDocument, input.End, input.Event{})
}

func (w *SurfaceWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(w.surf.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 200}
	border.StrokeWidth = 1
	return &surfaceRenderer{w: w, image: img, border: border}
}

type surfaceRenderer struct {
	w      *SurfaceWidget
	image  *canvas.Image
	border *canvas.Rectangle
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.image.Resize(size)
	r.border.Resize(size)
}

func (r *surfaceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(50, 30)
}

func (r *surfaceRenderer) Refresh() {
	r.image.Image = r.w.surf.Image()
	r.image.Refresh()
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image, r.border}
}

func (r *surfaceRenderer) Destroy() {}
