package ui

import (
	"fmt"
	"log/slog"

	"SignaturePad/internal/config"
	"SignaturePad/internal/pad"
	"SignaturePad/internal/state"
	"SignaturePad/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Window is a pad window: the signature surface under a toolbar.
type Window struct {
	fyne.Window
	Pad     *pad.Pad
	Host    *Host
	Toolbar *Toolbar

	// Publish receives every local op after the toolbar has been synced.
	Publish func(state.Op)
}

// NewWindow builds a pad window from cfg. A read-only window ignores
// pointer input and keeps whatever size its mirror source dictates.
func NewWindow(a fyne.App, title string, cfg *config.Config, readOnly bool) (*Window, error) {
	style := surface.DefaultStyle()
	style.Ink = cfg.Ink
	style.InkWidth = cfg.InkWidth

	size := fyne.NewSize(float32(cfg.Width), float32(cfg.Height))
	w := &Window{
		Window: a.NewWindow(title),
		Pad:    pad.New(style),
		Host:   NewHost(size),
	}
	w.Host.ReadOnly = readOnly
	w.Toolbar = NewToolbar(w.Pad, w.Window, ToolbarOptions{
		Signer:   cfg.Signer,
		Ink:      cfg.Ink,
		InkWidth: cfg.InkWidth,
		OutDir:   cfg.OutDir,
		ReadOnly: readOnly,
	})
	w.Pad.OnLocalOp = w.localOp

	if err := w.Pad.Attach(w.Host); err != nil {
		return nil, fmt.Errorf("attach pad: %w", err)
	}
	if !readOnly {
		// resizing the surface loses its pixels, so start over at the new size
		w.Host.OnResize = func(fyne.Size) {
			fyne.Do(func() {
				if err := w.Pad.Clear(); err != nil {
					slog.Error("clear after resize", "component", "ui", "error", err)
				}
				w.Toolbar.Sync()
			})
		}
	}

	content := container.NewBorder(w.Toolbar.Object(), nil, nil, nil, w.Host.Container)
	w.SetContent(content)
	w.Resize(fyne.NewSize(size.Width, size.Height+48))
	w.SetOnClosed(w.Pad.Detach)
	return w, nil
}

func (w *Window) localOp(op state.Op) {
	w.Toolbar.Sync()
	if w.Publish != nil {
		w.Publish(op)
	}
}

// SetStatus may be called from any goroutine.
func (w *Window) SetStatus(text string) {
	fyne.Do(func() { w.Toolbar.SetStatus(text) })
}
