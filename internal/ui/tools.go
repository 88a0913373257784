package ui

import (
	"bytes"
	"image/color"
	"log/slog"
	"time"

	"SignaturePad/internal/export"
	"SignaturePad/internal/pad"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"
)

// inkColors are the swatches offered in the toolbar.
var inkColors = []string{"#444", "#000", "#1a3c8c", "#8c1a1a"}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(gg.Hex(s.Hex).Color())
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

type ToolbarOptions struct {
	Signer   string
	Ink      string
	InkWidth float64
	OutDir   string
	// ReadOnly hides Clear and the ink controls, for mirror viewers.
	ReadOnly bool
}

// Toolbar holds the pad controls. Call Sync after the pad changes so
// the save actions follow SaveDisabled.
type Toolbar struct {
	Clear, SavePNG, ExportPDF *widget.Button
	Status                    *widget.Label

	pad    *pad.Pad
	window fyne.Window
	opts   ToolbarOptions
}

func NewToolbar(p *pad.Pad, w fyne.Window, opts ToolbarOptions) *Toolbar {
	t := &Toolbar{pad: p, window: w, opts: opts, Status: widget.NewLabel("Ready")}
	t.Clear = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), t.clear)
	t.SavePNG = widget.NewButtonWithIcon("Save PNG", theme.DocumentSaveIcon(), func() { t.save("png") })
	t.ExportPDF = widget.NewButtonWithIcon("Export PDF", theme.DocumentPrintIcon(), func() { t.save("pdf") })
	t.Sync()
	return t
}

// Object lays the controls out in a single row.
func (t *Toolbar) Object() fyne.CanvasObject {
	if t.opts.ReadOnly {
		return container.NewHBox(t.SavePNG, t.ExportPDF, layout.NewSpacer(), t.Status)
	}

	onColor := func(hex string) {
		t.opts.Ink = hex
		t.pad.SetInk(t.opts.Ink, t.opts.InkWidth)
	}
	swatches := container.NewHBox()
	for _, hex := range inkColors {
		swatches.Add(newColorSwatch(hex, onColor))
	}

	slider := widget.NewSlider(0.5, 8)
	slider.Step = 0.1
	slider.SetValue(t.opts.InkWidth)
	slider.OnChanged = func(v float64) {
		t.opts.InkWidth = v
		t.pad.SetInk(t.opts.Ink, t.opts.InkWidth)
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), slider)

	return container.NewHBox(
		t.Clear, t.SavePNG, t.ExportPDF,
		widget.NewSeparator(),
		widget.NewLabel("Ink:"), swatches,
		widget.NewLabel("Width:"), sliderBox,
		layout.NewSpacer(),
		t.Status,
	)
}

// Sync enables the save actions once a stroke has been completed.
func (t *Toolbar) Sync() {
	if t.pad.SaveDisabled() {
		t.SavePNG.Disable()
		t.ExportPDF.Disable()
	} else {
		t.SavePNG.Enable()
		t.ExportPDF.Enable()
	}
}

func (t *Toolbar) SetStatus(text string) {
	t.Status.SetText(text)
}

func (t *Toolbar) clear() {
	if err := t.pad.Clear(); err != nil {
		slog.Error("clear failed", "component", "ui", "error", err)
		t.SetStatus("Clear failed")
		return
	}
	t.Sync()
	t.SetStatus("Cleared")
}

func (t *Toolbar) save(ext string) {
	if t.pad.SaveDisabled() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.window)
			return
		}
		if writer == nil {
			return
		}
		t.SaveTo(writer, ext)
	}, t.window)
	d.SetFileName(export.Filename("", ext, time.Now()))
	d.SetFilter(storage.NewExtensionFileFilter([]string{"." + ext}))
	if t.opts.OutDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(t.opts.OutDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.Show()
}

// SaveTo writes the signature as png or pdf and closes writer.
func (t *Toolbar) SaveTo(writer fyne.URIWriteCloser, ext string) {
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Warn("closing writer", "component", "ui", "error", err)
		}
	}()

	data, err := t.Render(ext)
	if err != nil {
		slog.Error("render signature", "component", "ui", "format", ext, "error", err)
		t.SetStatus("Error saving signature")
		return
	}
	if _, err := writer.Write(data); err != nil {
		slog.Error("write signature", "component", "ui", "uri", writer.URI().String(), "error", err)
		t.SetStatus("Error writing file")
		return
	}
	slog.Info("signature saved", "component", "ui", "uri", writer.URI().String(), "bytes", len(data))
	t.SetStatus("Saved " + writer.URI().Name())
}

// Render encodes the current signature as png or pdf.
func (t *Toolbar) Render(ext string) ([]byte, error) {
	png, err := t.pad.PNG()
	if err != nil {
		return nil, err
	}
	if ext == "png" {
		return png, nil
	}
	crop, err := t.pad.Bounds()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = export.WritePDF(&buf, png, crop, export.PDFOptions{
		Title:    "Signature",
		Signer:   t.opts.Signer,
		SignedAt: time.Now(),
	})
	return buf.Bytes(), err
}
