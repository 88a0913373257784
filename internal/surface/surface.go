// Package surface owns the raster a signature is drawn on.
package surface

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"SignaturePad/internal/state"

	"github.com/gogpu/gg"
)

var (
	ErrInvalidSize = errors.New("surface dimensions must be positive")
	ErrNotDataURI  = errors.New("not a png data uri")
)

const dataURIPrefix = "data:image/png;base64,"

// Baseline placement as fractions of the surface size.
const (
	BaselineY     = 0.7
	BaselineStart = 0.042
	BaselineEnd   = 0.958
)

// Style holds the colours and widths used to paint a surface.
type Style struct {
	Background    string
	Baseline      string
	BaselineWidth float64
	Ink           string
	InkWidth      float64
}

func DefaultStyle() Style {
	return Style{
		Background:    "#fff",
		Baseline:      "#3a87ad",
		BaselineWidth: 1,
		Ink:           "#444",
		InkWidth:      1.2,
	}
}

// Surface is a raster plus its 2D drawing context.
type Surface struct {
	dc    *gg.Context
	style Style
}

// New creates a w x h surface painted with the background and the
// signature baseline, ready for ink.
func New(w, h int, style Style) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	s := &Surface{dc: gg.NewContext(w, h), style: style}
	if err := s.paintBackground(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) paintBackground() error {
	w, h := float64(s.dc.Width()), float64(s.dc.Height())

	s.dc.SetHexColor(s.style.Background)
	s.dc.DrawRectangle(0, 0, w, h)
	if err := s.dc.Fill(); err != nil {
		return fmt.Errorf("fill background: %w", err)
	}

	s.dc.SetHexColor(s.style.Baseline)
	s.dc.SetLineWidth(s.style.BaselineWidth)
	s.dc.MoveTo(w*BaselineStart, h*BaselineY)
	s.dc.LineTo(w*BaselineEnd, h*BaselineY)
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke baseline: %w", err)
	}

	s.applyInk()
	return nil
}

func (s *Surface) applyInk() {
	s.dc.SetHexColor(s.style.Ink)
	s.dc.SetLineWidth(s.style.InkWidth)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
}

// SetInk changes the colour and width of strokes drawn from now on.
func (s *Surface) SetInk(hex string, width float64) {
	s.style.Ink = hex
	s.style.InkWidth = width
	s.applyInk()
}

func (s *Surface) Style() Style { return s.style }

func (s *Surface) Size() (w, h int) {
	return s.dc.Width(), s.dc.Height()
}

// Resize sets new raster dimensions. Drawn ink is discarded; the
// background and baseline are repainted at the new size.
func (s *Surface) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if cw, ch := s.Size(); cw == w && ch == h {
		s.dc.Clear()
		s.dc.ClearPath()
	} else if err := s.dc.Resize(w, h); err != nil {
		return err
	}
	return s.paintBackground()
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() {
	s.dc.ClearPath()
}

func (s *Surface) MoveTo(p state.Point) {
	s.dc.MoveTo(p.X, p.Y)
}

func (s *Surface) QuadTo(ctrl, to state.Point) {
	s.dc.QuadraticTo(ctrl.X, ctrl.Y, to.X, to.Y)
}

// Stroke paints the current path with the ink style and clears it.
func (s *Surface) Stroke() error {
	return s.dc.Stroke()
}

func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI encodes the raster as a PNG data URI.
func (s *Surface) DataURI() (string, error) {
	data, err := s.PNG()
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI returns the PNG bytes of a URI produced by DataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDataURI, err)
	}
	return data, nil
}

func (s *Surface) Close() error {
	return s.dc.Close()
}
