package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"SignaturePad/internal/state"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMarginMM = 20.0
	pxPerMM      = 96 / 25.4
	imageName    = "signature"
)

// PDFOptions controls the page the signature is placed on.
type PDFOptions struct {
	Title    string
	Signer   string
	SignedAt time.Time
	// MaxWidthMM caps the printed signature width; 0 uses the printable width.
	MaxWidthMM float64
}

// WritePDF writes a single A4 page with the signature raster above a
// signature line and caption. When crop is not empty only that part of the
// raster is placed.
func WritePDF(w io.Writer, pngData []byte, crop state.Rect, opts PDFOptions) error {
	if !crop.Empty() {
		cropped, err := Crop(pngData, crop)
		if err != nil {
			return err
		}
		pngData = cropped
	}
	cfg, err := decodeConfig(pngData)
	if err != nil {
		return err
	}

	p := gofpdf.New("P", "mm", "A4", "")
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}
	p.SetCreator("SignaturePad", true)
	p.AddPage()

	pageW, _ := p.GetPageSize()
	maxW := pageW - 2*pageMarginMM
	if opts.MaxWidthMM > 0 && opts.MaxWidthMM < maxW {
		maxW = opts.MaxWidthMM
	}
	imgW := float64(cfg.Width) / pxPerMM
	imgH := float64(cfg.Height) / pxPerMM
	if imgW > maxW {
		imgH *= maxW / imgW
		imgW = maxW
	}

	y := pageMarginMM
	if opts.Title != "" {
		p.SetFont("Helvetica", "B", 14)
		p.Text(pageMarginMM, y, opts.Title)
		y += 8
	}

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(imageName, imgOpts, bytes.NewReader(pngData))
	p.ImageOptions(imageName, pageMarginMM, y, imgW, imgH, false, imgOpts, 0, "")
	y += imgH + 2

	p.SetDrawColor(0x3a, 0x87, 0xad)
	p.SetLineWidth(0.3)
	p.Line(pageMarginMM, y, pageMarginMM+imgW, y)

	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(0x44, 0x44, 0x44)
	p.Text(pageMarginMM, y+5, caption(opts))

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func caption(opts PDFOptions) string {
	at := opts.SignedAt
	if at.IsZero() {
		at = time.Now()
	}
	if opts.Signer == "" {
		return "Signed " + at.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("Signed by %s, %s", opts.Signer, at.Format("2006-01-02 15:04:05"))
}
