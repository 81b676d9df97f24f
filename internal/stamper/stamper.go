// Package stamper embeds a captured signature image and a date string
// into an existing PDF and re-serializes it.
package stamper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/signpost-app/signpost/internal/position"
)

// The signature image is scaled down uniformly to fit this box and is
// never upscaled.
const (
	maxSignatureWidth  = 200
	maxSignatureHeight = 70
)

// The date string is left-anchored with a small fixed offset so the text
// visually centers near the resolved point.
const (
	dateOffsetX = -30
	dateOffsetY = -5
)

// Request holds everything needed to stamp one document. PDF and
// SignaturePNG are read-only inputs; the stamped document is returned as a
// fresh byte slice.
type Request struct {
	PDF               []byte
	SignaturePosition string // stored descriptor, may be malformed
	DatePosition      string
	SignaturePNG      []byte // optional; absent means date only
	Date              string // preformatted, e.g. "30/08/2026"
}

// Stamp places the signature image (if present) and the date string onto
// the PDF at the resolved positions and returns the new document bytes.
func Stamp(req Request) ([]byte, error) {
	conf := model.NewDefaultConfiguration()

	dims, err := api.PageDims(bytes.NewReader(req.PDF), conf)
	if err != nil {
		return nil, fmt.Errorf("reading pdf pages: %w", err)
	}

	pages := make([]position.PageSize, len(dims))
	for i, d := range dims {
		pages[i] = position.PageSize{Width: d.Width, Height: d.Height}
	}

	// pdfcpu page selection is 1-based.
	watermarks := map[int][]*model.Watermark{}

	if len(req.SignaturePNG) > 0 {
		sig := position.ResolveSignature(req.SignaturePosition, pages)

		imgConf, _, err := image.DecodeConfig(bytes.NewReader(req.SignaturePNG))
		if err != nil {
			return nil, fmt.Errorf("decoding signature image: %w", err)
		}

		scale := fitScale(float64(imgConf.Width), float64(imgConf.Height))
		scaledW := float64(imgConf.Width) * scale
		scaledH := float64(imgConf.Height) * scale

		// Center the image on the resolved point by anchoring its lower-left
		// corner half a box below and to the left.
		desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:%.4f abs, rot:0",
			sig.X-scaledW/2, sig.Y-scaledH/2, scale)

		wm, err := api.ImageWatermarkForReader(bytes.NewReader(req.SignaturePNG), desc, true, false, pdftypes.POINTS)
		if err != nil {
			return nil, fmt.Errorf("building signature stamp: %w", err)
		}
		watermarks[sig.Page+1] = append(watermarks[sig.Page+1], wm)
	}

	date := position.ResolveDate(req.DatePosition, pages)
	dateDesc := fmt.Sprintf("fontname:Helvetica, points:11, fillcol:#262626, pos:bl, off:%.2f %.2f, scale:1 abs, rot:0",
		date.X+dateOffsetX, date.Y+dateOffsetY)

	dateWM, err := api.TextWatermark(req.Date, dateDesc, true, false, pdftypes.POINTS)
	if err != nil {
		return nil, fmt.Errorf("building date stamp: %w", err)
	}
	watermarks[date.Page+1] = append(watermarks[date.Page+1], dateWM)

	var buf bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(req.PDF), &buf, watermarks, conf); err != nil {
		return nil, fmt.Errorf("stamping pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// fitScale returns the uniform factor that fits a w x h image inside the
// signature bounding box, capped at 1 so small images keep their size.
func fitScale(w, h float64) float64 {
	scale := maxSignatureWidth / w
	if s := maxSignatureHeight / h; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return scale
}
