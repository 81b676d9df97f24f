// Package position converts stored signature/date position descriptors
// into absolute points on a PDF page.
//
// A descriptor is a JSON blob written once at upload time:
//
//	{"page": 0, "xRatio": 0.42, "yRatio": 0.87}
//
// The ratios are normalized click coordinates on a rendered page, captured
// top-down, so they are independent of the page's physical size. Old rows
// may instead hold the literal string "bottom" or nothing at all; those
// decode as the documented fallback, never as an error.
package position

import "encoding/json"

// SignaturePosition is a normalized point on a rendered page.
type SignaturePosition struct {
	Page   int     `json:"page"`
	XRatio float64 `json:"xRatio"`
	YRatio float64 `json:"yRatio"`
}

// PageSize is a page's media box in points.
type PageSize struct {
	Width  float64
	Height float64
}

// Point is an absolute location in a page's coordinate space (origin
// bottom-left).
type Point struct {
	Page int
	X    float64
	Y    float64
}

// Fallback offsets for rows that predate the position picker. They land
// near the bottom-left of the last page, where the signature line of a
// typical contract sits.
const (
	fallbackSignatureX = 40
	fallbackSignatureY = 75
	fallbackDateX      = 40
	fallbackDateY      = 40
)

// ResolveSignature maps a stored signature descriptor onto pages.
func ResolveSignature(raw string, pages []PageSize) Point {
	return resolve(raw, pages, fallbackSignatureX, fallbackSignatureY)
}

// ResolveDate maps a stored date descriptor onto pages.
func ResolveDate(raw string, pages []PageSize) Point {
	return resolve(raw, pages, fallbackDateX, fallbackDateY)
}

func resolve(raw string, pages []PageSize, fallbackX, fallbackY float64) Point {
	if len(pages) == 0 {
		return Point{Page: 0, X: fallbackX, Y: fallbackY}
	}
	last := len(pages) - 1

	var pos SignaturePosition
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		// Absent, malformed, or the legacy "bottom" sentinel.
		return Point{Page: last, X: fallbackX, Y: fallbackY}
	}

	page := pos.Page
	if page < 0 {
		page = 0
	}
	if page > last {
		page = last
	}

	size := pages[page]
	// yRatio is captured top-down (screen coordinates); the page space is
	// bottom-up, hence the flip.
	return Point{
		Page: page,
		X:    size.Width * pos.XRatio,
		Y:    size.Height * (1 - pos.YRatio),
	}
}
