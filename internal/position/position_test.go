package position

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStaysOnPage(t *testing.T) {
	sizes := []PageSize{
		{Width: 595.28, Height: 841.89}, // A4
		{Width: 612, Height: 792},       // Letter
		{Width: 200, Height: 1000},
	}
	ratios := []float64{0, 0.25, 0.5, 0.75, 1}

	for pageIdx, size := range sizes {
		for _, xr := range ratios {
			for _, yr := range ratios {
				pos := SignaturePosition{Page: pageIdx, XRatio: xr, YRatio: yr}
				raw, err := json.Marshal(pos)
				require.NoError(t, err)

				pt := ResolveSignature(string(raw), sizes)
				assert.Equal(t, pageIdx, pt.Page)
				assert.GreaterOrEqual(t, pt.X, 0.0)
				assert.LessOrEqual(t, pt.X, size.Width)
				assert.GreaterOrEqual(t, pt.Y, 0.0)
				assert.LessOrEqual(t, pt.Y, size.Height)
			}
		}
	}
}

func TestResolveFlipsVertically(t *testing.T) {
	pages := []PageSize{{Width: 600, Height: 800}}

	// A click near the top of the rendered page lands near the top of the
	// page coordinate space (large y).
	pt := ResolveSignature(`{"page":0,"xRatio":0.5,"yRatio":0.1}`, pages)
	assert.InDelta(t, 300.0, pt.X, 1e-9)
	assert.InDelta(t, 720.0, pt.Y, 1e-9)
}

func TestPositionJSONRoundTrip(t *testing.T) {
	orig := SignaturePosition{Page: 3, XRatio: 0.4213, YRatio: 0.9871}

	raw, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded SignaturePosition
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, orig, decoded)
}

func TestMalformedDescriptorFallsBack(t *testing.T) {
	pages := []PageSize{
		{Width: 600, Height: 800},
		{Width: 600, Height: 800},
		{Width: 612, Height: 792},
	}

	for _, raw := range []string{"", "bottom", "{not json", "[1,2,3]", `"quoted"`} {
		sig := ResolveSignature(raw, pages)
		assert.Equal(t, 2, sig.Page, "raw=%q", raw)
		assert.Equal(t, 40.0, sig.X, "raw=%q", raw)
		assert.Equal(t, 75.0, sig.Y, "raw=%q", raw)

		date := ResolveDate(raw, pages)
		assert.Equal(t, 2, date.Page, "raw=%q", raw)
		assert.Equal(t, 40.0, date.X, "raw=%q", raw)
		assert.Equal(t, 40.0, date.Y, "raw=%q", raw)
	}
}

func TestPageIndexClamped(t *testing.T) {
	pages := []PageSize{
		{Width: 600, Height: 800},
		{Width: 600, Height: 800},
	}

	pt := ResolveSignature(`{"page":99,"xRatio":0.5,"yRatio":0.5}`, pages)
	assert.Equal(t, 1, pt.Page)

	pt = ResolveSignature(`{"page":-4,"xRatio":0.5,"yRatio":0.5}`, pages)
	assert.Equal(t, 0, pt.Page)
}
