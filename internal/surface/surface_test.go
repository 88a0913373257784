package surface

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"SignaturePad/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba(s *Surface, x, y int) (r, g, b, a uint32) {
	return s.Image().At(x, y).RGBA()
}

func isWhite(s *Surface, x, y int) bool {
	r, g, b, a := rgba(s, x, y)
	return r == 0xffff && g == 0xffff && b == 0xffff && a == 0xffff
}

func TestNewPaintsBackgroundAndBaseline(t *testing.T) {
	s, err := New(300, 150, DefaultStyle())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	w, h := s.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)

	assert.True(t, isWhite(s, 150, 20), "background should be white")
	assert.True(t, isWhite(s, 2, 105), "baseline starts at 4.2%% of the width")

	onLine := !isWhite(s, 150, 104) || !isWhite(s, 150, 105)
	assert.True(t, onLine, "baseline should cross 70%% of the height")
}

func TestNewRejectsBadSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		_, err := New(sz[0], sz[1], DefaultStyle())
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestStrokeLeavesInk(t *testing.T) {
	s, err := New(100, 100, DefaultStyle())
	require.NoError(t, err)
	s.SetInk("#000", 4)

	s.BeginPath()
	s.MoveTo(state.Point{X: 10, Y: 30})
	s.QuadTo(state.Point{X: 50, Y: 30}, state.Point{X: 90, Y: 30})
	require.NoError(t, s.Stroke())

	assert.False(t, isWhite(s, 50, 30))
	assert.True(t, isWhite(s, 50, 10))
}

func TestResizeRepaintsBackground(t *testing.T) {
	s, err := New(100, 100, DefaultStyle())
	require.NoError(t, err)
	s.SetInk("#000", 4)
	s.BeginPath()
	s.MoveTo(state.Point{X: 10, Y: 30})
	s.QuadTo(state.Point{X: 50, Y: 30}, state.Point{X: 90, Y: 30})
	require.NoError(t, s.Stroke())

	require.NoError(t, s.Resize(200, 80))
	w, h := s.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 80, h)
	assert.True(t, isWhite(s, 50, 30), "ink is discarded")
	assert.True(t, isWhite(s, 100, 10))
	onLine := !isWhite(s, 100, 55) || !isWhite(s, 100, 56)
	assert.True(t, onLine, "baseline repainted at 70%% of the new height")

	// same size still wipes the ink
	s.BeginPath()
	s.MoveTo(state.Point{X: 10, Y: 20})
	s.QuadTo(state.Point{X: 100, Y: 20}, state.Point{X: 190, Y: 20})
	require.NoError(t, s.Stroke())
	require.NoError(t, s.Resize(200, 80))
	assert.True(t, isWhite(s, 100, 20))
	assert.Equal(t, "#000", s.Style().Ink)

	assert.ErrorIs(t, s.Resize(0, 5), ErrInvalidSize)
}

func TestDataURIRoundTrip(t *testing.T) {
	s, err := New(40, 20, DefaultStyle())
	require.NoError(t, err)

	uri, err := s.DataURI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	_, err = DecodeDataURI("data:text/plain,hi")
	assert.ErrorIs(t, err, ErrNotDataURI)
	_, err = DecodeDataURI("data:image/png;base64,!!")
	assert.ErrorIs(t, err, ErrNotDataURI)
}
