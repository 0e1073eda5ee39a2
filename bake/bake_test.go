package bake

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"tangent-engine/scene"
)

// +X tangent encodes to (255, 128, 128).
var plusX = color.NRGBA{R: 255, G: 128, B: 128, A: 255}

func assertColorNear(t *testing.T, want, got color.NRGBA, delta float64) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, delta)
	assert.InDelta(t, want.G, got.G, delta)
	assert.InDelta(t, want.B, got.B, delta)
	assert.InDelta(t, want.A, got.A, delta)
}

func TestBakeQuad(t *testing.T) {
	m := scene.CreateQuad()
	scene.ComputeTangents(m)

	img, err := Bake(m, Options{Size: 16, Supersample: 1})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, plusX, img.NRGBAAt(x, y), "texel %d,%d", x, y)
		}
	}
}

func TestBakeTriangleLeavesUncoveredTexelsTransparent(t *testing.T) {
	m := scene.CreateTriangle()
	scene.ComputeTangents(m)

	img, err := Bake(m, Options{Size: 32})
	require.NoError(t, err)

	// UV (0,0) is the bottom-left corner of the image.
	assert.Equal(t, plusX, img.NRGBAAt(0, 31))
	assert.Equal(t, uint8(0), img.NRGBAAt(31, 0).A)
}

func TestBakeMarksLeftHanded(t *testing.T) {
	m := scene.CreateQuad()
	scene.ComputeTangents(m)
	for i := range m.Vertices {
		m.Vertices[i].Tangent.W = -1
	}

	img, err := Bake(m, Options{Size: 8, MarkLeftHanded: true})
	require.NoError(t, err)
	assert.Equal(t, uint8(LeftHandedAlpha), img.NRGBAAt(4, 4).A)

	img, err = Bake(m, Options{Size: 8})
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.NRGBAAt(4, 4).A)
}

func TestBakeSupersample(t *testing.T) {
	m := scene.CreateQuad()
	scene.ComputeTangents(m)

	img, err := Bake(m, Options{Size: 8, Supersample: 4})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assertColorNear(t, plusX, img.NRGBAAt(4, 4), 2)
}

func TestBakeErrors(t *testing.T) {
	m := scene.CreateQuad()
	_, err := Bake(m, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoTangents)

	scene.ComputeTangents(m)
	_, err = Bake(m, Options{Size: 0})
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Bake(m, Options{Size: MaxSize, Supersample: 2})
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Bake(m, Options{Size: 1 << 20, Supersample: 1 << 20})
	assert.ErrorIs(t, err, ErrInvalidSize)

	m.Indices = []uint32{0, 1, 9}
	_, err = Bake(m, Options{Size: 4})
	assert.ErrorIs(t, err, scene.ErrIndexRange)
}

func TestSaveFormats(t *testing.T) {
	m := scene.CreateQuad()
	scene.ComputeTangents(m)
	img, err := Bake(m, Options{Size: 8})
	require.NoError(t, err)

	decoders := map[string]func(f *os.File) (image.Image, error){
		"png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"webp": func(f *os.File) (image.Image, error) { return webp.Decode(f) },
		"tga":  func(f *os.File) (image.Image, error) { return tga.Decode(f) },
	}

	dir := t.TempDir()
	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "nested", "tangents."+format)
			require.NoError(t, Save(path, img))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			got, err := decode(f)
			require.NoError(t, err)
			assert.Equal(t, img.Bounds().Size(), got.Bounds().Size())
			c := color.NRGBAModel.Convert(got.At(3, 3)).(color.NRGBA)
			assert.Equal(t, plusX, c)
		})
	}

	assert.ErrorIs(t, Save(filepath.Join(dir, "tangents.bmp"), img), ErrUnsupportedFormat)
}
