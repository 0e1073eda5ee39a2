// Package bake renders the tangent bases of a mesh into a UV-space debug
// texture. Each texel stores the interpolated unit tangent remapped to
// color (rgb = tangent*0.5 + 0.5), the same encoding normal maps use.
package bake

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"tangent-engine/math"
	"tangent-engine/scene"
)

var (
	// ErrNoTangents is returned when the mesh has not been through ComputeTangents.
	ErrNoTangents = errors.New("mesh has no tangents")
	// ErrInvalidSize is returned for a non-positive output size or one whose
	// supersampled canvas exceeds MaxSize.
	ErrInvalidSize = errors.New("invalid bake size")
)

// Options controls Bake.
type Options struct {
	Size        int // output width and height in pixels
	Supersample int // render at Size*Supersample, then downsample; <1 means 1

	// MarkLeftHanded writes left-handed texels with alpha LeftHandedAlpha
	// instead of 255 so mirrored UV islands stand out.
	MarkLeftHanded bool
}

// MaxSize caps the supersampled canvas edge. At 16384 the canvas alone
// takes 1 GiB.
const MaxSize = 16384

// LeftHandedAlpha is the alpha of left-handed texels when Options.MarkLeftHanded is set.
const LeftHandedAlpha = 128

func DefaultOptions() Options {
	return Options{Size: 1024, Supersample: 2}
}

// Bake rasterizes every triangle of m in UV space. UV (0,0) maps to the
// bottom-left texel; UVs outside [0,1] are clipped. Texels no triangle
// covers stay transparent.
func Bake(m *scene.Mesh, opts Options) (*image.NRGBA, error) {
	if !m.HasTangents {
		return nil, fmt.Errorf("bake %q: %w", m.Name, ErrNoTangents)
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("bake %q: size %d: %w", m.Name, opts.Size, ErrInvalidSize)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("bake: %w", err)
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	if ss > MaxSize/opts.Size {
		return nil, fmt.Errorf("bake %q: size %d x %d exceeds %d: %w", m.Name, opts.Size, ss, MaxSize, ErrInvalidSize)
	}

	size := opts.Size * ss
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	indices := m.Indices
	triangles := m.TriangleCount()
	for ti := 0; ti < triangles; ti++ {
		var tri [3]int
		for c := 0; c < 3; c++ {
			if len(indices) > 0 {
				tri[c] = int(indices[ti*3+c])
			} else {
				tri[c] = ti*3 + c
			}
		}
		rasterizeTriangle(img, m, tri, opts.MarkLeftHanded)
	}

	if ss > 1 {
		return Downsample(img, opts.Size), nil
	}
	return img, nil
}

// rasterizeTriangle fills the texels whose centers fall inside the UV
// triangle tri, using a top-left-agnostic inclusive edge test.
func rasterizeTriangle(img *image.NRGBA, m *scene.Mesh, tri [3]int, markLeft bool) {
	size := float32(img.Rect.Dx())

	var px, py [3]float32
	var tangents [3]math.Vec4
	for c, vi := range tri {
		v := m.Vertices[vi]
		px[c] = v.UV.X * size
		py[c] = (1 - v.UV.Y) * size
		tangents[c] = v.Tangent
	}

	det := (py[1]-py[2])*(px[0]-px[2]) + (px[2]-px[1])*(py[0]-py[2])
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	minX := clampInt(int(min(px[0], px[1], px[2])), 0, img.Rect.Dx()-1)
	maxX := clampInt(int(max(px[0], px[1], px[2]))+1, 0, img.Rect.Dx()-1)
	minY := clampInt(int(min(py[0], py[1], py[2])), 0, img.Rect.Dy()-1)
	maxY := clampInt(int(max(py[0], py[1], py[2]))+1, 0, img.Rect.Dy()-1)

	for y := minY; y <= maxY; y++ {
		cy := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			cx := float32(x) + 0.5

			w0 := ((py[1]-py[2])*(cx-px[2]) + (px[2]-px[1])*(cy-py[2])) * invDet
			w1 := ((py[2]-py[0])*(cx-px[2]) + (px[0]-px[2])*(cy-py[2])) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			t := tangents[0].Mul(w0).Add(tangents[1].Mul(w1)).Add(tangents[2].Mul(w2))
			img.SetNRGBA(x, y, encodeTangent(t, markLeft))
		}
	}
}

// encodeTangent maps a (possibly interpolated) tangent basis to a texel.
func encodeTangent(t math.Vec4, markLeft bool) color.NRGBA {
	dir := t.ToVec3().Normalize()
	c := color.NRGBA{
		R: unorm8(dir.X*0.5 + 0.5),
		G: unorm8(dir.Y*0.5 + 0.5),
		B: unorm8(dir.Z*0.5 + 0.5),
		A: 255,
	}
	if markLeft && t.W < 0 {
		c.A = LeftHandedAlpha
	}
	return c
}

func unorm8(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
