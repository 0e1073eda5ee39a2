package math

import "github.com/chewxy/math32"

const (
	Pi      = float32(math32.Pi)
	Deg2Rad = Pi / 180
)

func Abs(x float32) float32 {
	return math32.Abs(x)
}

func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp11 clamps x to [-1, 1], the domain of Acos.
func Clamp11(x float32) float32 {
	return Clamp(x, -1, 1)
}

func Acos(x float32) float32 {
	return math32.Acos(x)
}
