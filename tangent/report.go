package tangent

import "tangent-engine/math"

// Report summarizes the quality of a generated tangent buffer.
type Report struct {
	Vertices     int
	RightHanded  int
	LeftHanded   int
	NonFinite    int
	MaxLengthErr float32 // max |len(tangent) - 1|
	MaxNormalDot float32 // max |dot(tangent, normal)|
}

// Inspect measures how far bases are from unit length and orthogonality
// to their normals.
func Inspect(bases []math.Vec4, normals []math.Vec3) Report {
	r := Report{Vertices: len(bases)}
	for i, b := range bases {
		t := b.ToVec3()
		if !t.IsFinite() {
			r.NonFinite++
			continue
		}
		if b.W > 0 {
			r.RightHanded++
		} else {
			r.LeftHanded++
		}
		if e := math.Abs(t.Length() - 1); e > r.MaxLengthErr {
			r.MaxLengthErr = e
		}
		if i < len(normals) {
			if d := math.Abs(t.Dot(normals[i])); d > r.MaxNormalDot {
				r.MaxNormalDot = d
			}
		}
	}
	return r
}
