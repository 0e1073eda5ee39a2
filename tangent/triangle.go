package tangent

import "tangent-engine/math"

// minUVArea is the smallest |UV determinant| a triangle may have and still
// contribute a tangent direction.
const minUVArea = 1e-8

// neighbors[i] holds the two other corners of a triangle as seen from corner i.
var neighbors = [3][2]int{{2, 1}, {0, 2}, {1, 0}}

// ExtractTriangle computes the tangent and binormal contribution of one
// triangle to each of its three corners.
//
// The shared direction is derived from the UV-space derivatives of the
// triangle and scaled by its UV area, so large well-conditioned triangles
// dominate the per-vertex average. Each corner then receives that direction
// weighted by the interior angle at the corner. Triangles with zero UV area
// contribute zero vectors.
func ExtractTriangle(v [3]math.Vec3, uv [3]math.Vec2) (tangents, binormals [3]math.Vec3) {
	p := v[1].Sub(v[0])
	q := v[2].Sub(v[0])

	s := [2]float32{uv[1].X - uv[0].X, uv[2].X - uv[0].X}
	t := [2]float32{uv[1].Y - uv[0].Y, uv[2].Y - uv[0].Y}

	div := s[0]*t[1] - s[1]*t[0]
	areaMult := math.Abs(div)

	var tangent, binormal math.Vec3
	if areaMult >= minUVArea {
		r := 1 / div
		s[0] *= r
		s[1] *= r
		t[0] *= r
		t[1] *= r

		tangent = p.Mul(t[1]).Sub(q.Mul(t[0])).Normalize().Mul(areaMult)
		binormal = q.Mul(s[0]).Sub(p.Mul(s[1])).Normalize().Mul(areaMult)
	}

	for i := 0; i < 3; i++ {
		w := cornerAngle(v, i)
		tangents[i] = tangent.Mul(w)
		binormals[i] = binormal.Mul(w)
	}
	return tangents, binormals
}

// cornerAngle returns the interior angle of the triangle at corner i, in radians.
func cornerAngle(v [3]math.Vec3, i int) float32 {
	e1 := v[neighbors[i][0]].Sub(v[i]).Normalize()
	e2 := v[neighbors[i][1]].Sub(v[i]).Normalize()
	return math.Acos(math.Clamp11(e1.Dot(e2)))
}
