package tangent

import "tangent-engine/math"

// normalizeEpsilon is the length below which an accumulated tangent or
// binormal is treated as collapsed.
const normalizeEpsilon = 1e-6

var worldAxes = [3]math.Vec3{math.Vec3Right, math.Vec3Up, math.Vec3Front}

// Orthogonalize turns an accumulated tangent and binormal into a unit
// tangent orthogonal to normal, returned as (tangent.xyz, handedness).
//
// Handedness is +1 when (tangent, binormal, normal) is right-handed and -1
// otherwise, so the binormal can be rebuilt as cross(normal, tangent) * w.
// When either accumulated vector collapses an arbitrary frame orthogonal to
// the normal is synthesized from the world axes.
func Orthogonalize(tangent, binormal, normal math.Vec3) math.Vec4 {
	out, _ := orthogonalize(tangent, binormal, normal)
	return out
}

// orthogonalize is Orthogonalize that also reports whether the fallback frame was used.
func orthogonalize(tangent, binormal, normal math.Vec3) (math.Vec4, bool) {
	tangent = tangent.Sub(normal.Mul(normal.Dot(tangent)))
	magT := tangent.Length()
	tangent = tangent.Div(magT)

	nDotB := normal.Dot(binormal)
	tDotB := tangent.Dot(binormal) * magT
	binormal = binormal.Sub(normal.Mul(nDotB).Add(tangent.Mul(tDotB)))
	magB := binormal.Length()
	binormal = binormal.Div(magB)

	// magT/magB may be NaN here when the accumulators held non-finite
	// values; !(x > eps) routes those to the fallback too.
	degenerate := !(magT > normalizeEpsilon) || !(magB > normalizeEpsilon)
	if degenerate {
		axis1, axis2 := fallbackAxes(normal)
		tangent = axis1.Sub(normal.Mul(normal.Dot(axis1))).Normalize()
		binormal = axis2.
			Sub(normal.Mul(normal.Dot(axis2))).
			Sub(tangent.Normalize().Mul(tangent.Dot(axis2))).
			Normalize()
	}

	w := float32(-1)
	if normal.Cross(tangent).Dot(binormal) > 0 {
		w = 1
	}
	return tangent.ToVec4(w), degenerate
}

// fallbackAxes returns the world axis least aligned with n and, of the two
// remaining axes, the less aligned one. Ties prefer X, then Y, then Z.
func fallbackAxes(n math.Vec3) (axis1, axis2 math.Vec3) {
	dp := [3]float32{math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)}

	var first, second int
	switch {
	case dp[0] <= dp[1] && dp[0] <= dp[2]:
		first = 0
		second = pickLesser(dp, 1, 2)
	case dp[1] <= dp[0] && dp[1] <= dp[2]:
		first = 1
		second = pickLesser(dp, 0, 2)
	default:
		first = 2
		second = pickLesser(dp, 0, 1)
	}
	return worldAxes[first], worldAxes[second]
}

func pickLesser(dp [3]float32, a, b int) int {
	if dp[a] <= dp[b] {
		return a
	}
	return b
}
