package game

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes: Y is up, the ground is the XZ plane, +Z is the default forward.
var (
	vecUp      = Vec3{0, 1, 0}
	vecForward = Vec3{0, 0, 1}
	vecRight   = Vec3{1, 0, 0}
)

// Vec3 is a point or direction in world space. Arithmetic beyond the
// trivial component ops goes through mgl64.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for building a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) mgl() mgl64.Vec3 { return mgl64.Vec3{a.X, a.Y, a.Z} }
func fromMgl(v mgl64.Vec3) Vec3 { return Vec3{v[0], v[1], v[2]} }
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(k float64) Vec3 { return Vec3{a.X * k, a.Y * k, a.Z * k} }
func (a Vec3) Dot(b Vec3) float64 { return a.mgl().Dot(b.mgl()) }
func (a Vec3) Len() float64 { return a.mgl().Len() }
func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Len() }
func (a Vec3) Flat() Vec3 { return Vec3{a.X, 0, a.Z} }
func (a Vec3) Cross(b Vec3) Vec3 { return fromMgl(a.mgl().Cross(b.mgl())) }
func (a Vec3) Lerp(b Vec3, t float64) Vec3 { return a.Add(b.Sub(a).Scale(t)) }

// Normalize returns the unit vector along a, or the zero vector when a is
// too short to have a direction. mgl64 would return NaNs there.
func (a Vec3) Normalize() Vec3 {
	if a.Len() < 1e-9 {
		return Vec3{}
	}
	return fromMgl(a.mgl().Normalize())
}

// AngleDeg returns the unsigned angle between a and b in degrees, [0,180].
// Degenerate vectors yield 0.
func AngleDeg(a, b Vec3) float64 {
	den := a.Len() * b.Len()
	if den < 1e-15 {
		return 0
	}
	return mgl64.RadToDeg(math.Acos(mgl64.Clamp(a.Dot(b)/den, -1, 1)))
}

// Quat is a unit rotation quaternion.
type Quat mgl64.Quat

func (q Quat) mgl() mgl64.Quat { return mgl64.Quat(q) }

// QuatIdentity is the rotation that leaves every vector unchanged.
func QuatIdentity() Quat { return Quat(mgl64.QuatIdent()) }

// QuatAxisAngle builds a rotation of deg degrees around axis.
func QuatAxisAngle(axis Vec3, deg float64) Quat {
	axis = axis.Normalize()
	if axis.Len() == 0 {
		return QuatIdentity()
	}
	return Quat(mgl64.QuatRotate(mgl64.DegToRad(deg), axis.mgl()))
}

// QuatYaw returns a rotation of yaw radians around the world up axis.
// Yaw 0 faces +Z.
func QuatYaw(yaw float64) Quat {
	return Quat(mgl64.QuatRotate(yaw, vecUp.mgl()))
}

// LookRotation returns the rotation whose forward axis points along forward
// with the given up hint. A zero forward yields the identity.
func LookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f.Len() == 0 {
		return QuatIdentity()
	}
	r := up.Cross(f).Normalize()
	if r.Len() == 0 {
		// forward is parallel to up.
		r = vecRight
	}
	u := f.Cross(r)

	// Column-major basis: right, up, forward.
	m := mgl64.Mat4{
		r.X, r.Y, r.Z, 0,
		u.X, u.Y, u.Z, 0,
		f.X, f.Y, f.Z, 0,
		0, 0, 0, 1,
	}
	return Quat(mgl64.Mat4ToQuat(m)).Normalize()
}

// Mul composes two rotations: the result applies b first, then q.
func (q Quat) Mul(b Quat) Quat { return Quat(q.mgl().Mul(b.mgl())) }

func (q Quat) Dot(b Quat) float64 { return q.mgl().Dot(b.mgl()) }

// Normalize rescales q to unit length; a zero quaternion becomes the identity.
func (q Quat) Normalize() Quat { return Quat(q.mgl().Normalize()) }

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 { return fromMgl(q.mgl().Rotate(v.mgl())) }

func (q Quat) Forward() Vec3 { return q.Rotate(vecForward) }
func (q Quat) Right() Vec3 { return q.Rotate(vecRight) }
func (q Quat) Up() Vec3 { return q.Rotate(vecUp) }

// Yaw returns the heading of the rotation's forward axis on the ground
// plane, in radians, 0 = +Z.
func (q Quat) Yaw() float64 {
	f := q.Forward()
	return math.Atan2(f.X, f.Z)
}

// QuatAngleDeg returns the angle in degrees between two rotations.
func QuatAngleDeg(a, b Quat) float64 {
	d := math.Min(math.Abs(a.Dot(b)), 1)
	if d > 1-1e-12 {
		return 0
	}
	return mgl64.RadToDeg(2 * math.Acos(d))
}

// Slerp interpolates from a to b by t, clamped to [0,1], along the
// shortest arc.
func Slerp(a, b Quat, t float64) Quat {
	return slerpUnclamped(a, b, clamp01(t))
}

// slerpUnclamped flips b onto a's hemisphere first; mgl64.QuatSlerp
// does not pick the short way round.
func slerpUnclamped(a, b Quat, t float64) Quat {
	bm := b.mgl()
	if a.Dot(b) < 0 {
		bm = bm.Scale(-1)
	}
	return Quat(mgl64.QuatSlerp(a.mgl(), bm, t)).Normalize()
}

// RotateTowards rotates from toward to by at most maxDeg degrees.
func RotateTowards(from, to Quat, maxDeg float64) Quat {
	angle := QuatAngleDeg(from, to)
	if angle == 0 {
		return to
	}
	return slerpUnclamped(from, to, math.Min(1, maxDeg/angle))
}

// RandomRotation draws a rotation uniformly from SO(3) (Shoemake's method).
func RandomRotation(rng *rand.Rand) Quat {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)
	return Quat{
		W: b * math.Cos(2*math.Pi*u3),
		V: mgl64.Vec3{
			a * math.Sin(2*math.Pi*u2),
			a * math.Cos(2*math.Pi*u2),
			b * math.Sin(2*math.Pi*u3),
		},
	}
}

func clamp01(v float64) float64 { return mgl64.Clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 { return mgl64.Clamp(v, lo, hi) }
