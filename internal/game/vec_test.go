package game

import (
	"math"
	"math/rand"
	"testing"
)

func vecNear(a, b Vec3, eps float64) bool { return a.Dist(b) < eps }

func TestQuatYaw_FacesPlusX(t *testing.T) {
	f := QuatYaw(math.Pi / 2).Forward()
	if !vecNear(f, Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("yaw 90° should face +X, got %+v", f)
	}
	if y := QuatYaw(0.7).Yaw(); math.Abs(y-0.7) > 1e-9 {
		t.Fatalf("yaw round trip: got %v", y)
	}
}

func TestLookRotation_ForwardMatches(t *testing.T) {
	for _, dir := range []Vec3{
		{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0.3, 2}, {0.2, -0.9, -0.1}, {0, 1, 0},
	} {
		q := LookRotation(dir, vecUp)
		if f := q.Forward(); !vecNear(f, dir.Normalize(), 1e-9) {
			t.Fatalf("look %+v: forward %+v", dir, f)
		}
		if up := q.Up(); dir.Flat().Len() > 0 && up.Y <= 0 {
			t.Fatalf("look %+v: up vector %+v points down", dir, up)
		}
	}
	if q := LookRotation(Vec3{}, vecUp); QuatAngleDeg(q, QuatIdentity()) != 0 {
		t.Fatal("zero forward should give the identity")
	}
}

func TestRotateTowards_LimitsStep(t *testing.T) {
	from, to := QuatIdentity(), QuatYaw(math.Pi/2)
	step := RotateTowards(from, to, 10)
	if d := QuatAngleDeg(from, step); math.Abs(d-10) > 1e-6 {
		t.Fatalf("step should be 10°, got %v", d)
	}
	if got := RotateTowards(from, to, 120); QuatAngleDeg(got, to) > 1e-6 {
		t.Fatal("a step larger than the gap should land on the target")
	}
}

func TestSlerp_ShortestArc(t *testing.T) {
	a := QuatYaw(0)
	b := QuatYaw(math.Pi / 2)
	nb := Quat{W: -b.W, V: b.V.Mul(-1)}
	mid := Slerp(a, nb, 0.5)
	if d := QuatAngleDeg(a, mid); math.Abs(d-45) > 1e-6 {
		t.Fatalf("negated target should still take the 45° path, got %v", d)
	}
	if got := Slerp(a, b, 2); QuatAngleDeg(got, b) > 1e-6 {
		t.Fatal("t above 1 should clamp to the target")
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if n := (Vec3{}).Normalize(); n != (Vec3{}) {
		t.Fatalf("zero vector should normalize to zero, got %+v", n)
	}
	if n := (Vec3{3, 0, 4}).Normalize(); math.Abs(n.Len()-1) > 1e-12 {
		t.Fatalf("expected unit length, got %v", n.Len())
	}
	if a := AngleDeg(Vec3{1, 0, 0}, Vec3{0, 0, 1}); math.Abs(a-90) > 1e-9 {
		t.Fatalf("perpendicular angle: %v", a)
	}
}

func TestRandomRotation_Unit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		q := RandomRotation(rng)
		if l := math.Sqrt(q.Dot(q)); math.Abs(l-1) > 1e-9 {
			t.Fatalf("rotation %d has length %v", i, l)
		}
	}
}
