package game

import (
	"math"
	"testing"
)

func TestLOS_ClearLine(t *testing.T) {
	if !HasLineOfSight(Vec3{}, Vec3{10, 0, 10}, nil) {
		t.Fatal("expected clear LOS with no obstacles")
	}
}

func TestLOS_BlockedByBox(t *testing.T) {
	walls := []Box{BoxAt(4, -5, 2, 10)}
	// Ray along +X passes through the wall.
	if HasLineOfSight(Vec3{}, Vec3{10, 0, 0}, walls) {
		t.Fatal("expected LOS blocked by wall")
	}
}

func TestLOS_BoxBeyondEndpoint(t *testing.T) {
	walls := []Box{BoxAt(20, -1, 2, 2)}
	if !HasLineOfSight(Vec3{}, Vec3{10, 0, 0}, walls) {
		t.Fatal("a wall past the endpoint should not block")
	}
}

func TestLOS_IgnoresHeight(t *testing.T) {
	walls := []Box{BoxAt(-1, 4, 2, 1)}
	if HasLineOfSight(Vec3{0, 5, 0}, Vec3{0, 5, 10}, walls) {
		t.Fatal("obstacles are infinitely tall")
	}
}

func TestForwardProbe_HitsTarget(t *testing.T) {
	if !ForwardProbe(Vec3{}, vecForward, 16, Vec3{0, 0, 10}, 0.5, nil) {
		t.Fatal("target straight ahead should be hit")
	}
}

func TestForwardProbe_BlockedInFront(t *testing.T) {
	walls := []Box{BoxAt(-1, 4, 2, 1)}
	if ForwardProbe(Vec3{}, vecForward, 16, Vec3{0, 0, 10}, 0.5, walls) {
		t.Fatal("wall in front of the target should block the probe")
	}
}

func TestForwardProbe_WallBehindTarget(t *testing.T) {
	walls := []Box{BoxAt(-1, 12, 2, 1)}
	if !ForwardProbe(Vec3{}, vecForward, 16, Vec3{0, 0, 10}, 0.5, walls) {
		t.Fatal("a wall behind the target should not block")
	}
}

func TestForwardProbe_OutOfReach(t *testing.T) {
	if ForwardProbe(Vec3{}, vecForward, 5, Vec3{0, 0, 10}, 0.5, nil) {
		t.Fatal("target past probe distance should not be hit")
	}
}

func TestForwardProbe_OffAxisMisses(t *testing.T) {
	// The probe only sees along the forward axis.
	if ForwardProbe(Vec3{}, vecForward, 16, Vec3{5, 0, 5}, 0.5, nil) {
		t.Fatal("target 45° off forward should be missed")
	}
}

func TestFirstObstacleHit(t *testing.T) {
	walls := []Box{BoxAt(-1, 8, 2, 1), BoxAt(-1, 4, 2, 1)}
	d, ok := FirstObstacleHit(Vec3{}, vecForward, 20, walls)
	if !ok {
		t.Fatal("expected an obstacle hit")
	}
	if math.Abs(d-4) > 1e-9 {
		t.Fatalf("expected nearest hit at 4, got %v", d)
	}
	if _, ok := FirstObstacleHit(Vec3{}, vecForward.Scale(-1), 20, walls); ok {
		t.Fatal("ray pointing away should hit nothing")
	}
}

func TestBox_ContainsAndCenter(t *testing.T) {
	b := BoxAt(1, 2, 4, 6)
	if !b.Contains(Vec3{3, 0, 5}) || b.Contains(Vec3{0, 0, 0}) {
		t.Fatal("contains is wrong")
	}
	if c := b.Center(); c.X != 3 || c.Z != 5 {
		t.Fatalf("unexpected centre %+v", c)
	}
}
