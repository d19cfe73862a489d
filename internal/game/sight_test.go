package game

import (
	"math"
	"testing"
)

func TestSightEngine_PlanarAngle(t *testing.T) {
	var e SightEngine
	r := e.Evaluate(Vec3{}, vecForward, Vec3{10, 5, 0}, false, 11)
	if math.Abs(r.AngleToTarget-90) > 1e-9 {
		t.Fatalf("expected 90°, got %v", r.AngleToTarget)
	}
	if r.Distance != 11 {
		t.Fatalf("distance should pass through, got %v", r.Distance)
	}
	if !r.HasLineOfSight {
		t.Fatal("unblocked ray should report LOS")
	}
}

func TestSightEngine_HeightDoesNotTilt(t *testing.T) {
	var e SightEngine
	// A target just above the agent's head is still dead ahead.
	r := e.Evaluate(Vec3{}, vecForward, Vec3{0, 3, 1}, true, 3)
	if r.AngleToTarget > 1e-9 {
		t.Fatalf("expected 0°, got %v", r.AngleToTarget)
	}
	if r.HasLineOfSight {
		t.Fatal("blocked ray should not report LOS")
	}
}

func TestSightEngine_Behind(t *testing.T) {
	var e SightEngine
	r := e.Evaluate(Vec3{}, vecForward, Vec3{0, 0, -5}, false, 5)
	if math.Abs(r.AngleToTarget-180) > 1e-9 {
		t.Fatalf("expected 180°, got %v", r.AngleToTarget)
	}
}

func TestPerceptionResult_InView(t *testing.T) {
	if !(PerceptionResult{AngleToTarget: 30}).InView(100) {
		t.Fatal("30° should be inside a 100° limit")
	}
	if (PerceptionResult{AngleToTarget: 100}).InView(100) {
		t.Fatal("the limit itself is outside the view")
	}
}

func TestSensor_Sense(t *testing.T) {
	s := Sensor{ProbeDistance: 16}
	r := s.Sense(Vec3{}, QuatYaw(0), Vec3{0, 0, 8}, 0.5, nil)
	if !r.HasLineOfSight || r.AngleToTarget > 1e-6 || math.Abs(r.Distance-8) > 1e-9 {
		t.Fatalf("unexpected perception %+v", r)
	}

	walls := []Box{BoxAt(-1, 3, 2, 1)}
	r = s.Sense(Vec3{}, QuatYaw(0), Vec3{0, 0, 8}, 0.5, walls)
	if r.HasLineOfSight {
		t.Fatal("wall between agent and target should block")
	}

	// Turned to face +X, the target is 90° off and the probe misses.
	r = s.Sense(Vec3{}, QuatYaw(math.Pi/2), Vec3{0, 0, 8}, 0.5, nil)
	if r.HasLineOfSight || math.Abs(r.AngleToTarget-90) > 1e-6 {
		t.Fatalf("unexpected perception when turned away %+v", r)
	}
}
