package game

import (
	"math"
	"testing"
)

func TestClassifyMove_Priority(t *testing.T) {
	cases := []struct {
		grounded, prev, crouch, run bool
		velSq                       float64
		want                        MoveStatus
	}{
		{true, false, true, true, 4, MoveLanding},
		{false, true, false, false, 4, MoveNotGrounded},
		{true, true, true, true, 0, MoveNotMoving},
		{true, true, true, true, 4, MoveCrouching},
		{true, true, false, true, 4, MoveRunning},
		{true, true, false, false, 4, MoveWalking},
	}
	for i, c := range cases {
		if got := ClassifyMove(c.grounded, c.prev, c.crouch, c.run, c.velSq); got != c.want {
			t.Fatalf("case %d: expected %s, got %s", i, c.want, got)
		}
	}
}

func runLoco(l *Locomotion, ticks int, in MoveInput) []BobEvent {
	var events []BobEvent
	for i := 0; i < ticks; i++ {
		events = append(events, l.Update(SimDT, in, nil)...)
	}
	return events
}

func TestLocomotion_WalkAndRunSpeeds(t *testing.T) {
	l := NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	runLoco(l, 60, MoveInput{Forward: 1})
	if math.Abs(l.Pos.Z-2) > 1e-6 || l.Status() != MoveWalking {
		t.Fatalf("expected 2m walked, got z=%.3f status=%s", l.Pos.Z, l.Status())
	}

	l = NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	l.Yaw = math.Pi / 2
	runLoco(l, 60, MoveInput{Forward: 1, Run: true})
	if math.Abs(l.Pos.X-4.5) > 1e-6 || l.Status() != MoveRunning {
		t.Fatalf("expected 4.5m run along +X, got x=%.3f status=%s", l.Pos.X, l.Status())
	}
}

func TestLocomotion_DiagonalIsNormalised(t *testing.T) {
	l := NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	runLoco(l, 60, MoveInput{Forward: 1, Strafe: 1})
	if d := l.Pos.Flat().Len(); math.Abs(d-2) > 1e-6 {
		t.Fatalf("diagonal should not be faster, moved %.3f", d)
	}
}

func TestLocomotion_CrouchToggle(t *testing.T) {
	cfg := DefaultLocomotionConfig()
	l := NewLocomotion(cfg, Vec3{})
	l.Update(SimDT, MoveInput{CrouchPressed: true}, nil)
	if !l.Crouching() || l.Height != cfg.StandHeight/2 {
		t.Fatalf("expected crouched at half height, got %v %v", l.Crouching(), l.Height)
	}
	l.Update(SimDT, MoveInput{Forward: 1}, nil)
	if l.Speed() != cfg.CrouchSpeed || l.Status() != MoveCrouching {
		t.Fatalf("expected crouch speed, got %v %s", l.Speed(), l.Status())
	}
	l.Update(SimDT, MoveInput{Forward: 1, JumpPressed: true}, nil)
	if !l.Grounded() {
		t.Fatal("jumping is disabled while crouched")
	}
	l.Update(SimDT, MoveInput{CrouchPressed: true}, nil)
	if l.Crouching() || l.Height != cfg.StandHeight {
		t.Fatal("second press should stand up")
	}
}

func TestLocomotion_JumpAndLand(t *testing.T) {
	l := NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	l.Update(SimDT, MoveInput{JumpPressed: true}, nil)
	if l.Grounded() || l.Status() != MoveNotGrounded {
		t.Fatalf("expected airborne, got %s", l.Status())
	}
	landed := false
	for i := 0; i < 120 && !landed; i++ {
		l.Update(SimDT, MoveInput{}, nil)
		landed = l.Status() == MoveLanding
	}
	if !landed {
		t.Fatal("expected a landing frame")
	}
	if l.Pos.Y != 0 {
		t.Fatalf("should rest on the ground, y=%v", l.Pos.Y)
	}
	l.Update(SimDT, MoveInput{}, nil)
	if l.Status() != MoveNotMoving {
		t.Fatalf("expected not moving after landing, got %s", l.Status())
	}
}

func TestLocomotion_BlockedStaysPut(t *testing.T) {
	l := NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	wall := BoxAt(-1, 0.01, 2, 1)
	for i := 0; i < 30; i++ {
		l.Update(SimDT, MoveInput{Forward: 1}, wall.Contains)
	}
	if l.Pos.Z > 0.01 {
		t.Fatalf("walked into the wall, z=%v", l.Pos.Z)
	}
}

func TestLocomotion_Footsteps(t *testing.T) {
	l := NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	// 4m walked at a 1m interval: the vertical playhead loops 4 times.
	events := runLoco(l, 120, MoveInput{Forward: 1})
	if len(events) != 4 {
		t.Fatalf("expected 4 footsteps, got %d", len(events))
	}
	for _, e := range events {
		if e.Name != FootstepEvent {
			t.Fatalf("unexpected event %q", e.Name)
		}
	}

	l = NewLocomotion(DefaultLocomotionConfig(), Vec3{})
	l.Update(SimDT, MoveInput{CrouchPressed: true}, nil)
	if n := len(runLoco(l, 240, MoveInput{Forward: 1})); n != 0 {
		t.Fatalf("crouch walking should be silent, got %d footsteps", n)
	}
}

func TestWeaponSway_ClampsToMax(t *testing.T) {
	s := WeaponSway{Amount: 0.02, Max: 0.06, Smooth: 6}
	for i := 0; i < 300; i++ {
		s.Update(SimDT, 10, -1)
	}
	if math.Abs(s.OffsetX+0.06) > 1e-6 {
		t.Fatalf("expected x offset at -max, got %v", s.OffsetX)
	}
	if math.Abs(s.OffsetY-0.02) > 1e-6 {
		t.Fatalf("expected y offset 0.02, got %v", s.OffsetY)
	}
}
