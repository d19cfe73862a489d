package game

import (
	"math"
	"testing"
)

func TestCurve_HitsKeysAndWraps(t *testing.T) {
	c := DefaultBobCurve()
	if c.Length() != 2 {
		t.Fatalf("expected loop length 2, got %v", c.Length())
	}
	for _, k := range []CurveKey{{0, 0}, {0.5, 1}, {1, 0}, {1.5, -1}} {
		if got := c.Evaluate(k.T); math.Abs(got-k.V) > 1e-9 {
			t.Fatalf("at %v expected %v, got %v", k.T, k.V, got)
		}
	}
	if math.Abs(c.Evaluate(2.5)-1) > 1e-9 {
		t.Fatal("curve should wrap forward")
	}
	if math.Abs(c.Evaluate(-0.5)+1) > 1e-9 {
		t.Fatal("curve should wrap backward")
	}
	if v := c.Evaluate(0.25); v <= 0 || v >= 1 {
		t.Fatalf("rising segment out of range: %v", v)
	}
}

func TestCrossed(t *testing.T) {
	cases := []struct {
		prev, cur, at float64
		full          bool
		want          bool
	}{
		{1.0, 1.6, 1.5, false, true},
		{1.6, 1.9, 1.5, false, false},
		{1.0, 1.5, 1.5, false, true},
		{1.5, 1.7, 1.5, false, false},
		{1.9, 0.2, 0.1, false, true},
		{1.9, 0.2, 1.95, false, true},
		{1.9, 0.2, 1.0, false, false},
		{1.0, 1.0, 0.3, true, true},
	}
	for i, c := range cases {
		if got := crossed(c.prev, c.cur, c.at, c.full); got != c.want {
			t.Fatalf("case %d: crossed(%v,%v,%v) = %v", i, c.prev, c.cur, c.at, got)
		}
	}
}

func TestHeadBob_RegisteredEvents(t *testing.T) {
	hb := NewHeadBob(1, 0.01, 0.02)
	hb.RegisterEvent(0.5, "peak")

	events := hb.Advance(0.3, false)
	if len(events) != 1 || events[0].Name != "peak" {
		t.Fatalf("expected peak only, got %+v", events)
	}
	if x, y := hb.Playheads(); math.Abs(x-0.3) > 1e-9 || math.Abs(y-0.6) > 1e-9 {
		t.Fatalf("vertical playhead should run twice as fast: x=%v y=%v", x, y)
	}

	events = hb.Advance(0.5, false)
	if len(events) != 1 || events[0].Name != FootstepEvent {
		t.Fatalf("expected a footstep, got %+v", events)
	}
}

func TestHeadBob_CrouchSkipsFootstepOnly(t *testing.T) {
	hb := NewHeadBob(1, 0.01, 0.02)
	hb.RegisterEvent(0.5, "peak")
	events := hb.Advance(0.8, true)
	if len(events) != 1 || events[0].Name != "peak" {
		t.Fatalf("crouching should keep registered events, got %+v", events)
	}
}

func TestHeadBob_NoDistanceNoEvents(t *testing.T) {
	hb := NewHeadBob(1, 0.01, 0.02)
	if events := hb.Advance(0, false); events != nil {
		t.Fatalf("expected no events, got %+v", events)
	}
	if x, y := hb.Offset(); x != 0 || y != 0 {
		t.Fatalf("offset should be zero at rest, got %v %v", x, y)
	}
}

func TestHeadBob_OffsetScales(t *testing.T) {
	hb := NewHeadBob(1, 0.01, 0.02)
	hb.Advance(0.25, false) // y playhead at the curve peak
	if _, y := hb.Offset(); math.Abs(y-0.02) > 1e-9 {
		t.Fatalf("expected vertical offset 0.02 at the peak, got %v", y)
	}
}
