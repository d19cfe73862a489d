package game

import "math"

// CurveKey is one keyframe of a Curve.
type CurveKey struct {
	T, V float64
}

// Curve is a looping keyframe curve evaluated with cubic Hermite segments.
// Tangents are derived from the neighbouring keys, wrapping at the ends.
type Curve struct {
	keys     []CurveKey
	tangents []float64
}

// NewCurve builds a curve from keys sorted by time. The last key's time is
// the loop length.
func NewCurve(keys ...CurveKey) *Curve {
	c := &Curve{keys: append([]CurveKey(nil), keys...)}
	n := len(c.keys)
	c.tangents = make([]float64, n)
	if n < 2 {
		return c
	}
	length := c.keys[n-1].T - c.keys[0].T
	for i := range c.keys {
		var prev, next CurveKey
		switch i {
		case 0:
			// Ends look across the loop seam.
			prev = CurveKey{c.keys[n-2].T - length, c.keys[n-2].V}
			next = c.keys[1]
		case n - 1:
			prev = c.keys[n-2]
			next = CurveKey{c.keys[1].T + length, c.keys[1].V}
		default:
			prev, next = c.keys[i-1], c.keys[i+1]
		}
		if dt := next.T - prev.T; dt > 0 {
			c.tangents[i] = (next.V - prev.V) / dt
		}
	}
	return c
}

// Length returns the loop length.
func (c *Curve) Length() float64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].T - c.keys[0].T
}

// Evaluate samples the curve at t, wrapped into the loop.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	switch n {
	case 0:
		return 0
	case 1:
		return c.keys[0].V
	}
	length := c.Length()
	if length > 0 {
		t = c.keys[0].T + math.Mod(t-c.keys[0].T, length)
		if t < c.keys[0].T {
			t += length
		}
	}
	for i := 0; i < n-1; i++ {
		a, b := c.keys[i], c.keys[i+1]
		if t > b.T {
			continue
		}
		h := b.T - a.T
		if h <= 0 {
			return b.V
		}
		s := (t - a.T) / h
		s2, s3 := s*s, s*s*s
		h00 := 2*s3 - 3*s2 + 1
		h10 := s3 - 2*s2 + s
		h01 := -2*s3 + 3*s2
		h11 := s3 - s2
		return h00*a.V + h10*h*c.tangents[i] + h01*b.V + h11*h*c.tangents[i+1]
	}
	return c.keys[n-1].V
}

// DefaultBobCurve is the stock one-cycle bob shape.
func DefaultBobCurve() *Curve {
	return NewCurve(
		CurveKey{0, 0},
		CurveKey{0.5, 1},
		CurveKey{1, 0},
		CurveKey{1.5, -1},
		CurveKey{2, 0},
	)
}

// BobEvent fires when the vertical playhead crosses a registered time.
type BobEvent struct {
	Name string
	Time float64
}

// FootstepEvent is the name of the built-in footstep event.
const FootstepEvent = "footstep"

type bobTrigger struct {
	time       float64
	name       string
	skipCrouch bool
}

// HeadBob drives camera offsets from distance travelled.
type HeadBob struct {
	Curve        *Curve
	BaseInterval float64
	Horizontal   float64
	Vertical     float64
	// VerticalRatio is how much faster the Y playhead runs than X.
	VerticalRatio float64

	xPlay, yPlay float64
	triggers     []bobTrigger
}

// NewHeadBob uses the default curve with a footstep event at 1.5 on the
// vertical playhead.
func NewHeadBob(baseInterval, horizontal, vertical float64) *HeadBob {
	if baseInterval <= 0 {
		baseInterval = 1
	}
	hb := &HeadBob{
		Curve:         DefaultBobCurve(),
		BaseInterval:  baseInterval,
		Horizontal:    horizontal,
		Vertical:      vertical,
		VerticalRatio: 2,
	}
	hb.triggers = append(hb.triggers, bobTrigger{time: 1.5, name: FootstepEvent, skipCrouch: true})
	return hb
}

// RegisterEvent adds a named event at time t on the vertical playhead.
func (hb *HeadBob) RegisterEvent(t float64, name string) {
	hb.triggers = append(hb.triggers, bobTrigger{time: t, name: name})
}

// Playheads returns the current X and Y curve positions.
func (hb *HeadBob) Playheads() (x, y float64) { return hb.xPlay, hb.yPlay }

// Offset returns the current camera offset (x right, y up).
func (hb *HeadBob) Offset() (x, y float64) {
	return hb.Curve.Evaluate(hb.xPlay) * hb.Horizontal, hb.Curve.Evaluate(hb.yPlay) * hb.Vertical
}

// Advance moves the playheads by distance and returns the events crossed.
func (hb *HeadBob) Advance(distance float64, crouching bool) []BobEvent {
	length := hb.Curve.Length()
	if length <= 0 || distance <= 0 {
		return nil
	}
	step := distance / hb.BaseInterval
	hb.xPlay = math.Mod(hb.xPlay+step, length)

	prev := hb.yPlay
	hb.yPlay = math.Mod(hb.yPlay+step*hb.VerticalRatio, length)
	wrapped := step*hb.VerticalRatio >= length

	var out []BobEvent
	for _, tr := range hb.triggers {
		if tr.skipCrouch && crouching {
			continue
		}
		if crossed(prev, hb.yPlay, tr.time, wrapped) {
			out = append(out, BobEvent{Name: tr.name, Time: tr.time})
		}
	}
	return out
}

// crossed reports whether a playhead moving from prev to cur passed t,
// including across the loop seam. full means a whole loop or more elapsed.
func crossed(prev, cur, t float64, full bool) bool {
	if full {
		return true
	}
	if cur >= prev {
		return prev < t && t <= cur
	}
	return t > prev || t <= cur
}
