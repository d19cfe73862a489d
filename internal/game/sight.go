package game

// PerceptionResult is one perception tick's view of a target.
type PerceptionResult struct {
	Distance       float64
	AngleToTarget  float64 // degrees, [0,180]
	HasLineOfSight bool
}

// InView reports whether the target sits inside a field of view of
// limitDeg measured from the forward axis.
func (r PerceptionResult) InView(limitDeg float64) bool {
	return r.AngleToTarget < limitDeg
}

// SightEngine turns positions into a PerceptionResult. It holds no state.
type SightEngine struct{}

// Evaluate computes the planar angle between the horizontal projection of
// (target - self) and selfForward. LOS comes from the raycast collaborator
// and distance is passed through.
func (SightEngine) Evaluate(selfPos, selfForward, targetPos Vec3, losBlocked bool, distance float64) PerceptionResult {
	dir := targetPos.Sub(selfPos)
	dir.Y = 0 // stop the agent tipping when the target is close
	return PerceptionResult{
		Distance:       distance,
		AngleToTarget:  AngleDeg(dir, selfForward),
		HasLineOfSight: !losBlocked,
	}
}

// Sensor bundles a SightEngine with the forward-probe LOS collaborator the
// arena uses for NPCs.
type Sensor struct {
	Engine        SightEngine
	ProbeDistance float64 // how far the forward LOS ray reaches
}

// Sense evaluates the target as seen from an agent at pos facing along
// facing, probing LOS along the forward axis.
func (s Sensor) Sense(pos Vec3, facing Quat, target Vec3, targetRadius float64, obstacles []Box) PerceptionResult {
	fwd := facing.Forward()
	seen := ForwardProbe(pos, fwd, s.ProbeDistance, target, targetRadius, obstacles)
	return s.Engine.Evaluate(pos, fwd, target, !seen, pos.Dist(target))
}
