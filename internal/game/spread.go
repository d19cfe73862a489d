package game

import "math/rand"

// SpreadDirection perturbs the aim's forward axis by independent uniform
// offsets in [-spread,+spread] along the aim's right and up axes and
// returns the normalised result.
func SpreadDirection(rng *rand.Rand, aim Quat, spread float64) Vec3 {
	fwd := aim.Forward()
	if spread <= 0 {
		return fwd.Normalize()
	}
	dx := (rng.Float64()*2 - 1) * spread
	dy := (rng.Float64()*2 - 1) * spread
	dir := fwd.Add(aim.Right().Scale(dx)).Add(aim.Up().Scale(dy))
	return dir.Normalize()
}

// PelletRotations gives each pellet an independent uniformly random
// rotation, then pulls it toward aim by at most spreadDeg degrees.
func PelletRotations(rng *rand.Rand, aim Quat, pellets int, spreadDeg float64) []Quat {
	out := make([]Quat, pellets)
	for i := range out {
		random := RandomRotation(rng)
		// Result stays within spreadDeg of aim.
		out[i] = RotateTowards(aim, random, spreadDeg)
	}
	return out
}

// PelletDirections returns the unit launch direction of every pellet.
func PelletDirections(rng *rand.Rand, aim Quat, pellets int, spreadDeg float64) []Vec3 {
	rots := PelletRotations(rng, aim, pellets, spreadDeg)
	dirs := make([]Vec3, len(rots))
	for i, q := range rots {
		dirs[i] = q.Forward()
	}
	return dirs
}
