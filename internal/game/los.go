package game

import "math"

// Box is an axis-aligned obstacle footprint on the ground (XZ) plane.
// Obstacles are treated as infinitely tall.
type Box struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// BoxAt builds a box from its minimum corner and size.
func BoxAt(x, z, w, d float64) Box {
	return Box{MinX: x, MinZ: z, MaxX: x + w, MaxZ: z + d}
}

// Center returns the box centre at ground height.
func (b Box) Center() Vec3 {
	return Vec3{(b.MinX + b.MaxX) / 2, 0, (b.MinZ + b.MaxZ) / 2}
}

// Contains reports whether p lies inside the box footprint.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// HasLineOfSight returns true if the ground projection of the segment a->b
// does not intersect any obstacle.
func HasLineOfSight(a, b Vec3, obstacles []Box) bool {
	for _, o := range obstacles {
		if _, hit := segmentBoxHitT(a.X, a.Z, b.X, b.Z, o); hit {
			return false
		}
	}
	return true
}

// ForwardProbe stands in for the physics raycast: a ray from origin along
// forward, out to probeDist, reports true only when the first thing it hits
// is the target circle (centre target, radius targetRadius).
func ForwardProbe(origin, forward Vec3, probeDist float64, target Vec3, targetRadius float64, obstacles []Box) bool {
	dir := forward.Flat().Normalize()
	if dir.Len() == 0 || probeDist <= 0 {
		return false
	}
	tTarget, hit := rayCircleHitT(origin, dir, probeDist, target, targetRadius)
	if !hit {
		return false
	}
	end := origin.Add(dir.Scale(probeDist))
	for _, o := range obstacles {
		t, blocked := segmentBoxHitT(origin.X, origin.Z, end.X, end.Z, o)
		if blocked && t*probeDist < tTarget {
			return false
		}
	}
	return true
}

// FirstObstacleHit returns the distance along dir to the first obstacle
// within maxDist, and whether one was hit.
func FirstObstacleHit(origin, dir Vec3, maxDist float64, obstacles []Box) (float64, bool) {
	d := dir.Flat().Normalize()
	end := origin.Add(d.Scale(maxDist))
	best := math.Inf(1)
	for _, o := range obstacles {
		if t, hit := segmentBoxHitT(origin.X, origin.Z, end.X, end.Z, o); hit && t*maxDist < best {
			best = t * maxDist
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// rayCircleHitT returns the distance along a unit ground-plane direction at
// which the ray enters the circle, limited to maxDist. An origin inside the
// circle hits at distance 0.
func rayCircleHitT(origin, dir Vec3, maxDist float64, center Vec3, radius float64) (float64, bool) {
	ox := origin.X - center.X
	oz := origin.Z - center.Z
	c := ox*ox + oz*oz - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := ox*dir.X + oz*dir.Z
	if b > 0 {
		return 0, false // pointing away
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// segmentBoxHitT returns the first segment parameter t in [0,1] where the
// line from (ox,oz)->(ex,ez) enters the box. The bool is false when no hit
// exists.
func segmentBoxHitT(ox, oz, ex, ez float64, b Box) (float64, bool) {
	dx := ex - ox
	dz := ez - oz

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if ox < b.MinX || ox > b.MaxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (b.MinX - ox) * invD
		t2 := (b.MaxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Z slab
	if math.Abs(dz) < 1e-12 {
		if oz < b.MinZ || oz > b.MaxZ {
			return 0, false
		}
	} else {
		invD := 1.0 / dz
		t1 := (b.MinZ - oz) * invD
		t2 := (b.MaxZ - oz) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}
