package orbgeom

import (
	"math"
	"sort"
)

// FootprintConfig tunes the footprint ray fan.
type FootprintConfig struct {
	BaseRayCount    int     // rays evenly spread around the cone
	SubdivisionRays int     // extra rays inserted per horizon transition
	OffsetMeters    float64 // outward offset of surface points, against z-fighting with terrain
}

// DefaultFootprintConfig returns the configured (or built-in) fan settings.
func DefaultFootprintConfig() FootprintConfig {
	c := orbgeomConfig()
	return FootprintConfig{c.baseRayCount, c.subdivisionRays, c.offsetMeters}
}

// coneDirection returns the unit direction at fan angle θ around the cone
// defined by the axis, its perpendicular basis and the half-angle sine and
// cosine.
func coneDirection(axis, p1, p2 []float64, sinHalf, cosHalf, θ float64) []float64 {
	sθ, cθ := math.Sincos(θ)
	return []float64{
		cosHalf*axis[0] + sinHalf*(cθ*p1[0]+sθ*p2[0]),
		cosHalf*axis[1] + sinHalf*(cθ*p1[1]+sθ*p2[1]),
		cosHalf*axis[2] + sinHalf*(cθ*p1[2]+sθ*p2[2]),
	}
}

type footprintRay struct {
	θ     float64
	point []float64
	hit   bool
}

// ComputeFootprint casts a fan of rays over the cone at apex along coneAxis
// (unit) and returns the ordered ground polygon on the body.
//
// When every ray hits, the polygon is the full closed ring (BaseRayCount+1
// points); when none does, the footprint is empty. Otherwise the field of
// view straddles the horizon: each adjacent hit/miss pair gets
// SubdivisionRays intermediate rays so the limb edge is resolved where the
// fixed fan would alias, in a single pass (deliberately not recursive).
// Surface points are pushed OffsetMeters out along the local normal.
func ComputeFootprint(apex, coneAxis []float64, halfAngleDeg float64, body Ellipsoid, cfg FootprintConfig) [][]float64 {
	axis := Unit(coneAxis)
	p1, p2 := PerpendicularBasis(axis)
	sinHalf, cosHalf := math.Sincos(halfAngleDeg * deg2rad)

	n := cfg.BaseRayCount
	step := 2 * math.Pi / float64(n)
	rays := make([]footprintRay, n)
	hits := 0
	for i := 0; i < n; i++ {
		θ := float64(i) * step
		dir := coneDirection(axis, p1, p2, sinHalf, cosHalf, θ)
		pt, ok := body.RayIntersection(apex, dir)
		rays[i] = footprintRay{θ, pt, ok}
		if ok {
			hits++
		}
	}

	lift := func(p []float64) []float64 {
		return add(p, scale(body.SurfaceNormal(p), cfg.OffsetMeters))
	}

	if hits == 0 {
		return nil
	}
	if hits == n {
		// Common case: the whole cone sees ground. Close the ring.
		ring := make([][]float64, 0, n+1)
		for _, r := range rays {
			ring = append(ring, lift(r.point))
		}
		ring = append(ring, ring[0])
		return ring
	}

	// Partial footprint: keep base hits and refine every transition.
	kept := make([]footprintRay, 0, hits+2*cfg.SubdivisionRays)
	for _, r := range rays {
		if r.hit {
			kept = append(kept, r)
		}
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if rays[i].hit == rays[j].hit {
			continue
		}
		for k := 1; k <= cfg.SubdivisionRays; k++ {
			// Walk the gap from θi towards θi+step, which wraps past 2π on
			// the last pair.
			θ := rays[i].θ + step*float64(k)/float64(cfg.SubdivisionRays+1)
			dir := coneDirection(axis, p1, p2, sinHalf, cosHalf, θ)
			if pt, ok := body.RayIntersection(apex, dir); ok {
				kept = append(kept, footprintRay{math.Mod(θ, 2*math.Pi), pt, true})
			}
		}
	}

	sort.Slice(kept, func(a, b int) bool { return kept[a].θ < kept[b].θ })
	boundary := make([][]float64, len(kept))
	for i, r := range kept {
		boundary[i] = lift(r.point)
	}
	return boundary
}
