package orbgeom

import "math"

// Ellipsoid is a reference body ellipsoid of revolution, radii in meters.
type Ellipsoid struct {
	Name                 string
	SemiMajor, SemiMinor float64
}

// WGS84 is the Earth reference ellipsoid all footprints are cast against.
var WGS84 = Ellipsoid{"WGS84", 6378137.0, 6356752.314245}

// RayIntersection casts a forward ray from origin (outside the body) along
// the given unit direction and returns the near intersection with the
// surface, or false when the ray misses the body entirely.
//
// The ellipsoid is scaled to a unit sphere, where the intersection reduces
// to a quadratic in the ray parameter; the parameter carries back unchanged
// since the scaling is linear.
func (e Ellipsoid) RayIntersection(origin, direction []float64) ([]float64, bool) {
	ox, oy, oz := origin[0]/e.SemiMajor, origin[1]/e.SemiMajor, origin[2]/e.SemiMinor
	dx, dy, dz := direction[0]/e.SemiMajor, direction[1]/e.SemiMajor, direction[2]/e.SemiMinor

	a := dx*dx + dy*dy + dz*dz
	b := 2 * (ox*dx + oy*dy + oz*dz)
	c := ox*ox + oy*oy + oz*oz - 1
	if a == 0 {
		return nil, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 {
		// Surface is behind the ray.
		return nil, false
	}
	return add(origin, scale(direction, t)), true
}

// SurfaceNormal returns the outward unit normal at a surface point, i.e. the
// gradient of the implicit surface function.
func (e Ellipsoid) SurfaceNormal(p []float64) []float64 {
	return Unit([]float64{
		p[0] / (e.SemiMajor * e.SemiMajor),
		p[1] / (e.SemiMajor * e.SemiMajor),
		p[2] / (e.SemiMinor * e.SemiMinor),
	})
}

// PointAbove returns the point at the given geodetic-free spherical latitude
// and longitude (radians) and altitude (meters) above the surface radius in
// that direction. It is a convenience for placing test and scenario apexes.
func (e Ellipsoid) PointAbove(lat, lon, altitude float64) []float64 {
	dir := []float64{
		math.Cos(lat) * math.Cos(lon),
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
	}
	// Radius of the ellipse section in this direction.
	cl, sl := math.Cos(lat), math.Sin(lat)
	r := e.SemiMajor * e.SemiMinor / math.Sqrt(e.SemiMinor*e.SemiMinor*cl*cl+e.SemiMajor*e.SemiMajor*sl*sl)
	return scale(dir, r+altitude)
}
