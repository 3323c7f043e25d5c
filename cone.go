package orbgeom

import "math"

// ConeWireframe is the line-segment representation of a field-of-view cone:
// apex-to-rim spokes plus the closed rim circle.
type ConeWireframe struct {
	Spokes [][2][]float64
	Rim    [][]float64
}

// ConeTriangle is one face of the solid cone mesh.
type ConeTriangle struct {
	A, B, C []float64
}

// rimPoints samples the cone rim: the circle of radius length*tan(halfAngle)
// around the axis at distance length from the apex.
func rimPoints(apex, coneAxis []float64, halfAngleDeg, length float64, segments int) [][]float64 {
	axis := Unit(coneAxis)
	p1, p2 := PerpendicularBasis(axis)
	center := add(apex, scale(axis, length))
	radius := length * math.Tan(halfAngleDeg*deg2rad)

	pts := make([][]float64, segments)
	for i := 0; i < segments; i++ {
		sθ, cθ := math.Sincos(2 * math.Pi * float64(i) / float64(segments))
		pts[i] = add(center, add(scale(p1, radius*cθ), scale(p2, radius*sθ)))
	}
	return pts
}

// ConeWireframeMesh returns segments+1 spokes and the closed rim polyline
// for the cone of the given half-angle and slant length along its axis.
func ConeWireframeMesh(apex, coneAxis []float64, halfAngleDeg, length float64, segments int) ConeWireframe {
	rim := rimPoints(apex, coneAxis, halfAngleDeg, length, segments)

	w := ConeWireframe{
		Spokes: make([][2][]float64, segments+1),
		Rim:    make([][]float64, segments+1),
	}
	for i := 0; i <= segments; i++ {
		p := rim[i%segments]
		w.Spokes[i] = [2][]float64{apex, p}
		w.Rim[i] = p
	}
	return w
}

// ConeSolidMesh triangulates the cone surface into segments faces sharing
// the apex, for transparent rendering.
func ConeSolidMesh(apex, coneAxis []float64, halfAngleDeg, length float64, segments int) []ConeTriangle {
	rim := rimPoints(apex, coneAxis, halfAngleDeg, length, segments)

	tris := make([]ConeTriangle, segments)
	for i := 0; i < segments; i++ {
		tris[i] = ConeTriangle{apex, rim[i], rim[(i+1)%segments]}
	}
	return tris
}
