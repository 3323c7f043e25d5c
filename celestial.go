package orbgeom

import (
	"fmt"
	"math"
)

// ComputeCelestialProjection projects the cone onto the sky: the same fan as
// the footprint, but every direction is pushed to sphereRadius from the apex
// with no intersection test, since projecting outward always succeeds. The
// result always holds exactly numSamples points.
func ComputeCelestialProjection(apex, coneAxis []float64, halfAngleDeg, sphereRadius float64, numSamples int) [][]float64 {
	axis := Unit(coneAxis)
	p1, p2 := PerpendicularBasis(axis)
	sinHalf, cosHalf := math.Sincos(halfAngleDeg * deg2rad)

	ring := make([][]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		θ := 2 * math.Pi * float64(i) / float64(numSamples)
		dir := coneDirection(axis, p1, p2, sinHalf, cosHalf, θ)
		ring[i] = add(apex, scale(dir, sphereRadius))
	}
	return ring
}

// GridLabel anchors a text label on a grid line.
type GridLabel struct {
	Text     string
	Position []float64
}

// CelestialGrid holds right-ascension meridians and declination parallels in
// the Earth-fixed frame, plus label anchors for each line.
type CelestialGrid struct {
	RALines   [][][]float64
	DecLines  [][][]float64
	RALabels  []GridLabel
	DecLabels []GridLabel
}

// GridConfig tunes the celestial grid density.
type GridConfig struct {
	RASpacingHours float64
	DecSpacingDeg  float64
	SamplesPerLine int
}

// DefaultGridConfig returns the configured (or built-in) grid spacing.
func DefaultGridConfig() GridConfig {
	c := orbgeomConfig()
	return GridConfig{c.raSpacingHours, c.decSpacingDeg, c.samplesPerLine}
}

// GenerateCelestialGrid builds the RA/Dec reference grid on a sphere of the
// given radius. The grid is laid out in the inertial frame, where it is
// fixed to the stars, then rotated into the Earth-fixed frame at the
// reference Julian date so the host can render it in the same frame as
// everything else while the Earth turns beneath it.
//
// Declination parallels step by DecSpacingDeg and exclude both poles, where
// the parallel degenerates to a point. Meridians step by RASpacingHours
// (15 degrees per hour) and run pole to pole.
func GenerateCelestialGrid(cfg GridConfig, radius, referenceJD float64) CelestialGrid {
	rot := ECIToECEF(referenceJD)
	grid := CelestialGrid{}

	for dec := -90 + cfg.DecSpacingDeg; dec < 90; dec += cfg.DecSpacingDeg {
		sδ, cδ := math.Sincos(dec * deg2rad)
		line := make([][]float64, cfg.SamplesPerLine+1)
		for i := 0; i <= cfg.SamplesPerLine; i++ {
			ra := 2 * math.Pi * float64(i) / float64(cfg.SamplesPerLine)
			sα, cα := math.Sincos(ra)
			line[i] = MxV33(rot, []float64{radius * cδ * cα, radius * cδ * sα, radius * sδ})
		}
		grid.DecLines = append(grid.DecLines, line)
		grid.DecLabels = append(grid.DecLabels, GridLabel{fmt.Sprintf("%+.0f°", dec), line[0]})
	}

	for ra := 0.0; ra < 360; ra += cfg.RASpacingHours * 15 {
		sα, cα := math.Sincos(ra * deg2rad)
		line := make([][]float64, cfg.SamplesPerLine+1)
		for i := 0; i <= cfg.SamplesPerLine; i++ {
			dec := -math.Pi/2 + math.Pi*float64(i)/float64(cfg.SamplesPerLine)
			sδ, cδ := math.Sincos(dec)
			line[i] = MxV33(rot, []float64{radius * cδ * cα, radius * cδ * sα, radius * sδ})
		}
		grid.RALines = append(grid.RALines, line)
		// Anchor the label where the meridian crosses the equator.
		grid.RALabels = append(grid.RALabels, GridLabel{fmt.Sprintf("%gh", ra/15), line[cfg.SamplesPerLine/2]})
	}
	return grid
}
