package orbgeom

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestCzmlExporterDocument(t *testing.T) {
	e := NewCzmlExporter("test", J2000, J2000+1, nil)

	apex := []float64{WGS84.SemiMajor + 500e3, 0, 0}
	ring := ComputeFootprint(apex, []float64{-1, 0, 0}, 5, WGS84, DefaultFootprintConfig())
	e.AddFootprint("sat/cam/000", ring, [4]int{255, 165, 0, 120})

	// An empty footprint (sensor looking at the sky) is skipped, not fatal.
	e.AddFootprint("sat/cam/001", nil, [4]int{255, 165, 0, 120})

	grid := GenerateCelestialGrid(GridConfig{RASpacingHours: 6, DecSpacingDeg: 30, SamplesPerLine: 18}, 1e7, J2000)
	e.AddCelestialGrid(grid, [4]int{80, 80, 255, 160})

	params := CovarianceToEllipsoid(CovarianceMatrix{XX: 9e6, YY: 4e6, ZZ: 1e6}, 1, nil)
	e.AddUncertaintyEllipsoid("sat/uncertainty", apex, params, "High", [3]int{255, 0, 0})

	var buf bytes.Buffer
	if err := e.Write(&buf); err != nil {
		t.Fatal(err)
	}

	var packets []CzmlPacket
	if err := json.Unmarshal(buf.Bytes(), &packets); err != nil {
		t.Fatal(err)
	}
	if packets[0].ID != "document" || packets[0].Version != "1.0" {
		t.Fatalf("first packet must be the document header, got %+v", packets[0])
	}
	if packets[0].Clock == nil || packets[0].Clock.Interval == "" {
		t.Fatal("document packet needs a clock interval")
	}

	var foundFootprint, foundSkipped, foundEllipsoid bool
	for _, p := range packets {
		switch p.ID {
		case "sat/cam/000":
			foundFootprint = true
			if p.Polygon == nil || len(p.Polygon.Positions.Cartesian)%3 != 0 {
				t.Fatal("footprint packet is malformed")
			}
		case "sat/cam/001":
			foundSkipped = true
		case "sat/uncertainty":
			foundEllipsoid = true
			if p.Ellipsoid == nil || len(p.Ellipsoid.Radii.Cartesian) != 3 {
				t.Fatal("ellipsoid packet is malformed")
			}
			if p.Orientation == nil || len(p.Orientation.UnitQuaternion) != 4 {
				t.Fatal("ellipsoid packet needs an orientation")
			}
			// High quality renders at 0.7 opacity.
			if p.Ellipsoid.Material.SolidColor.Color.RGBA[3] != 178 {
				t.Fatalf("alpha = %d, expected 178", p.Ellipsoid.Material.SolidColor.Color.RGBA[3])
			}
		}
	}
	if !foundFootprint || !foundEllipsoid {
		t.Fatal("footprint or ellipsoid packet missing")
	}
	if foundSkipped {
		t.Fatal("empty footprint must not be exported")
	}

	// 4 meridians + 5 parallels + 9 labels.
	var lines, labels int
	for _, p := range packets {
		if p.Polyline != nil {
			lines++
		}
		if p.Label != nil {
			labels++
		}
	}
	if lines != 9 || labels != 9 {
		t.Fatalf("grid export: %d polylines and %d labels", lines, labels)
	}
}

func TestCzmlPolygonValidate(t *testing.T) {
	p := &CzmlPolygon{Positions: CzmlPositionList{Cartesian: []float64{1, 2, 3, 4, 5, 6}}}
	if p.Validate() == nil {
		t.Fatal("two positions must not validate")
	}
	p.Positions.Cartesian = append(p.Positions.Cartesian, 7, 8, 9)
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
}
