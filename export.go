package orbgeom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/julian"
)

// The exporter emits CZML, the packet stream the Cesium host ingests
// directly. Only the subset of properties the engine produces is modeled.

// CzmlPacket is one CZML packet.
type CzmlPacket struct {
	ID          string           `json:"id"`
	Name        string           `json:"name,omitempty"`
	Version     string           `json:"version,omitempty"`
	Clock       *CzmlClock       `json:"clock,omitempty"`
	Position    *CzmlPosition    `json:"position,omitempty"`
	Orientation *CzmlOrientation `json:"orientation,omitempty"`
	Polygon     *CzmlPolygon     `json:"polygon,omitempty"`
	Polyline    *CzmlPolyline    `json:"polyline,omitempty"`
	Ellipsoid   *CzmlEllipsoid   `json:"ellipsoid,omitempty"`
	Label       *CzmlLabel       `json:"label,omitempty"`
}

// CzmlClock definition.
type CzmlClock struct {
	Interval    string  `json:"interval"`
	CurrentTime string  `json:"currentTime"`
	Multiplier  float64 `json:"multiplier,omitempty"`
}

// CzmlPosition definition.
type CzmlPosition struct {
	Cartesian []float64 `json:"cartesian"`
}

// CzmlOrientation definition.
type CzmlOrientation struct {
	UnitQuaternion []float64 `json:"unitQuaternion"`
}

// CzmlPositionList definition.
type CzmlPositionList struct {
	Cartesian []float64 `json:"cartesian"`
}

// CzmlColor definition.
type CzmlColor struct {
	RGBA [4]int `json:"rgba"`
}

// CzmlMaterial definition.
type CzmlMaterial struct {
	SolidColor struct {
		Color CzmlColor `json:"color"`
	} `json:"solidColor"`
}

func solidColor(rgba [4]int) *CzmlMaterial {
	m := &CzmlMaterial{}
	m.SolidColor.Color = CzmlColor{rgba}
	return m
}

// CzmlPolygon definition.
type CzmlPolygon struct {
	Positions CzmlPositionList `json:"positions"`
	Material  *CzmlMaterial    `json:"material,omitempty"`
	Fill      bool             `json:"fill"`
}

// Validate validates a CzmlPolygon.
func (p *CzmlPolygon) Validate() error {
	if len(p.Positions.Cartesian) < 9 || len(p.Positions.Cartesian)%3 != 0 {
		return errors.New("a polygon needs at least three cartesian positions")
	}
	return nil
}

// CzmlPolyline definition.
type CzmlPolyline struct {
	Positions CzmlPositionList `json:"positions"`
	Material  *CzmlMaterial    `json:"material,omitempty"`
	Width     float64          `json:"width,omitempty"`
}

// CzmlEllipsoid definition.
type CzmlEllipsoid struct {
	Radii struct {
		Cartesian []float64 `json:"cartesian"`
	} `json:"radii"`
	Material *CzmlMaterial `json:"material,omitempty"`
	Fill     bool          `json:"fill"`
}

// CzmlLabel definition.
type CzmlLabel struct {
	Text      string     `json:"text"`
	FillColor *CzmlColor `json:"fillColor,omitempty"`
	Show      bool       `json:"show"`
}

func flatten(pts [][]float64) []float64 {
	flat := make([]float64, 0, 3*len(pts))
	for _, p := range pts {
		flat = append(flat, p[0], p[1], p[2])
	}
	return flat
}

// CzmlExporter accumulates packets and streams them as one CZML document.
type CzmlExporter struct {
	name    string
	packets []*CzmlPacket
	logger  kitlog.Logger
}

// NewCzmlExporter initializes a document spanning [start, end] in Julian
// dates. A nil logger silences the exporter.
func NewCzmlExporter(name string, startJD, endJD float64, logger kitlog.Logger) *CzmlExporter {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	interval := fmt.Sprintf("%s/%s",
		julian.JDToTime(startJD).UTC().Format(time.RFC3339),
		julian.JDToTime(endJD).UTC().Format(time.RFC3339))
	doc := &CzmlPacket{
		ID:      "document",
		Name:    name,
		Version: "1.0",
		Clock: &CzmlClock{
			Interval:    interval,
			CurrentTime: julian.JDToTime(startJD).UTC().Format(time.RFC3339),
			Multiplier:  60,
		},
	}
	return &CzmlExporter{name: name, packets: []*CzmlPacket{doc}, logger: logger}
}

// AddFootprint appends a ground footprint polygon. Empty footprints (the
// sensor looks off into space) are skipped, not errors.
func (e *CzmlExporter) AddFootprint(id string, boundary [][]float64, rgba [4]int) {
	poly := &CzmlPolygon{Positions: CzmlPositionList{flatten(boundary)}, Material: solidColor(rgba), Fill: true}
	if err := poly.Validate(); err != nil {
		e.logger.Log("id", id, "skipped", err)
		return
	}
	e.packets = append(e.packets, &CzmlPacket{ID: id, Polygon: poly})
}

// AddPolyline appends a generic polyline (sky projections, cone wireframes).
func (e *CzmlExporter) AddPolyline(id string, line [][]float64, rgba [4]int) {
	if len(line) < 2 {
		e.logger.Log("id", id, "skipped", "a polyline needs at least two positions")
		return
	}
	e.packets = append(e.packets, &CzmlPacket{
		ID:       id,
		Polyline: &CzmlPolyline{Positions: CzmlPositionList{flatten(line)}, Material: solidColor(rgba), Width: 1},
	})
}

// AddCelestialGrid appends every grid line and its label anchor.
func (e *CzmlExporter) AddCelestialGrid(grid CelestialGrid, rgba [4]int) {
	for i, line := range grid.RALines {
		e.AddPolyline(fmt.Sprintf("grid/ra/%d", i), line, rgba)
	}
	for i, line := range grid.DecLines {
		e.AddPolyline(fmt.Sprintf("grid/dec/%d", i), line, rgba)
	}
	for i, lbl := range append(grid.RALabels, grid.DecLabels...) {
		e.packets = append(e.packets, &CzmlPacket{
			ID:       fmt.Sprintf("grid/label/%d", i),
			Position: &CzmlPosition{lbl.Position},
			Label:    &CzmlLabel{Text: lbl.Text, FillColor: &CzmlColor{rgba}, Show: true},
		})
	}
}

// AddUncertaintyEllipsoid appends a covariance ellipsoid at the given
// center, with opacity derived from the host's quality mode.
func (e *CzmlExporter) AddUncertaintyEllipsoid(id string, center []float64, params EllipsoidParameters, quality string, rgb [3]int) {
	alpha := int(OpacityForQuality(quality) * 255)
	ell := &CzmlEllipsoid{Material: solidColor([4]int{rgb[0], rgb[1], rgb[2], alpha}), Fill: true}
	ell.Radii.Cartesian = params.Radii
	q := params.Orientation.Normalized()
	e.packets = append(e.packets, &CzmlPacket{
		ID:          id,
		Position:    &CzmlPosition{center},
		Orientation: &CzmlOrientation{[]float64{q.X, q.Y, q.Z, q.W}},
		Ellipsoid:   ell,
	})
}

// Write streams the document to w.
func (e *CzmlExporter) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.packets); err != nil {
		return fmt.Errorf("encoding %s: %w", e.name, err)
	}
	e.logger.Log("exported", e.name, "packets", len(e.packets))
	return nil
}

// WriteFile writes the document into the configured output directory and
// returns the file name.
func (e *CzmlExporter) WriteFile() (string, error) {
	fname := fmt.Sprintf("%s/%s.czml", OutputDir(), e.name)
	f, err := os.Create(fname)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := e.Write(f); err != nil {
		return "", err
	}
	return fname, nil
}
