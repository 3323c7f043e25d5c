package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/julian"
	"github.com/spf13/viper"

	orbgeom "github.com/dovskyrick/r3f-test-sub000"
)

// This tool reads a scenario file, samples the satellite track from its TLE,
// runs the sensor geometry engine and writes the result as a CZML document.

const (
	defaultScenario = "~~unset~~"
	dateFormat      = "2006-01-02 15:04:05"
)

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "fovtool scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log every packet the exporter emits")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	name := viper.GetString("mission.name")
	startDT, err := time.Parse(dateFormat, viper.GetString("mission.start"))
	if err != nil {
		log.Fatalf("mission.start: %s", err)
	}
	endDT, err := time.Parse(dateFormat, viper.GetString("mission.end"))
	if err != nil {
		log.Fatalf("mission.end: %s", err)
	}
	step := viper.GetDuration("mission.step")
	if step <= 0 {
		step = time.Minute
	}
	if verbose {
		log.Printf("[conf] %s: %s -> %s step %s\n", name, startDT, endDT, step)
	}

	posTrack, attTrack := sampleTracks(startDT, endDT, step)

	var logger kitlog.Logger
	if verbose {
		logger = kitlog.NewLogfmtLogger(os.Stderr)
	}
	startJD, endJD := julian.TimeToJD(startDT), julian.TimeToJD(endDT)
	exporter := orbgeom.NewCzmlExporter(name, startJD, endJD, logger)

	for _, sensor := range readSensors() {
		idx := 0
		for dt := startDT; !dt.After(endDT); dt = dt.Add(step) {
			jd := julian.TimeToJD(dt)
			apex := posTrack.Interpolate(jd)
			att := attTrack.Interpolate(jd)
			boundary := orbgeom.ComputeFootprint(apex, sensor.Boresight(att),
				sensor.HalfAngle(), orbgeom.WGS84, orbgeom.DefaultFootprintConfig())
			exporter.AddFootprint(fmt.Sprintf("%s/%s/%03d", name, sensor.ID, idx), boundary, [4]int{255, 165, 0, 120})
			idx++
		}

		// Snapshot of the cone and its sky projection at mid-scenario.
		midJD := (startJD + endJD) / 2
		apex := posTrack.Interpolate(midJD)
		axis := sensor.Boresight(attTrack.Interpolate(midJD))
		wf := orbgeom.ConeWireframeMesh(apex, axis, sensor.HalfAngle(), 1e6, 36)
		exporter.AddPolyline(fmt.Sprintf("%s/%s/cone-rim", name, sensor.ID), wf.Rim, [4]int{255, 255, 255, 200})
		sky := orbgeom.ComputeCelestialProjection(apex, axis, sensor.HalfAngle(), 1e7, 36)
		exporter.AddPolyline(fmt.Sprintf("%s/%s/sky", name, sensor.ID), append(sky, sky[0]), [4]int{0, 255, 255, 200})
	}

	if viper.GetBool("grid.enabled") {
		gridCfg := orbgeom.DefaultGridConfig()
		if v := viper.GetFloat64("grid.ra_hours"); v > 0 {
			gridCfg.RASpacingHours = v
		}
		if v := viper.GetFloat64("grid.dec_degrees"); v > 0 {
			gridCfg.DecSpacingDeg = v
		}
		grid := orbgeom.GenerateCelestialGrid(gridCfg, 1e7, startJD)
		exporter.AddCelestialGrid(grid, [4]int{80, 80, 255, 160})
	}

	if viper.GetBool("covariance.enabled") {
		cov := orbgeom.CovarianceMatrix{
			XX: viper.GetFloat64("covariance.xx"),
			YY: viper.GetFloat64("covariance.yy"),
			ZZ: viper.GetFloat64("covariance.zz"),
			XY: viper.GetFloat64("covariance.xy"),
			XZ: viper.GetFloat64("covariance.xz"),
			YZ: viper.GetFloat64("covariance.yz"),
		}
		sigma := viper.GetFloat64("covariance.sigma")
		if sigma == 0 {
			sigma = 1
		}
		params := orbgeom.CovarianceToEllipsoid(cov, sigma, rand.New(rand.NewSource(time.Now().UnixNano())))
		center := posTrack.Interpolate((startJD + endJD) / 2)
		exporter.AddUncertaintyEllipsoid(name+"/uncertainty", center, params,
			viper.GetString("covariance.quality"), [3]int{255, 0, 0})
	}

	fname, err := exporter.WriteFile()
	if err != nil {
		log.Fatalf("export: %s", err)
	}
	log.Printf("saved %s\n", fname)
}

// sampleTracks propagates the scenario TLE over the mission span and returns
// the position track (ECEF, meters) and a nadir-pointing attitude track.
func sampleTracks(startDT, endDT time.Time, step time.Duration) (orbgeom.PositionTrack, orbgeom.AttitudeTrack) {
	tle1 := viper.GetString("satellite.tle1")
	tle2 := viper.GetString("satellite.tle2")
	if tle1 == "" || tle2 == "" {
		log.Fatal("satellite.tle1 and satellite.tle2 are required")
	}
	sat := satellite.TLEToSat(tle1, tle2, satellite.GravityWGS84)

	const kmToM = 1000.0
	var posSamples []orbgeom.PositionSample
	var attSamples []orbgeom.AttitudeSample
	for dt := startDT; !dt.After(endDT); dt = dt.Add(step) {
		year, month, day := dt.Date()
		hour, min, sec := dt.Clock()
		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		jday := satellite.JDay(year, int(month), day, hour, min, sec)
		gmst := satellite.ThetaG_JD(jday)
		posECEF := satellite.ECIToECEF(posECI, gmst)

		jd := julian.TimeToJD(dt)
		r := []float64{posECEF.X * kmToM, posECEF.Y * kmToM, posECEF.Z * kmToM}
		posSamples = append(posSamples, orbgeom.PositionSample{JD: jd, Pos: r})
		attSamples = append(attSamples, orbgeom.AttitudeSample{JD: jd, Att: nadirAttitude(r)})
	}

	posTrack, err := orbgeom.NewPositionTrack(posSamples)
	if err != nil {
		log.Fatalf("position track: %s", err)
	}
	attTrack, err := orbgeom.NewAttitudeTrack(attSamples)
	if err != nil {
		log.Fatalf("attitude track: %s", err)
	}
	return posTrack, attTrack
}

// nadirAttitude returns the body attitude whose +Z axis points from the
// given position towards the body center.
func nadirAttitude(r []float64) orbgeom.Quaternion {
	z := orbgeom.Unit([]float64{-r[0], -r[1], -r[2]})
	x, y := orbgeom.PerpendicularBasis(z)
	return orbgeom.NewQuaternionFromBasis(x, y, z)
}

// readSensors loads the [sensors.*] tables, sorted by key for stable output.
func readSensors() []orbgeom.SensorDefinition {
	keys := make([]string, 0)
	for key := range viper.GetStringMap("sensors") {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sensors := make([]orbgeom.SensorDefinition, 0, len(keys))
	for _, key := range keys {
		sub := viper.Sub("sensors." + key)
		mount := orbgeom.IdentityQuaternion()
		if m := toFloats(sub.Get("mount")); len(m) == 4 {
			mount = orbgeom.Quaternion{X: m[0], Y: m[1], Z: m[2], W: m[3]}
		}
		sensors = append(sensors, orbgeom.SensorDefinition{
			ID:         key,
			Name:       sub.GetString("name"),
			FOVDegrees: sub.GetFloat64("fov"),
			Mount:      mount,
		})
	}
	if len(sensors) == 0 {
		log.Fatal("no sensors defined in scenario")
	}
	return sensors
}

func toFloats(val interface{}) []float64 {
	raw, ok := val.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		switch f := v.(type) {
		case float64:
			out = append(out, f)
		case int64:
			out = append(out, float64(f))
		case int:
			out = append(out, float64(f))
		}
	}
	return out
}
