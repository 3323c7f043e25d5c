package orbgeom

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

var (
	cfgOnce sync.Once
	config  = _orbgeomconfig{}
)

// _orbgeomconfig is a "hidden" struct, just use `orbgeomConfig`.
type _orbgeomconfig struct {
	baseRayCount    int
	subdivisionRays int
	samplesPerLine  int
	coneSegments    int
	offsetMeters    float64
	sphereRadius    float64
	raSpacingHours  float64
	decSpacingDeg   float64
	outputDir       string
}

// orbgeomConfig returns the engine defaults. A TOML file next to the caller
// (or pointed at by ORBGEOM_CONFIG) overrides them; without one the built-in
// defaults apply, so the library works out of the box. Loaded once, so the
// rest of the engine stays safe for concurrent callers.
func orbgeomConfig() _orbgeomconfig {
	cfgOnce.Do(loadConfig)
	return config
}

func loadConfig() {
	v := viper.New()
	v.SetDefault("footprint.rays", 36)
	v.SetDefault("footprint.subdivision_rays", 10)
	v.SetDefault("footprint.offset_meters", 100.0)
	v.SetDefault("celestial.sphere_radius", 1e7)
	v.SetDefault("grid.ra_spacing_hours", 2.0)
	v.SetDefault("grid.dec_spacing_degrees", 15.0)
	v.SetDefault("grid.samples_per_line", 180)
	v.SetDefault("cone.segments", 36)
	v.SetDefault("general.output_path", ".")

	v.SetConfigName("orbgeom")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$ORBGEOM_CONFIG")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("orbgeom.toml: %s", err))
		}
	}

	config = _orbgeomconfig{
		baseRayCount:    v.GetInt("footprint.rays"),
		subdivisionRays: v.GetInt("footprint.subdivision_rays"),
		samplesPerLine:  v.GetInt("grid.samples_per_line"),
		coneSegments:    v.GetInt("cone.segments"),
		offsetMeters:    v.GetFloat64("footprint.offset_meters"),
		sphereRadius:    v.GetFloat64("celestial.sphere_radius"),
		raSpacingHours:  v.GetFloat64("grid.ra_spacing_hours"),
		decSpacingDeg:   v.GetFloat64("grid.dec_spacing_degrees"),
		outputDir:       v.GetString("general.output_path"),
	}
}

// OutputDir returns the configured export directory.
func OutputDir() string {
	return orbgeomConfig().outputDir
}
