package orbgeom

import "fmt"

// SensorDefinition describes one field-of-view cone mounted on a satellite
// body. Mount relates the sensor boresight (local +Z) to the body frame.
// The footprint and sky projection math is meaningful for a full angle in
// (0, 180) degrees; values outside that range are accepted but produce
// degenerate cones.
type SensorDefinition struct {
	ID         string
	Name       string
	FOVDegrees float64
	Mount      Quaternion
}

func (s SensorDefinition) String() string {
	return fmt.Sprintf("%s (fov %.1f deg)", s.Name, s.FOVDegrees)
}

// HalfAngle returns the cone half-angle in degrees.
func (s SensorDefinition) HalfAngle() float64 {
	return s.FOVDegrees / 2
}

// WorldOrientation composes the mount into the world frame: the mount
// rotation applies first, then the body attitude.
func (s SensorDefinition) WorldOrientation(body Quaternion) Quaternion {
	return ComposeOrientation(body, s.Mount)
}

// Boresight returns the sensor pointing axis in the world frame for the
// given body attitude.
func (s SensorDefinition) Boresight(body Quaternion) []float64 {
	return s.WorldOrientation(body).Rotate([]float64{0, 0, 1})
}
