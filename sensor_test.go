package orbgeom

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestSensorBoresight(t *testing.T) {
	straight := SensorDefinition{ID: "cam", Name: "Camera", FOVDegrees: 10, Mount: IdentityQuaternion()}
	if !floats.EqualApprox(straight.Boresight(IdentityQuaternion()), []float64{0, 0, 1}, 1e-9) {
		t.Fatal("identity mount and attitude must point the boresight along +Z")
	}

	// A mount flipped 180 degrees about X points the boresight backwards.
	flipped := SensorDefinition{ID: "aft", FOVDegrees: 10, Mount: Quaternion{1, 0, 0, 0}}
	if !floats.EqualApprox(flipped.Boresight(IdentityQuaternion()), []float64{0, 0, -1}, 1e-9) {
		t.Fatal("flipped mount must point the boresight along -Z")
	}

	// Body attitude applies after the mount.
	body := NewQuaternionFromAxisAngle([]float64{1, 0, 0}, math.Pi/2)
	if !floats.EqualApprox(straight.Boresight(body), []float64{0, -1, 0}, 1e-9) {
		t.Fatal("body roll must carry the boresight with it")
	}
}

func TestSensorWorldOrientationOrder(t *testing.T) {
	mount := NewQuaternionFromAxisAngle([]float64{0, 0, 1}, math.Pi/2)
	body := NewQuaternionFromAxisAngle([]float64{1, 0, 0}, math.Pi/2)
	s := SensorDefinition{ID: "side", FOVDegrees: 20, Mount: mount}
	// Sensor X: mount takes it to body Y, body roll takes that to world Z.
	got := s.WorldOrientation(body).Rotate([]float64{1, 0, 0})
	if !floats.EqualApprox(got, []float64{0, 0, 1}, 1e-9) {
		t.Fatalf("mount must compose before the body attitude, got %v", got)
	}
}

func TestSensorHalfAngle(t *testing.T) {
	s := SensorDefinition{FOVDegrees: 25}
	if !floats.EqualWithinAbs(s.HalfAngle(), 12.5, 1e-12) {
		t.Fatal("half-angle is half the full FOV")
	}
}
