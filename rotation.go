package orbgeom

import (
	"fmt"
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/soniakeys/meeus/julian"
)

const (
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
	// J2000 is the Julian date of the J2000.0 epoch.
	J2000 = 2451545.0
)

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// GMST returns the Greenwich mean sidereal time in radians for the given
// Julian date, using the IAU-82 model (Vallado Eq 3-47).
func GMST(jd float64) float64 {
	tUT1 := (jd - J2000) / 36525
	// In seconds of time; 876600h = 3155760000s.
	gmstSec := 67310.54841 +
		(3155760000.0+8640184.812866)*tUT1 +
		0.093104*math.Pow(tUT1, 2) -
		6.2e-6*math.Pow(tUT1, 3)
	gmstSec = math.Mod(gmstSec, 86400)
	if gmstSec < 0 {
		gmstSec += 86400
	}
	return gmstSec / 86400 * 2 * math.Pi
}

// ECIToECEF returns the rotation from the inertial frame to the Earth-fixed
// frame at the given Julian date.
func ECIToECEF(jd float64) *mat64.Dense {
	return R3(GMST(jd))
}

// ECEFToECI returns the rotation from the Earth-fixed frame to the inertial
// frame at the given Julian date.
func ECEFToECI(jd float64) *mat64.Dense {
	return R3(-GMST(jd))
}

// ECIToECEFAtTime is a convenience wrapper of ECIToECEF for a UTC time.
func ECIToECEFAtTime(dt time.Time) *mat64.Dense {
	return ECIToECEF(julian.TimeToJD(dt))
}

// Quaternion is a rotation stored as (X, Y, Z, W). The rotation methods
// renormalize before use, so a non-unit quaternion is acceptable as input.
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion is the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

// NewQuaternionFromAxisAngle returns the quaternion rotating by the given
// angle (radians) about the given (assumed unit) axis.
func NewQuaternionFromAxisAngle(axis []float64, angle float64) Quaternion {
	s, c := math.Sincos(angle / 2)
	return Quaternion{axis[0] * s, axis[1] * s, axis[2] * s, c}
}

func (q Quaternion) String() string {
	return fmt.Sprintf("[%f %f %f %f]", q.X, q.Y, q.Z, q.W)
}

// Norm returns the norm of this quaternion.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalized returns the unit quaternion, or the identity for a zero input.
func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	if n < 1e-12 {
		return IdentityQuaternion()
	}
	return Quaternion{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// Mul returns the Hamilton product q*o, i.e. the rotation applying o first
// and then q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// ComposeOrientation chains two rotations: the inner rotation is applied
// first, then the outer one. This is how a sensor mount quaternion composes
// with the satellite body attitude to reach the world frame.
func ComposeOrientation(outer, inner Quaternion) Quaternion {
	return outer.Mul(inner)
}

// RotationMatrix returns the 3x3 active rotation matrix of this quaternion.
func (q Quaternion) RotationMatrix() *mat64.Dense {
	u := q.Normalized()
	x, y, z, w := u.X, u.Y, u.Z, u.W
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// Rotate applies this rotation to the given vector.
func (q Quaternion) Rotate(v []float64) []float64 {
	return MxV33(q.RotationMatrix(), v)
}

// NewQuaternionFromMatrix converts a rotation matrix to a quaternion via
// Shepperd's method, branching on the largest diagonal term for stability.
func NewQuaternionFromMatrix(m *mat64.Dense) Quaternion {
	tr := m.At(0, 0) + m.At(1, 1) + m.At(2, 2)
	var q Quaternion
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		q = Quaternion{
			(m.At(2, 1) - m.At(1, 2)) / s,
			(m.At(0, 2) - m.At(2, 0)) / s,
			(m.At(1, 0) - m.At(0, 1)) / s,
			s / 4,
		}
	case m.At(0, 0) > m.At(1, 1) && m.At(0, 0) > m.At(2, 2):
		s := 2 * math.Sqrt(1+m.At(0, 0)-m.At(1, 1)-m.At(2, 2))
		q = Quaternion{
			s / 4,
			(m.At(0, 1) + m.At(1, 0)) / s,
			(m.At(0, 2) + m.At(2, 0)) / s,
			(m.At(2, 1) - m.At(1, 2)) / s,
		}
	case m.At(1, 1) > m.At(2, 2):
		s := 2 * math.Sqrt(1+m.At(1, 1)-m.At(0, 0)-m.At(2, 2))
		q = Quaternion{
			(m.At(0, 1) + m.At(1, 0)) / s,
			s / 4,
			(m.At(1, 2) + m.At(2, 1)) / s,
			(m.At(0, 2) - m.At(2, 0)) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m.At(2, 2)-m.At(0, 0)-m.At(1, 1))
		q = Quaternion{
			(m.At(0, 2) + m.At(2, 0)) / s,
			(m.At(1, 2) + m.At(2, 1)) / s,
			s / 4,
			(m.At(1, 0) - m.At(0, 1)) / s,
		}
	}
	return q.Normalized()
}

// NewQuaternionFromBasis returns the rotation mapping the standard axes to
// the given right-handed orthonormal triad (as matrix columns).
func NewQuaternionFromBasis(x, y, z []float64) Quaternion {
	return NewQuaternionFromMatrix(mat64.NewDense(3, 3, []float64{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2],
	}))
}

// Slerp spherically interpolates from q to o by the fraction f in [0, 1],
// taking the shorter arc.
func (q Quaternion) Slerp(o Quaternion, f float64) Quaternion {
	a := q.Normalized()
	b := o.Normalized()
	cosΩ := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	if cosΩ < 0 {
		b = Quaternion{-b.X, -b.Y, -b.Z, -b.W}
		cosΩ = -cosΩ
	}
	if cosΩ > 0.9995 {
		// Nearly parallel: linear blend, then renormalize.
		return Quaternion{
			a.X + f*(b.X-a.X),
			a.Y + f*(b.Y-a.Y),
			a.Z + f*(b.Z-a.Z),
			a.W + f*(b.W-a.W),
		}.Normalized()
	}
	Ω := math.Acos(cosΩ)
	sinΩ := math.Sin(Ω)
	wa := math.Sin((1-f)*Ω) / sinΩ
	wb := math.Sin(f*Ω) / sinΩ
	return Quaternion{
		wa*a.X + wb*b.X,
		wa*a.Y + wb*b.Y,
		wa*a.Z + wb*b.Z,
		wa*a.W + wb*b.W,
	}
}
