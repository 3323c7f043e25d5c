package orbgeom

import (
	"math"
	"math/rand"

	"github.com/gonum/matrix/mat64"
)

const (
	// MinEllipsoidRadius and MaxEllipsoidRadius clamp the principal radii so
	// ill-conditioned covariances still render as a bounded shape.
	MinEllipsoidRadius = 10.0
	MaxEllipsoidRadius = 100000.0

	powerIterations = 100
)

// CovarianceMatrix stores the six independent scalars of a symmetric 3x3
// position covariance, in the same frame as the position it describes.
// Positive-definiteness is not assumed.
type CovarianceMatrix struct {
	XX, YY, ZZ, XY, XZ, YZ float64
}

// SymDense returns the full symmetric matrix.
func (c CovarianceMatrix) SymDense() *mat64.SymDense {
	return mat64.NewSymDense(3, []float64{
		c.XX, c.XY, c.XZ,
		c.XY, c.YY, c.YZ,
		c.XZ, c.YZ, c.ZZ,
	})
}

// EllipsoidParameters is the principal-axis decomposition of a covariance:
// one radius per axis (meters) and the rotation from principal axes to the
// covariance frame.
type EllipsoidParameters struct {
	Radii       []float64
	Orientation Quaternion
}

// mulV multiplies any 3x3 matrix with a vector.
func mulV(m mat64.Matrix, v []float64) []float64 {
	var out mat64.Vector
	out.MulVec(m, mat64.NewVector(3, v))
	return []float64{out.At(0, 0), out.At(1, 0), out.At(2, 0)}
}

// powerIterate estimates the dominant eigenpair by repeated multiplication
// and normalization from a random unit start vector. The start only affects
// how fast the iteration converges, never what it converges to, so a fixed
// iteration count is enough for a 3x3.
func powerIterate(m mat64.Matrix, rng *rand.Rand) (λ float64, v []float64) {
	v = Unit([]float64{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1})
	if Norm(v) == 0 {
		v = []float64{1, 0, 0}
	}
	for i := 0; i < powerIterations; i++ {
		w := mulV(m, v)
		n := Norm(w)
		if n < 1e-30 {
			// Matrix annihilates v (zero or rank-deficient): keep the
			// current direction, its eigenvalue is ~0.
			break
		}
		v = scale(w, 1/n)
	}
	return Dot(v, mulV(m, v)), v
}

func clampRadius(λ, sigmaScale float64) float64 {
	r := math.Sqrt(math.Abs(λ)) * sigmaScale
	return math.Min(MaxEllipsoidRadius, math.Max(MinEllipsoidRadius, r))
}

// CovarianceToEllipsoid decomposes the covariance into principal radii and
// an orientation quaternion: power iteration for the dominant eigenpair,
// one deflation for the second, and the cross product plus a Rayleigh
// quotient for the third. Negative or degenerate eigenvalues are absorbed
// by abs() and the radius clamp rather than rejected, so this never fails;
// a visualization that clamps beats one that crashes the render loop.
//
// A nil rng falls back to a fixed seed, making library output reproducible
// by default.
func CovarianceToEllipsoid(c CovarianceMatrix, sigmaScale float64, rng *rand.Rand) EllipsoidParameters {
	if rng == nil {
		rng = rand.New(rand.NewSource(42))
	}
	m := c.SymDense()

	λ1, v1 := powerIterate(m, rng)

	// Deflate the dominant pair out and find the second.
	deflated := mat64.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			deflated.Set(i, j, m.At(i, j)-λ1*v1[i]*v1[j])
		}
	}
	λ2, v2 := powerIterate(deflated, rng)
	// Re-orthogonalize against v1; the deflation leaves a small residual.
	v2 = Unit(sub(v2, scale(v1, Dot(v2, v1))))
	if Norm(v2) == 0 {
		v2, _ = PerpendicularBasis(v1)
	}

	v3 := Unit(Cross(v1, v2))
	λ3 := math.Abs(Dot(v3, mulV(m, v3)))

	return EllipsoidParameters{
		Radii: []float64{
			clampRadius(λ1, sigmaScale),
			clampRadius(λ2, sigmaScale),
			clampRadius(λ3, sigmaScale),
		},
		// Principal axes as columns form the rotation into the covariance frame.
		Orientation: NewQuaternionFromBasis(v1, v2, v3),
	}
}

// OpacityForQuality maps the host panel's quality mode to the ellipsoid
// fill opacity.
func OpacityForQuality(mode string) float64 {
	switch mode {
	case "High":
		return 0.7
	case "Medium":
		return 0.3
	case "Low":
		return 0.1
	default:
		return 0.3
	}
}
