package orbgeom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

func TestCovarianceIsotropic(t *testing.T) {
	const σ = 2000.0
	params := CovarianceToEllipsoid(CovarianceMatrix{XX: σ * σ, YY: σ * σ, ZZ: σ * σ}, 1, nil)
	for i, r := range params.Radii {
		if !floats.EqualWithinAbs(r, σ, 1e-3) {
			t.Fatalf("radius %d = %f, expected %f", i, r, σ)
		}
	}
	// Scale factor applies linearly.
	params = CovarianceToEllipsoid(CovarianceMatrix{XX: σ * σ, YY: σ * σ, ZZ: σ * σ}, 3, nil)
	for i, r := range params.Radii {
		if !floats.EqualWithinAbs(r, 3*σ, 1e-2) {
			t.Fatalf("scaled radius %d = %f", i, r)
		}
	}
}

func TestCovarianceAnisotropic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := CovarianceToEllipsoid(CovarianceMatrix{XX: 9e6, YY: 4e6, ZZ: 1e6}, 1, rng)
	want := []float64{3000, 2000, 1000}
	for i := range want {
		if !floats.EqualWithinAbs(params.Radii[i], want[i], want[i]*0.01) {
			t.Fatalf("radius %d = %f, expected %f", i, params.Radii[i], want[i])
		}
	}
	// Dominant principal axis must align with X (up to sign).
	v1 := params.Orientation.Rotate([]float64{1, 0, 0})
	if math.Abs(v1[0]) < 0.999 {
		t.Fatalf("dominant axis %v not aligned with X", v1)
	}
}

func TestCovarianceClamping(t *testing.T) {
	// Near-zero covariance clamps at the floor instead of vanishing.
	params := CovarianceToEllipsoid(CovarianceMatrix{XX: 1e-6, YY: 1e-6, ZZ: 1e-6}, 1, nil)
	for _, r := range params.Radii {
		if r != MinEllipsoidRadius {
			t.Fatalf("tiny covariance must clamp to %f, got %f", MinEllipsoidRadius, r)
		}
	}
	// Huge covariance clamps at the ceiling.
	params = CovarianceToEllipsoid(CovarianceMatrix{XX: 1e14, YY: 1e14, ZZ: 1e14}, 1, nil)
	for _, r := range params.Radii {
		if r != MaxEllipsoidRadius {
			t.Fatalf("huge covariance must clamp to %f, got %f", MaxEllipsoidRadius, r)
		}
	}
	// Negative eigenvalues are absorbed, not rejected.
	params = CovarianceToEllipsoid(CovarianceMatrix{XX: -4e6, YY: -4e6, ZZ: -4e6}, 1, nil)
	for _, r := range params.Radii {
		if !floats.EqualWithinAbs(r, 2000, 1e-3) {
			t.Fatalf("negative eigenvalue should map to |λ|, got radius %f", r)
		}
	}
}

func TestCovarianceZeroMatrixIsBounded(t *testing.T) {
	params := CovarianceToEllipsoid(CovarianceMatrix{}, 1, nil)
	for _, r := range params.Radii {
		if r != MinEllipsoidRadius {
			t.Fatalf("zero covariance must clamp to the floor, got %f", r)
		}
	}
	if !floats.EqualWithinAbs(params.Orientation.Norm(), 1, 1e-9) {
		t.Fatal("orientation must stay a unit quaternion")
	}
}

func TestCovarianceOrientationIsRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	// A correlated, non-axis-aligned covariance.
	params := CovarianceToEllipsoid(CovarianceMatrix{XX: 6e6, YY: 5e6, ZZ: 2e6, XY: 2e6, XZ: 1e6, YZ: 5e5}, 1, rng)
	q := params.Orientation
	if !floats.EqualWithinAbs(q.Norm(), 1, 1e-9) {
		t.Fatal("orientation quaternion is not unit")
	}
	// Principal axes stay orthonormal through the quaternion.
	x := q.Rotate([]float64{1, 0, 0})
	y := q.Rotate([]float64{0, 1, 0})
	z := q.Rotate([]float64{0, 0, 1})
	if !floats.EqualWithinAbs(Dot(x, y), 0, 1e-6) || !floats.EqualWithinAbs(Dot(x, z), 0, 1e-6) {
		t.Fatal("principal axes are not orthogonal")
	}
	if !floats.EqualApprox(Cross(x, y), z, 1e-6) {
		t.Fatal("principal axes are not right-handed")
	}
}

func TestCovarianceFromSampledCloud(t *testing.T) {
	// Draw a cloud from a known normal, rebuild the covariance empirically
	// and check the extractor recovers the generating radii.
	truth := []float64{9e6, 4e6, 1e6}
	src := rand.New(rand.NewSource(42))
	normal, ok := distmv.NewNormal([]float64{0, 0, 0}, mat64.NewSymDense(3, []float64{
		truth[0], 0, 0,
		0, truth[1], 0,
		0, 0, truth[2],
	}), src)
	if !ok {
		t.Fatal("NOK in Gaussian")
	}

	const n = 40000
	var sum [3]float64
	samples := make([][]float64, n)
	for i := 0; i < n; i++ {
		samples[i] = normal.Rand(nil)
		for j := 0; j < 3; j++ {
			sum[j] += samples[i][j]
		}
	}
	mean := []float64{sum[0] / n, sum[1] / n, sum[2] / n}
	var cov CovarianceMatrix
	for _, s := range samples {
		dx, dy, dz := s[0]-mean[0], s[1]-mean[1], s[2]-mean[2]
		cov.XX += dx * dx / n
		cov.YY += dy * dy / n
		cov.ZZ += dz * dz / n
		cov.XY += dx * dy / n
		cov.XZ += dx * dz / n
		cov.YZ += dy * dz / n
	}

	params := CovarianceToEllipsoid(cov, 1, rand.New(rand.NewSource(3)))
	for i := range truth {
		want := math.Sqrt(truth[i])
		if !floats.EqualWithinAbs(params.Radii[i], want, want*0.05) {
			t.Fatalf("radius %d = %f, expected %f within 5%%", i, params.Radii[i], want)
		}
	}
}

func TestOpacityForQuality(t *testing.T) {
	cases := map[string]float64{"High": 0.7, "Medium": 0.3, "Low": 0.1, "whatever": 0.3, "": 0.3}
	for mode, want := range cases {
		if got := OpacityForQuality(mode); got != want {
			t.Fatalf("quality %q: got %f, expected %f", mode, got, want)
		}
	}
}
