package fem1d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussLegendre returns the n-point Gauss-Legendre rule on [-1, 1]. Nodes are
// the eigenvalues of the symmetric tridiagonal Jacobi matrix of the Legendre
// recurrence; weights come from the first component of each eigenvector.
// The rule integrates polynomials of degree 2n-1 exactly.
func GaussLegendre(n int) (x, w []float64) {
	if n < 1 {
		panic(fmt.Sprintf("gauss-legendre rule needs at least one point, got %d", n))
	}
	if n == 1 {
		return []float64{0}, []float64{2}
	}

	J := mat.NewSymDense(n, nil)
	for i := 1; i < n; i++ {
		fi := float64(i)
		J.SetSym(i-1, i, fi/math.Sqrt(4*fi*fi-1))
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(J, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)

	V := mat.NewDense(n, n, nil)
	eig.VectorsTo(V)
	w = make([]float64, n)
	for i := range w {
		v := V.At(0, i)
		w[i] = 2 * v * v // ∫ 1 dx over [-1, 1]
	}
	return x, w
}

// HermiteShape evaluates the cubic bending shape functions of a beam of
// length l at ξ in [0, 1], ordered (v1, θ1, v2, θ2)
func HermiteShape(xi, l float64) [4]float64 {
	xi2, xi3 := xi*xi, xi*xi*xi
	return [4]float64{
		1 - 3*xi2 + 2*xi3,
		l * (xi - 2*xi2 + xi3),
		3*xi2 - 2*xi3,
		l * (xi3 - xi2),
	}
}

// IntegratedMassPlaneFrame evaluates ρA∫NᵗN dx for the frame dofs
// (u1, v1, θ1, u2, v2, θ2) with linear axial and Hermite bending shape
// functions, using an npts Gauss-Legendre rule. Four points reproduce
// ConsistentMassPlaneFrame exactly.
func IntegratedMassPlaneFrame(area, length, rho float64, npts int) *mat.Dense {
	x, w := GaussLegendre(npts)
	M := mat.NewDense(6, 6, nil)
	for q := range x {
		xi := (x[q] + 1) / 2
		h := HermiteShape(xi, length)
		nu := [6]float64{1 - xi, 0, 0, xi, 0, 0}
		nv := [6]float64{0, h[0], h[1], 0, h[2], h[3]}
		jw := w[q] * length / 2
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				M.Set(i, j, M.At(i, j)+jw*(nu[i]*nu[j]+nv[i]*nv[j]))
			}
		}
	}
	M.Scale(rho*area, M)
	return M
}

// IntegratedMassPlaneBeam is the bending block of IntegratedMassPlaneFrame
func IntegratedMassPlaneBeam(area, length, rho float64, npts int) *mat.Dense {
	return BendingPart(IntegratedMassPlaneFrame(area, length, rho, npts))
}
