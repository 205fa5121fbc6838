package fem1d

import "gonum.org/v1/gonum/mat"

// ConstitutivePlaneTruss is the local axial stiffness of a planar truss,
// dofs (u1, v1, u2, v2). Only the axial dofs 0 and 2 carry stiffness.
func ConstitutivePlaneTruss(young, area, length float64) *mat.Dense {
	k := young * area / length
	return mat.NewDense(4, 4, []float64{
		k, 0, -k, 0,
		0, 0, 0, 0,
		-k, 0, k, 0,
		0, 0, 0, 0,
	})
}

// ConstitutiveSpaceTruss is the local axial stiffness of a spatial truss,
// dofs (u1, v1, w1, u2, v2, w2)
func ConstitutiveSpaceTruss(young, area, length float64) *mat.Dense {
	k := young * area / length
	C := mat.NewDense(6, 6, nil)
	C.Set(0, 0, k)
	C.Set(0, 3, -k)
	C.Set(3, 0, -k)
	C.Set(3, 3, k)
	return C
}

// ConstitutivePlaneBeam is the Euler-Bernoulli bending stiffness, dofs
// (v1, θ1, v2, θ2)
func ConstitutivePlaneBeam(young, inertia, length float64) *mat.Dense {
	ei := young * inertia / length
	a := 12.0 / (length * length)
	b := 6.0 / length
	C := mat.NewDense(4, 4, []float64{
		a, b, -a, b,
		b, 4, -b, 2,
		-a, -b, a, -b,
		b, 2, -b, 4,
	})
	C.Scale(ei, C)
	return C
}

// ConstitutivePlaneFrame combines axial and bending stiffness, dofs
// (u1, v1, θ1, u2, v2, θ2). Axial terms sit on rows/columns 0 and 3.
func ConstitutivePlaneFrame(young, area, inertia, length float64) *mat.Dense {
	ll := length * length
	a := 12 * young * inertia / (ll * length)
	b := 6 * young * inertia / ll
	c := 2 * young * inertia / length
	d := young * area / length
	return mat.NewDense(6, 6, []float64{
		d, 0, 0, -d, 0, 0,
		0, a, b, 0, -a, b,
		0, b, 2 * c, 0, -b, c,
		-d, 0, 0, d, 0, 0,
		0, -a, -b, 0, a, -b,
		0, b, c, 0, -b, 2 * c,
	})
}

// Stiffness rotates a local stiffness into global axes: Rᵗ·C·R
func Stiffness(constitutive, rotation mat.Matrix) *mat.Dense {
	return Rotate(constitutive, rotation)
}

// Rotate applies the congruence Rᵗ·A·R
func Rotate(local, rotation mat.Matrix) *mat.Dense {
	var tmp, out mat.Dense
	tmp.Mul(rotation.T(), local)
	out.Mul(&tmp, rotation)
	return &out
}
