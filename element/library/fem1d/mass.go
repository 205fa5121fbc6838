package fem1d

import "gonum.org/v1/gonum/mat"

// LumpedMass places half the element mass on every translational dof:
// (ρ·A·L/2)·I of size ndof. It is isotropic, so it needs no rotation.
func LumpedMass(area, length, rho float64, ndof int) *mat.Dense {
	m := rho * area * length / 2
	M := mat.NewDense(ndof, ndof, nil)
	for i := 0; i < ndof; i++ {
		M.Set(i, i, m)
	}
	return M
}

// LumpedMassPlaneTruss is the 4x4 lumped mass of a planar truss
func LumpedMassPlaneTruss(area, length, rho float64) *mat.Dense {
	return LumpedMass(area, length, rho, 4)
}

// LumpedMassSpaceTruss is the 6x6 lumped mass of a spatial truss
func LumpedMassSpaceTruss(area, length, rho float64) *mat.Dense {
	return LumpedMass(area, length, rho, 6)
}

// ConsistentMassPlaneFrame is the local consistent mass of an Euler-Bernoulli
// frame, dofs (u1, v1, θ1, u2, v2, θ2). It is not diagonal and must be
// rotated like the stiffness.
func ConsistentMassPlaneFrame(area, length, rho float64) *mat.Dense {
	l := length
	ll := l * l
	M := mat.NewDense(6, 6, []float64{
		140, 0, 0, 70, 0, 0,
		0, 156, 22 * l, 0, 54, -13 * l,
		0, 22 * l, 4 * ll, 0, 13 * l, -3 * ll,
		70, 0, 0, 140, 0, 0,
		0, 54, 13 * l, 0, 156, -22 * l,
		0, -13 * l, -3 * ll, 0, -22 * l, 4 * ll,
	})
	M.Scale(rho*area*l/420, M)
	return M
}

// ConsistentMassPlaneBeam is the bending part of the frame mass, dofs
// (v1, θ1, v2, θ2)
func ConsistentMassPlaneBeam(area, length, rho float64) *mat.Dense {
	return BendingPart(ConsistentMassPlaneFrame(area, length, rho))
}

// BendingPart extracts the (v1, θ1, v2, θ2) block of a 6x6 frame matrix
func BendingPart(frame mat.Matrix) *mat.Dense {
	bending := []int{1, 2, 4, 5}
	M := mat.NewDense(4, 4, nil)
	for i, r := range bending {
		for j, c := range bending {
			M.Set(i, j, frame.At(r, c))
		}
	}
	return M
}
