package fem1d

import (
	"fmt"
	"math"

	"github.com/notargets/framemodal/utils"
	"gonum.org/v1/gonum/mat"
)

// verticalTol bounds the projection of the element axis onto the global xy
// plane below which the element is treated as parallel to global z
const verticalTol = 1e-9

// planeCosines returns cos and sin of the element axis against global x
func planeCosines(x1, x2 []float64) (c, s float64, err error) {
	if err = checkPlanar(x1, x2); err != nil {
		return
	}
	l, err := Length(x1, x2)
	if err != nil {
		return
	}
	c = (x2[0] - x1[0]) / l
	s = (x2[1] - x1[1]) / l
	return
}

// RotationPlaneTruss returns the 4x4 global-to-local transform of a planar
// truss. Each node's (ux, uy) pair goes through the same 2x2 block:
//
//	[ c  s ]
//	[-s  c ]
func RotationPlaneTruss(x1, x2 []float64) (*mat.Dense, error) {
	c, s, err := planeCosines(x1, x2)
	if err != nil {
		return nil, err
	}
	R := mat.NewDense(4, 4, nil)
	for _, o := range []int{0, 2} {
		R.Set(o, o, c)
		R.Set(o, o+1, s)
		R.Set(o+1, o, -s)
		R.Set(o+1, o+1, c)
	}
	return R, nil
}

// RotationPlaneFrame returns the 6x6 transform of a planar frame with dofs
// (ux, uy, rz) per node. Rotations about z are the same in both systems, so
// rows 2 and 5 are identity.
func RotationPlaneFrame(x1, x2 []float64) (*mat.Dense, error) {
	c, s, err := planeCosines(x1, x2)
	if err != nil {
		return nil, err
	}
	R := mat.NewDense(6, 6, nil)
	for _, o := range []int{0, 3} {
		R.Set(o, o, c)
		R.Set(o, o+1, s)
		R.Set(o+1, o, -s)
		R.Set(o+1, o+1, c)
		R.Set(o+2, o+2, 1)
	}
	return R, nil
}

// DirectionCosines returns the 3x3 matrix whose rows are the local x, y, z
// axes of a spatial element expressed in global coordinates. Local x follows
// the element; local y lies in the global xy plane. An element parallel to
// global z takes global y as its local y.
func DirectionCosines(x1, x2 []float64) (*mat.Dense, error) {
	if err := checkArity(x1, x2); err != nil {
		return nil, err
	}
	if len(x1) != 3 {
		return nil, fmt.Errorf("spatial kernel needs 3D coordinates, got %d: %w", len(x1), utils.ErrArityMismatch)
	}
	l, err := Length(x1, x2)
	if err != nil {
		return nil, err
	}
	cxx := (x2[0] - x1[0]) / l
	cyx := (x2[1] - x1[1]) / l
	czx := (x2[2] - x1[2]) / l
	d := math.Sqrt(cxx*cxx + cyx*cyx)

	if d < verticalTol {
		// local z = local x × global y
		return mat.NewDense(3, 3, []float64{
			0, 0, czx,
			0, 1, 0,
			-czx, 0, 0,
		}), nil
	}
	return mat.NewDense(3, 3, []float64{
		cxx, cyx, czx,
		-cyx / d, cxx / d, 0,
		-cxx * czx / d, -cyx * czx / d, d,
	}), nil
}

// RotationSpace returns the 12x12 transform of a two-node spatial element
// carrying translations and rotations at each node: four copies of the
// direction-cosine block on the diagonal
func RotationSpace(x1, x2 []float64) (*mat.Dense, error) {
	lambda, err := DirectionCosines(x1, x2)
	if err != nil {
		return nil, err
	}
	return BlockDiagonal(lambda, 4), nil
}

// RotationSpaceTruss returns the 6x6 transform of a spatial truss with
// translations only
func RotationSpaceTruss(x1, x2 []float64) (*mat.Dense, error) {
	lambda, err := DirectionCosines(x1, x2)
	if err != nil {
		return nil, err
	}
	return BlockDiagonal(lambda, 2), nil
}

// BlockDiagonal repeats a square block n times along the diagonal
func BlockDiagonal(block mat.Matrix, n int) *mat.Dense {
	r, c := block.Dims()
	if r != c {
		panic(fmt.Sprintf("block must be square, got %dx%d", r, c))
	}
	out := mat.NewDense(r*n, r*n, nil)
	for b := 0; b < n; b++ {
		o := b * r
		out.Slice(o, o+r, o, o+r).(*mat.Dense).Copy(block)
	}
	return out
}

// RotationPlaneBeam returns the 4x4 transform of a bending-only beam, dofs
// (uy, rz) per node. Without an axial dof the beam must lie along global x;
// a beam pointing towards -x flips the sign of the transverse dofs.
func RotationPlaneBeam(x1, x2 []float64) (*mat.Dense, error) {
	c, s, err := planeCosines(x1, x2)
	if err != nil {
		return nil, err
	}
	if math.Abs(s) > verticalTol {
		return nil, fmt.Errorf("bending-only beam from %v to %v is not parallel to global x: %w",
			x1, x2, utils.ErrUnsupportedElement)
	}
	sign := 1.0
	if c < 0 {
		sign = -1
	}
	R := mat.NewDense(4, 4, nil)
	R.Set(0, 0, sign)
	R.Set(1, 1, 1)
	R.Set(2, 2, sign)
	R.Set(3, 3, 1)
	return R, nil
}
