package fem1d

import (
	"fmt"

	"github.com/notargets/framemodal/utils"
	"gonum.org/v1/gonum/floats"
)

// minLength is the shortest element accepted before the geometry is
// considered degenerate
const minLength = 1e-12

// Length returns the Euclidean distance between two nodes given as 2D or 3D
// coordinate slices of the same arity
func Length(x1, x2 []float64) (float64, error) {
	if err := checkArity(x1, x2); err != nil {
		return 0, err
	}
	l := floats.Distance(x2, x1, 2)
	if !(l > minLength) {
		return 0, fmt.Errorf("element length %g between %v and %v: %w",
			l, x1, x2, utils.ErrDegenerateGeometry)
	}
	return l, nil
}

func checkArity(x1, x2 []float64) error {
	if len(x1) != len(x2) || (len(x1) != 2 && len(x1) != 3) {
		return fmt.Errorf("end coordinates %v and %v: %w", x1, x2, utils.ErrArityMismatch)
	}
	return nil
}

func checkPlanar(x1, x2 []float64) error {
	if err := checkArity(x1, x2); err != nil {
		return err
	}
	if len(x1) != 2 {
		return fmt.Errorf("planar kernel needs 2D coordinates, got %d: %w", len(x1), utils.ErrArityMismatch)
	}
	return nil
}
