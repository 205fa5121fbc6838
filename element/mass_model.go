package element

import (
	"fmt"
	"strings"

	"github.com/notargets/framemodal/element/library/fem1d"
	"github.com/notargets/framemodal/utils"
	"gonum.org/v1/gonum/mat"
)

// MassModel selects how the non-lumped mass of beams and frames is formed.
// Trusses always use the lumped mass.
type MassModel uint8

const (
	ClosedFormMass MassModel = iota // tabulated ρAL/420 coefficients
	IntegratedMass                  // Gauss-Legendre quadrature of the shape functions
)

// MinQuadPoints integrates the cubic Hermite products exactly
const MinQuadPoints = 4

// Options tune element construction; the zero value is the closed-form
// consistent mass
type Options struct {
	Mass       MassModel
	QuadPoints int // IntegratedMass only; 0 means MinQuadPoints
}

func (m MassModel) String() string {
	switch m {
	case ClosedFormMass:
		return "closed-form"
	case IntegratedMass:
		return "integrated"
	}
	return fmt.Sprintf("MassModel(%d)", uint8(m))
}

// ParseMassModel accepts "closed-form" (or "consistent") and "integrated"
func ParseMassModel(name string) (MassModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "closed-form", "closedform", "consistent", "":
		return ClosedFormMass, nil
	case "integrated", "quadrature":
		return IntegratedMass, nil
	}
	return 0, fmt.Errorf("mass model %q: %w", name, utils.ErrInvalidOption)
}

func (o Options) validate() error {
	switch o.Mass {
	case ClosedFormMass:
	case IntegratedMass:
		if o.QuadPoints != 0 && o.QuadPoints < MinQuadPoints {
			return fmt.Errorf("%d quadrature points, need at least %d: %w",
				o.QuadPoints, MinQuadPoints, utils.ErrInvalidOption)
		}
	default:
		return fmt.Errorf("%v: %w", o.Mass, utils.ErrInvalidOption)
	}
	return nil
}

func (o Options) quadPoints() int {
	if o.QuadPoints == 0 {
		return MinQuadPoints
	}
	return o.QuadPoints
}

// localMass returns the local consistent mass of a beam or frame
func (o Options) localMass(kind Kind, area, length, rho float64) *mat.Dense {
	switch {
	case kind == Beam2D && o.Mass == IntegratedMass:
		return fem1d.IntegratedMassPlaneBeam(area, length, rho, o.quadPoints())
	case kind == Beam2D:
		return fem1d.ConsistentMassPlaneBeam(area, length, rho)
	case o.Mass == IntegratedMass:
		return fem1d.IntegratedMassPlaneFrame(area, length, rho, o.quadPoints())
	default:
		return fem1d.ConsistentMassPlaneFrame(area, length, rho)
	}
}
