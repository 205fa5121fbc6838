package material

import (
	"fmt"
	"math"

	"github.com/notargets/framemodal/utils"
)

// Material holds the elastic and inertial properties shared by elements
type Material struct {
	ID    int
	Type  string  // free-form label, e.g. "steel"
	Young float64 // Young's modulus
	Rho   float64 // mass density
}

// NewMaterial validates that both scalars are finite
func NewMaterial(id int, label string, young, rho float64) (*Material, error) {
	if !isFinite(young) || !isFinite(rho) {
		return nil, fmt.Errorf("material %d (%s): young=%g rho=%g: %w",
			id, label, young, rho, utils.ErrInvalidMaterial)
	}
	return &Material{
		ID:    id,
		Type:  label,
		Young: young,
		Rho:   rho,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
