package element

import (
	"fmt"
	"strings"

	"github.com/notargets/framemodal/utils"
)

// Dimensionality represents the spatial dimension of an element
type Dimensionality uint8

const (
	D2 Dimensionality = 2 // planar structures, nodes carry (x, y)
	D3 Dimensionality = 3 // spatial structures, nodes carry (x, y, z)
)

// Kind selects the kernels used to build an element's matrices
type Kind uint8

const (
	Truss2D Kind = iota // axial bar, dofs (ux, uy) per node
	Truss3D             // axial bar, dofs (ux, uy, uz) per node
	Beam2D              // Euler-Bernoulli bending only, dofs (uy, rz) per node, axis along global x
	Frame2D             // axial + bending, dofs (ux, uy, rz) per node
)

// ElementProperties contains metadata describing an element kind
type ElementProperties struct {
	Name        string         // Full descriptive name (e.g., "Plane Truss")
	ShortName   string         // Abbreviated name (e.g., "T2")
	Kind        Kind           // Kernel family
	Dimensions  Dimensionality // Coordinate arity of the end nodes
	NumNodes    int            // Always 2 for bar elements
	DofsPerNode int            // Unknowns carried by each node
	NumDofs     int            // NumNodes * DofsPerNode
	LumpedMass  bool           // Diagonal mass that needs no rotation
	NeedsI      bool           // Uses the section's second moment of area
}

var kindProps = map[Kind]ElementProperties{
	Truss2D: {Name: "Plane Truss", ShortName: "T2", Kind: Truss2D, Dimensions: D2,
		NumNodes: 2, DofsPerNode: 2, NumDofs: 4, LumpedMass: true},
	Truss3D: {Name: "Space Truss", ShortName: "T3", Kind: Truss3D, Dimensions: D3,
		NumNodes: 2, DofsPerNode: 3, NumDofs: 6, LumpedMass: true},
	Beam2D: {Name: "Plane Beam", ShortName: "B2", Kind: Beam2D, Dimensions: D2,
		NumNodes: 2, DofsPerNode: 2, NumDofs: 4, NeedsI: true},
	Frame2D: {Name: "Plane Frame", ShortName: "F2", Kind: Frame2D, Dimensions: D2,
		NumNodes: 2, DofsPerNode: 3, NumDofs: 6, NeedsI: true},
}

// Properties returns the metadata of a kind; unknown kinds report ok=false
func (k Kind) Properties() (p ElementProperties, ok bool) {
	p, ok = kindProps[k]
	return
}

func (k Kind) String() string {
	if p, ok := kindProps[k]; ok {
		return p.Name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind accepts the short or full name of a kind, case-insensitively
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "truss2d":
		return Truss2D, nil
	case "truss3d":
		return Truss3D, nil
	case "beam2d":
		return Beam2D, nil
	case "frame2d":
		return Frame2D, nil
	}
	for k, p := range kindProps {
		if n == strings.ToLower(p.ShortName) || n == strings.ToLower(p.Name) ||
			n == strings.ToLower(strings.ReplaceAll(p.Name, " ", "")) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("element kind %q: %w", name, utils.ErrUnsupportedElement)
}
