package element

import (
	"fmt"
	"math"

	"github.com/notargets/framemodal/element/library/fem1d"
	"github.com/notargets/framemodal/material"
	"github.com/notargets/framemodal/mesh"
	"github.com/notargets/framemodal/utils"
	"gonum.org/v1/gonum/mat"
)

// Props are the scalar inputs of the element kernels
type Props struct {
	Young   float64 // Young's modulus of the material
	Rho     float64 // mass density of the material
	Area    float64 // cross-sectional area
	Inertia float64 // second moment of area, beams and frames only
}

// PropsFrom collects the scalars of a material and a section
func PropsFrom(m *material.Material, sec *material.Section) Props {
	return Props{
		Young:   m.Young,
		Rho:     m.Rho,
		Area:    sec.Area,
		Inertia: sec.Inertia,
	}
}

// Element is a two-node bar whose matrices are computed once at construction
// and never change afterwards. A new geometry needs a new Element.
type Element struct {
	ID    int
	Kind  Kind
	Node1 *mesh.Node
	Node2 *mesh.Node
	Props

	length       float64
	rotation     *mat.Dense // global-to-local transform
	constitutive *mat.Dense // local stiffness
	stiffness    *mat.Dense // Rᵗ·C·R, global axes
	mass         *mat.Dense // global axes
	opts         Options
}

// NewElement validates its inputs and builds every matrix, or fails without
// returning a partially built element
func NewElement(id int, kind Kind, n1, n2 *mesh.Node, p Props) (*Element, error) {
	return NewElementWith(id, kind, n1, n2, p, Options{})
}

// NewElementWith is NewElement with construction options
func NewElementWith(id int, kind Kind, n1, n2 *mesh.Node, p Props, opts Options) (*Element, error) {
	props, ok := kind.Properties()
	if !ok {
		return nil, fmt.Errorf("element %d: %v: %w", id, kind, utils.ErrUnsupportedElement)
	}
	if n1 == nil || n2 == nil {
		return nil, fmt.Errorf("element %d: missing end node: %w", id, utils.ErrInvalidTopology)
	}
	for _, n := range []*mesh.Node{n1, n2} {
		if n.Dim() != int(props.Dimensions) {
			return nil, fmt.Errorf("element %d (%s) needs %dD nodes, node %d is %dD: %w",
				id, props.ShortName, props.Dimensions, n.ID, n.Dim(), utils.ErrArityMismatch)
		}
	}
	if err := p.validate(props); err != nil {
		return nil, fmt.Errorf("element %d (%s): %w", id, props.ShortName, err)
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("element %d (%s): %w", id, props.ShortName, err)
	}

	x1, x2 := n1.Coords(), n2.Coords()
	l, err := fem1d.Length(x1, x2)
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", id, err)
	}

	var R, C, Ml *mat.Dense
	switch kind {
	case Truss2D:
		R, err = fem1d.RotationPlaneTruss(x1, x2)
		C = fem1d.ConstitutivePlaneTruss(p.Young, p.Area, l)
		Ml = fem1d.LumpedMassPlaneTruss(p.Area, l, p.Rho)
	case Truss3D:
		R, err = fem1d.RotationSpaceTruss(x1, x2)
		C = fem1d.ConstitutiveSpaceTruss(p.Young, p.Area, l)
		Ml = fem1d.LumpedMassSpaceTruss(p.Area, l, p.Rho)
	case Beam2D:
		R, err = fem1d.RotationPlaneBeam(x1, x2)
		C = fem1d.ConstitutivePlaneBeam(p.Young, p.Inertia, l)
		Ml = opts.localMass(kind, p.Area, l, p.Rho)
	case Frame2D:
		R, err = fem1d.RotationPlaneFrame(x1, x2)
		C = fem1d.ConstitutivePlaneFrame(p.Young, p.Area, p.Inertia, l)
		Ml = opts.localMass(kind, p.Area, l, p.Rho)
	default:
		panic(fmt.Sprintf("kind %v has properties but no kernels", kind))
	}
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", id, err)
	}

	M := Ml
	if !props.LumpedMass {
		M = fem1d.Rotate(Ml, R)
	}

	return &Element{
		ID:           id,
		Kind:         kind,
		Node1:        n1,
		Node2:        n2,
		Props:        p,
		length:       l,
		rotation:     R,
		constitutive: C,
		stiffness:    fem1d.Stiffness(C, R),
		mass:         M,
		opts:         opts,
	}, nil
}

// NewElementFrom builds an element from a material and a section
func NewElementFrom(id int, kind Kind, n1, n2 *mesh.Node,
	m *material.Material, s *material.Section) (*Element, error) {
	if m == nil || s == nil {
		return nil, fmt.Errorf("element %d: missing material or section: %w", id, utils.ErrInvalidTopology)
	}
	return NewElement(id, kind, n1, n2, PropsFrom(m, s))
}

func (p Props) validate(props ElementProperties) error {
	check := func(name string, v float64, strict bool) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || (strict && v == 0) {
			return fmt.Errorf("%s=%g: %w", name, v, utils.ErrInvalidMaterial)
		}
		return nil
	}
	if err := check("young", p.Young, false); err != nil {
		return err
	}
	if err := check("rho", p.Rho, false); err != nil {
		return err
	}
	if err := check("area", p.Area, false); err != nil {
		return err
	}
	if props.NeedsI {
		return check("inertia", p.Inertia, true)
	}
	return nil
}

// Properties returns the metadata of the element's kind
func (e *Element) Properties() ElementProperties {
	p, _ := e.Kind.Properties()
	return p
}

// Options returns the options the element was built with
func (e *Element) Options() Options { return e.opts }

// Length returns the distance between the end nodes
func (e *Element) Length() float64 { return e.length }

// The matrices below are shared with the element; callers must not modify them.

// RotationMatrix returns the global-to-local transform
func (e *Element) RotationMatrix() mat.Matrix { return e.rotation }

// ConstitutiveMatrix returns the local stiffness relation
func (e *Element) ConstitutiveMatrix() mat.Matrix { return e.constitutive }

// StiffnessMatrix returns the element stiffness in global axes
func (e *Element) StiffnessMatrix() mat.Matrix { return e.stiffness }

// MassMatrix returns the element mass in global axes
func (e *Element) MassMatrix() mat.Matrix { return e.mass }

// TotalMass returns ρ·A·L
func (e *Element) TotalMass() float64 { return e.Rho * e.Area * e.length }

// NodeIDs returns the ids of the end nodes in element order
func (e *Element) NodeIDs() [2]int { return [2]int{e.Node1.ID, e.Node2.ID} }
