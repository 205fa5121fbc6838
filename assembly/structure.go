package assembly

import (
	"fmt"

	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/mesh"
	"github.com/notargets/framemodal/utils"
)

// Structure is an assembled-ready model: a node arena, elements that
// reference nodes of that arena, and the constraint list. The dof map is
// built eagerly so bad topology is reported at construction.
type Structure struct {
	Mesh        *mesh.Mesh
	Elements    []*element.Element
	Constraints []mesh.Constraint

	Kind        element.Kind // shared by every element
	DofsPerNode int
	Dofs        *utils.DofMap

	conn [][2]int // node arena indices per element
}

// NewStructure validates the model and numbers its free dofs.
//
// All elements must be of one kind, since the kind fixes the meaning of
// each nodal dof. With no elements the dof count per node falls back to
// the coordinate arity of the mesh.
func NewStructure(m *mesh.Mesh, elements []*element.Element,
	constraints []mesh.Constraint) (*Structure, error) {
	if m == nil {
		return nil, fmt.Errorf("structure needs a mesh: %w", utils.ErrInvalidTopology)
	}

	s := &Structure{
		Mesh:        m,
		Elements:    elements,
		Constraints: constraints,
		DofsPerNode: m.Ndim,
		conn:        make([][2]int, len(elements)),
	}
	if s.DofsPerNode == 0 {
		s.DofsPerNode = int(element.D2)
	}

	for k, e := range elements {
		if e == nil {
			return nil, fmt.Errorf("element %d is nil: %w", k, utils.ErrInvalidTopology)
		}
		props := e.Properties()
		if k == 0 {
			s.Kind = e.Kind
			s.DofsPerNode = props.DofsPerNode
		} else if e.Kind != s.Kind {
			return nil, fmt.Errorf("element %d is a %v, structure holds %v elements: %w",
				e.ID, e.Kind, s.Kind, utils.ErrUnsupportedElement)
		}
		if int(props.Dimensions) != m.Ndim {
			return nil, fmt.Errorf("element %d needs %d coordinates, mesh has %d: %w",
				e.ID, props.Dimensions, m.Ndim, utils.ErrArityMismatch)
		}
		for i, n := range []*mesh.Node{e.Node1, e.Node2} {
			idx, err := m.Index(n.ID)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", e.ID, err)
			}
			if m.Nodes[idx] != n {
				return nil, fmt.Errorf("element %d references a node %d outside the mesh: %w",
					e.ID, n.ID, utils.ErrInvalidTopology)
			}
			s.conn[k][i] = idx
		}
	}

	fixed, err := mesh.Resolve(m, s.DofsPerNode, constraints)
	if err != nil {
		return nil, err
	}
	if s.Dofs, err = utils.NewDofMap(m.NumNodes(), s.DofsPerNode, fixed); err != nil {
		return nil, err
	}
	return s, nil
}

// NumFree is the size of the reduced system
func (s *Structure) NumFree() int { return s.Dofs.NumFree }

// NumElements returns the element count
func (s *Structure) NumElements() int { return len(s.Elements) }

// Connectivity returns the node arena indices of element k
func (s *Structure) Connectivity(k int) [2]int { return s.conn[k] }

// TotalMass sums ρ·A·L over all elements
func (s *Structure) TotalMass() float64 {
	var total float64
	for _, e := range s.Elements {
		total += e.TotalMass()
	}
	return total
}

func (s *Structure) String() string {
	kind := "empty"
	if len(s.Elements) > 0 {
		kind = s.Kind.String()
	}
	return fmt.Sprintf("%s: %d nodes, %d elements, %d dofs/node, %d free of %d",
		kind, s.Mesh.NumNodes(), len(s.Elements), s.DofsPerNode,
		s.Dofs.NumFree, len(s.Dofs.Flags))
}
