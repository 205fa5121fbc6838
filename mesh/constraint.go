package mesh

import (
	"fmt"

	"github.com/notargets/framemodal/utils"
)

// Constraint fixes dofs of one node. Fixed holds one flag per dof in the
// node's local order: 1 fixed, 0 free. Dofs past the end of Fixed are free.
type Constraint struct {
	NodeID int
	Fixed  []int
}

// ParseConstraint reads the row form [node, flag0, flag1, ...]
func ParseConstraint(row []int) (Constraint, error) {
	if len(row) < 2 {
		return Constraint{}, fmt.Errorf("constraint row %v needs a node and at least one flag: %w",
			row, utils.ErrInvalidTopology)
	}
	c := Constraint{NodeID: row[0], Fixed: append([]int(nil), row[1:]...)}
	return c, c.validateFlags()
}

// Fix builds a constraint from booleans, true meaning fixed
func Fix(nodeID int, dofs ...bool) Constraint {
	c := Constraint{NodeID: nodeID, Fixed: make([]int, len(dofs))}
	for i, d := range dofs {
		if d {
			c.Fixed[i] = 1
		}
	}
	return c
}

func (c Constraint) validateFlags() error {
	for i, f := range c.Fixed {
		if f != 0 && f != 1 {
			return fmt.Errorf("node %d dof %d has flag %d, want 0 or 1: %w",
				c.NodeID, i, f, utils.ErrInvalidTopology)
		}
	}
	return nil
}

// Resolve converts constraints to (node index, dof) pairs for the dof map
func Resolve(m *Mesh, dofsPerNode int, constraints []Constraint) ([]utils.NodeDof, error) {
	var fixed []utils.NodeDof
	for _, c := range constraints {
		idx, err := m.Index(c.NodeID)
		if err != nil {
			return nil, fmt.Errorf("constraint: %w", err)
		}
		if err := c.validateFlags(); err != nil {
			return nil, err
		}
		if len(c.Fixed) > dofsPerNode {
			return nil, fmt.Errorf("node %d constraint has %d flags, nodes carry %d dofs: %w",
				c.NodeID, len(c.Fixed), dofsPerNode, utils.ErrInvalidTopology)
		}
		for dof, f := range c.Fixed {
			if f == 1 {
				fixed = append(fixed, utils.NodeDof{Node: idx, Dof: dof})
			}
		}
	}
	return fixed, nil
}
