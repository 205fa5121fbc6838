package utils

import (
	"fmt"
)

// NodeDof addresses one degree of freedom of one node by position
type NodeDof struct {
	Node int // index into the node arena
	Dof  int // local dof, 0 <= Dof < DofsPerNode
}

// DofMap numbers the free degrees of freedom of a structure
type DofMap struct {
	NumNodes    int
	DofsPerNode int

	// Flags has one slot per (node, local dof) pair, laid out as
	// node*DofsPerNode + dof. Fixed slots hold -1; free slots hold their
	// row/column in the reduced system.
	Flags   []int
	NumFree int
}

// NewDofMap marks the fixed slots and numbers the remaining ones in ascending
// (node, dof) order
func NewDofMap(numNodes, dofsPerNode int, fixed []NodeDof) (*DofMap, error) {
	if numNodes < 0 || dofsPerNode <= 0 {
		return nil, fmt.Errorf("invalid dimensions: nodes=%d, dofsPerNode=%d: %w",
			numNodes, dofsPerNode, ErrInvalidTopology)
	}

	dm := &DofMap{
		NumNodes:    numNodes,
		DofsPerNode: dofsPerNode,
		Flags:       make([]int, numNodes*dofsPerNode),
	}

	for _, nd := range fixed {
		if nd.Node < 0 || nd.Node >= numNodes {
			return nil, fmt.Errorf("constraint on node index %d, have %d nodes: %w",
				nd.Node, numNodes, ErrInvalidTopology)
		}
		if nd.Dof < 0 || nd.Dof >= dofsPerNode {
			return nil, fmt.Errorf("constraint on dof %d of node index %d, have %d dofs per node: %w",
				nd.Dof, nd.Node, dofsPerNode, ErrInvalidTopology)
		}
		dm.Flags[nd.Node*dofsPerNode+nd.Dof] = -1
	}

	dm.number()
	return dm, nil
}

// number assigns sequential equation numbers to the slots still free
func (dm *DofMap) number() {
	dm.NumFree = 0
	for i, f := range dm.Flags {
		if f == 0 {
			dm.Flags[i] = dm.NumFree
			dm.NumFree++
		}
	}
}

// Global returns the reduced-system index of a node dof, or -1 when fixed
func (dm *DofMap) Global(node, dof int) int {
	return dm.Flags[node*dm.DofsPerNode+dof]
}

// Equations returns the location array of an element connecting the given
// nodes: all dofs of the first node, then all dofs of the second, and so on
func (dm *DofMap) Equations(nodes ...int) ([]int, error) {
	eqs := make([]int, 0, len(nodes)*dm.DofsPerNode)
	for _, n := range nodes {
		if n < 0 || n >= dm.NumNodes {
			return nil, fmt.Errorf("node index %d, have %d nodes: %w",
				n, dm.NumNodes, ErrInvalidTopology)
		}
		for d := 0; d < dm.DofsPerNode; d++ {
			eqs = append(eqs, dm.Global(n, d))
		}
	}
	return eqs, nil
}

// IsFixed reports whether a node dof was removed from the reduced system
func (dm *DofMap) IsFixed(node, dof int) bool {
	return dm.Global(node, dof) < 0
}
