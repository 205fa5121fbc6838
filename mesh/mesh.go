package mesh

import (
	"fmt"

	"github.com/notargets/framemodal/utils"
)

// Mesh is the node arena of a structure. Node ids are stable handles; the
// position of a node in Nodes fixes the ordering of its dofs.
type Mesh struct {
	Nodes   []*Node
	Ndim    int
	idToIdx map[int]int
}

// NewMesh checks that ids are unique and that all nodes share one arity
func NewMesh(nodes ...*Node) (*Mesh, error) {
	m := &Mesh{
		Nodes:   make([]*Node, 0, len(nodes)),
		idToIdx: make(map[int]int, len(nodes)),
	}
	for _, n := range nodes {
		if err := m.Add(n); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends a node to the arena
func (m *Mesh) Add(n *Node) error {
	if n == nil {
		return fmt.Errorf("nil node at index %d: %w", len(m.Nodes), utils.ErrInvalidTopology)
	}
	if _, dup := m.idToIdx[n.ID]; dup {
		return fmt.Errorf("duplicate node id %d: %w", n.ID, utils.ErrInvalidTopology)
	}
	if len(m.Nodes) == 0 {
		m.Ndim = n.Dim()
	} else if n.Dim() != m.Ndim {
		return fmt.Errorf("node %d has %d coordinates, mesh has %d: %w",
			n.ID, n.Dim(), m.Ndim, utils.ErrArityMismatch)
	}
	m.idToIdx[n.ID] = len(m.Nodes)
	m.Nodes = append(m.Nodes, n)
	return nil
}

// NumNodes returns the number of nodes in the arena
func (m *Mesh) NumNodes() int { return len(m.Nodes) }

// Index returns the arena position of a node id
func (m *Mesh) Index(id int) (int, error) {
	idx, ok := m.idToIdx[id]
	if !ok {
		return -1, fmt.Errorf("unknown node id %d: %w", id, utils.ErrInvalidTopology)
	}
	return idx, nil
}

// Node returns the node with the given id
func (m *Mesh) Node(id int) (*Node, error) {
	idx, err := m.Index(id)
	if err != nil {
		return nil, err
	}
	return m.Nodes[idx], nil
}
