package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/framemodal/utils"
)

// Node is a point of the structure. Coordinates are fixed at creation.
type Node struct {
	ID     int
	coords []float64
}

// NewNode accepts planar (x, y) or spatial (x, y, z) coordinates
func NewNode(id int, coords ...float64) (*Node, error) {
	if len(coords) != 2 && len(coords) != 3 {
		return nil, fmt.Errorf("node %d has %d coordinates, want 2 or 3: %w",
			id, len(coords), utils.ErrArityMismatch)
	}
	for i, c := range coords {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("node %d coordinate %d is %g: %w",
				id, i, c, utils.ErrInvalidTopology)
		}
	}
	n := &Node{ID: id, coords: make([]float64, len(coords))}
	copy(n.coords, coords)
	return n, nil
}

// Dim returns the coordinate arity, 2 or 3
func (n *Node) Dim() int { return len(n.coords) }

// At returns coordinate i
func (n *Node) At(i int) float64 { return n.coords[i] }

// Coords returns a copy of the coordinates
func (n *Node) Coords() []float64 {
	c := make([]float64, len(n.coords))
	copy(c, n.coords)
	return c
}

func (n *Node) String() string {
	return fmt.Sprintf("node %d %v", n.ID, n.coords)
}
