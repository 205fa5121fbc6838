package partitions

import (
	"fmt"

	"github.com/notargets/framemodal/element"
)

// Partition is a group of elements built and assembled together on one
// goroutine
type Partition struct {
	// Unique identifier for this partition; partial results are merged in
	// ascending ID order
	ID int

	// Element membership
	Elements    []int // Global element indices in this partition, ascending
	NumElements int

	// Mixed element support
	ElementKinds []element.Kind // Kind of each element
	KindGroups   []ElementGroup // Grouped by kind, in order of first appearance
}

// ElementGroup represents elements of the same kind within a partition
type ElementGroup struct {
	Kind     element.Kind
	Count    int   // Number of elements of this kind
	NumDofs  int   // Dofs per element for this kind
	LocalIDs []int // Indices within the partition
}

// PartitionLayout manages the complete element decomposition
type PartitionLayout struct {
	Partitions []Partition

	// Global sizing information
	KpartMax      int // max(NumElements) across all partitions
	TotalElements int // Sum of all elements across partitions
	NumPartitions int

	// Element to partition mapping
	EToP []int // element k belongs to partition EToP[k]
}

// GetPartition returns the partition containing element k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks partition consistency: partition IDs are 0..N-1
// with no repeats, every element appears exactly once, in the partition
// EToP names, and kind groups index into their partition
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("have %d partitions, NumPartitions=%d", len(pl.Partitions), pl.NumPartitions)
	}
	if pl.TotalElements < 0 || len(pl.EToP) != pl.TotalElements {
		return fmt.Errorf("EToP has %d entries for %d elements", len(pl.EToP), pl.TotalElements)
	}

	ids := make([]bool, pl.NumPartitions)
	seen := make([]bool, pl.TotalElements)
	actualMax, total := 0, 0
	for _, p := range pl.Partitions {
		if p.ID < 0 || p.ID >= pl.NumPartitions {
			return fmt.Errorf("partition ID %d out of range [0, %d)", p.ID, pl.NumPartitions)
		}
		if ids[p.ID] {
			return fmt.Errorf("partition ID %d used twice", p.ID)
		}
		ids[p.ID] = true

		if p.NumElements != len(p.Elements) {
			return fmt.Errorf("partition %d: NumElements %d != %d members", p.ID, p.NumElements, len(p.Elements))
		}
		if p.NumElements > actualMax {
			actualMax = p.NumElements
		}
		total += p.NumElements
		for _, k := range p.Elements {
			if k < 0 || k >= pl.TotalElements {
				return fmt.Errorf("partition %d: element %d out of range", p.ID, k)
			}
			if seen[k] {
				return fmt.Errorf("partition %d: element %d assigned twice", p.ID, k)
			}
			if pl.EToP[k] != p.ID {
				return fmt.Errorf("partition %d holds element %d, EToP says %d", p.ID, k, pl.EToP[k])
			}
			seen[k] = true
		}
		if err := p.validateGroups(); err != nil {
			return err
		}
	}
	if total != pl.TotalElements {
		return fmt.Errorf("partitions hold %d elements, want %d", total, pl.TotalElements)
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	return nil
}

func (p *Partition) validateGroups() error {
	if p.ElementKinds != nil && len(p.ElementKinds) != p.NumElements {
		return fmt.Errorf("partition %d: %d element kinds for %d elements",
			p.ID, len(p.ElementKinds), p.NumElements)
	}
	for _, g := range p.KindGroups {
		if g.Count != len(g.LocalIDs) {
			return fmt.Errorf("partition %d: %v group counts %d, lists %d",
				p.ID, g.Kind, g.Count, len(g.LocalIDs))
		}
		for _, lid := range g.LocalIDs {
			if lid < 0 || lid >= p.NumElements {
				return fmt.Errorf("partition %d: %v group local id %d out of range", p.ID, g.Kind, lid)
			}
			if p.ElementKinds != nil && p.ElementKinds[lid] != g.Kind {
				return fmt.Errorf("partition %d: local element %d is a %v, grouped as %v",
					p.ID, lid, p.ElementKinds[lid], g.Kind)
			}
		}
	}
	return nil
}
