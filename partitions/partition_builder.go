package partitions

import (
	"fmt"
	"math"

	"github.com/notargets/framemodal/element"
)

// PartitionBuilder constructs partitions from an element list
type PartitionBuilder struct {
	NumElements  int
	ElementKinds []element.Kind // optional, one per element

	// Partitioning parameters
	NumPartitions       int // Requested partition count; wins over TargetPartitionSize
	TargetPartitionSize int // Desired elements per partition
	Strategy            PartitionStrategy
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "round-robin"
	default:
		return fmt.Sprintf("PartitionStrategy(%d)", int(s))
	}
}

// ParseStrategy maps "block" or "round-robin" to a strategy
func ParseStrategy(name string) (PartitionStrategy, error) {
	switch name {
	case "block", "":
		return BlockPartition, nil
	case "round-robin", "roundrobin", "rr":
		return RoundRobin, nil
	}
	return 0, fmt.Errorf("unknown partition strategy %q", name)
}

// BuildPartitions creates a partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumElements < 0 {
		return nil, fmt.Errorf("negative element count %d", pb.NumElements)
	}
	if pb.ElementKinds != nil && len(pb.ElementKinds) != pb.NumElements {
		return nil, fmt.Errorf("have %d element kinds for %d elements", len(pb.ElementKinds), pb.NumElements)
	}

	// Determine number of partitions needed
	numPartitions := pb.calculateNumPartitions()

	// Partition the elements
	eToP, err := pb.partitionElements(numPartitions)
	if err != nil {
		return nil, err
	}

	// Create partition structures
	partitions := pb.createPartitions(eToP, numPartitions)

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      calculateKpartMax(partitions),
		TotalElements: pb.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	// Validate the layout
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	return layout, nil
}

// calculateNumPartitions never returns more partitions than elements, and
// at least one
func (pb *PartitionBuilder) calculateNumPartitions() int {
	numPartitions := pb.NumPartitions
	if numPartitions <= 0 && pb.TargetPartitionSize > 0 {
		numPartitions = int(math.Ceil(float64(pb.NumElements) / float64(pb.TargetPartitionSize)))
	}
	if numPartitions > pb.NumElements {
		numPartitions = pb.NumElements
	}
	if numPartitions < 1 {
		numPartitions = 1
	}
	return numPartitions
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) ([]int, error) {
	eToP := make([]int, pb.NumElements)

	switch pb.Strategy {
	case BlockPartition:
		elementsPerPartition := int(math.Ceil(float64(pb.NumElements) / float64(numPartitions)))
		if elementsPerPartition < 1 {
			elementsPerPartition = 1
		}
		for i := 0; i < pb.NumElements; i++ {
			eToP[i] = i / elementsPerPartition
			if eToP[i] >= numPartitions {
				eToP[i] = numPartitions - 1
			}
		}

	case RoundRobin:
		for i := 0; i < pb.NumElements; i++ {
			eToP[i] = i % numPartitions
		}

	default:
		return nil, fmt.Errorf("unsupported partition strategy %v", pb.Strategy)
	}

	return eToP, nil
}

// createPartitions builds partition structures from element assignments.
// Ceil-sized blocks can leave trailing partitions empty; they are kept so
// partition IDs stay dense.
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)

	for i := range partitions {
		partitions[i] = Partition{
			ID:       i,
			Elements: make([]int, 0),
		}
	}

	// Assign elements to partitions
	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		if pb.ElementKinds != nil {
			partitions[part].ElementKinds = append(partitions[part].ElementKinds,
				pb.ElementKinds[elem])
		}
		partitions[part].NumElements++
	}

	// Create element groups for mixed kinds
	for i := range partitions {
		partitions[i].KindGroups = createElementGroups(&partitions[i])
	}

	return partitions
}

// createElementGroups organizes elements by kind within a partition. Groups
// follow the order in which kinds first appear so the result is stable.
func createElementGroups(p *Partition) []ElementGroup {
	if len(p.ElementKinds) == 0 {
		return nil
	}

	groupOf := make(map[element.Kind]int)
	groups := make([]ElementGroup, 0)
	for i, kind := range p.ElementKinds {
		g, ok := groupOf[kind]
		if !ok {
			g = len(groups)
			groupOf[kind] = g
			group := ElementGroup{Kind: kind}
			if props, ok := kind.Properties(); ok {
				group.NumDofs = props.NumDofs
			}
			groups = append(groups, group)
		}
		groups[g].LocalIDs = append(groups[g].LocalIDs, i)
		groups[g].Count++
	}

	return groups
}

// calculateKpartMax finds maximum elements across all partitions
func calculateKpartMax(partitions []Partition) int {
	kpartMax := 0
	for _, p := range partitions {
		if p.NumElements > kpartMax {
			kpartMax = p.NumElements
		}
	}
	return kpartMax
}
