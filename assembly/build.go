package assembly

import (
	"fmt"

	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/mesh"
	"github.com/notargets/framemodal/partitions"
	"golang.org/x/sync/errgroup"
)

// ElementSpec describes an element before its matrices exist. Nodes are
// referenced by id.
type ElementSpec struct {
	ID      int
	Kind    element.Kind
	Nodes   [2]int
	Props   element.Props
	Options element.Options
}

// BuildElements constructs every element of specs, one goroutine per
// partition of the layout, at most limit at a time (limit <= 0 means no
// limit). Results are stored by spec index so the output order does not
// depend on completion order. A partition stops at its first failure; the
// error of the lowest failing index across partitions is returned.
func BuildElements(m *mesh.Mesh, specs []ElementSpec, layout *partitions.PartitionLayout,
	limit int) ([]*element.Element, error) {
	if layout == nil {
		return BuildElementsSerial(m, specs)
	}
	if layout.TotalElements != len(specs) {
		return nil, fmt.Errorf("layout covers %d elements, have %d specs",
			layout.TotalElements, len(specs))
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	out := make([]*element.Element, len(specs))
	errs := make([]error, len(specs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for p := range layout.Partitions {
		members := layout.Partitions[p].Elements
		g.Go(func() error {
			for _, k := range members {
				if out[k], errs[k] = buildOne(m, specs[k]); errs[k] != nil {
					return errs[k]
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Wait reports whichever partition failed first in time
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}
	return out, nil
}

// BuildElementsSerial constructs the elements in order on the caller's
// goroutine
func BuildElementsSerial(m *mesh.Mesh, specs []ElementSpec) ([]*element.Element, error) {
	out := make([]*element.Element, len(specs))
	for k, spec := range specs {
		e, err := buildOne(m, spec)
		if err != nil {
			return nil, err
		}
		out[k] = e
	}
	return out, nil
}

func buildOne(m *mesh.Mesh, spec ElementSpec) (*element.Element, error) {
	n1, err := m.Node(spec.Nodes[0])
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", spec.ID, err)
	}
	n2, err := m.Node(spec.Nodes[1])
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", spec.ID, err)
	}
	return element.NewElementWith(spec.ID, spec.Kind, n1, n2, spec.Props, spec.Options)
}
