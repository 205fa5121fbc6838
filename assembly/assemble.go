package assembly

import (
	"fmt"

	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/partitions"
	"github.com/notargets/framemodal/utils"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Assemble builds the reduced stiffness and mass matrices. Elements are
// folded in slice order and a term is added only when both its row and
// column dofs are free; terms touching a fixed dof are dropped.
//
// An all-fixed structure yields two empty matrices.
func (s *Structure) Assemble() (K, M *mat.Dense, err error) {
	K, M = s.newSystem(s.Dofs.NumFree)
	for k := range s.Elements {
		if err = s.scatterReduced(K, M, k); err != nil {
			return nil, nil, err
		}
	}
	return K, M, nil
}

// AssembleFull builds the unreduced matrices over every node dof, ordered
// node by node. Constraints are ignored.
func (s *Structure) AssembleFull() (K, M *mat.Dense) {
	K, M = s.newSystem(len(s.Dofs.Flags))
	for k, e := range s.Elements {
		eqs := s.fullEquations(k)
		scatter(K, e.StiffnessMatrix(), eqs)
		scatter(M, e.MassMatrix(), eqs)
	}
	return K, M
}

// AssemblePartitioned accumulates one partial K and M per partition
// concurrently, then sums the partials in ascending partition order. For a
// given layout the result is reproducible bit for bit; it may differ from
// Assemble in the last ulp because the summation order differs.
func (s *Structure) AssemblePartitioned(layout *partitions.PartitionLayout) (K, M *mat.Dense, err error) {
	if err = s.checkLayout(layout); err != nil {
		return nil, nil, err
	}
	n := s.Dofs.NumFree
	K, M = s.newSystem(n)
	if n == 0 {
		return K, M, nil
	}

	partK := make([]*mat.Dense, layout.NumPartitions)
	partM := make([]*mat.Dense, layout.NumPartitions)

	var g errgroup.Group
	for p := range layout.Partitions {
		part := layout.Partitions[p]
		g.Go(func() error {
			pk, pm := s.newSystem(n)
			for _, k := range part.Elements {
				if err := s.scatterReduced(pk, pm, k); err != nil {
					return fmt.Errorf("partition %d: %w", part.ID, err)
				}
			}
			partK[part.ID], partM[part.ID] = pk, pm
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}

	for p := 0; p < layout.NumPartitions; p++ {
		K.Add(K, partK[p])
		M.Add(M, partM[p])
	}
	return K, M, nil
}

func (s *Structure) checkLayout(layout *partitions.PartitionLayout) error {
	if layout == nil {
		return fmt.Errorf("nil partition layout")
	}
	if layout.TotalElements != len(s.Elements) {
		return fmt.Errorf("layout covers %d elements, structure has %d",
			layout.TotalElements, len(s.Elements))
	}
	if err := layout.ValidateLayout(); err != nil {
		return fmt.Errorf("invalid partition layout: %w", err)
	}
	for _, p := range layout.Partitions {
		for _, g := range p.KindGroups {
			if g.Kind != s.Kind {
				return fmt.Errorf("partition %d groups %d %v elements, structure holds %v: %w",
					p.ID, g.Count, g.Kind, s.Kind, utils.ErrUnsupportedElement)
			}
			for _, lid := range g.LocalIDs {
				if e := s.Elements[p.Elements[lid]]; e.Kind != g.Kind {
					return fmt.Errorf("partition %d groups element %d as %v, it is a %v: %w",
						p.ID, e.ID, g.Kind, e.Kind, utils.ErrUnsupportedElement)
				}
			}
		}
	}
	return nil
}

// newSystem returns a pair of zeroed n×n matrices; n == 0 gives empty ones
func (s *Structure) newSystem(n int) (K, M *mat.Dense) {
	if n == 0 {
		return &mat.Dense{}, &mat.Dense{}
	}
	return mat.NewDense(n, n, nil), mat.NewDense(n, n, nil)
}

func (s *Structure) scatterReduced(K, M *mat.Dense, k int) error {
	e := s.Elements[k]
	c := s.conn[k]
	eqs, err := s.Dofs.Equations(c[0], c[1])
	if err != nil {
		return fmt.Errorf("element %d: %w", e.ID, err)
	}
	scatter(K, e.StiffnessMatrix(), eqs)
	scatter(M, e.MassMatrix(), eqs)
	return nil
}

func (s *Structure) fullEquations(k int) []int {
	dpn := s.DofsPerNode
	eqs := make([]int, 0, 2*dpn)
	for _, n := range s.conn[k] {
		for d := 0; d < dpn; d++ {
			eqs = append(eqs, n*dpn+d)
		}
	}
	return eqs
}

// scatter adds local[j][k] into global[eqs[j]][eqs[k]] for every pair of
// non-negative equation numbers
func scatter(global *mat.Dense, local mat.Matrix, eqs []int) {
	for j, gj := range eqs {
		if gj < 0 {
			continue
		}
		for k, gk := range eqs {
			if gk < 0 {
				continue
			}
			global.Set(gj, gk, global.At(gj, gk)+local.At(j, k))
		}
	}
}

// ElementDofs returns the reduced-system indices of an element's dofs, -1
// for fixed ones, in the element's local order
func (s *Structure) ElementDofs(e *element.Element) ([]int, error) {
	for k, el := range s.Elements {
		if el == e {
			c := s.conn[k]
			return s.Dofs.Equations(c[0], c[1])
		}
	}
	return nil, fmt.Errorf("element %d is not part of the structure", e.ID)
}
