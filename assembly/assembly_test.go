package assembly

import (
	"errors"
	"testing"

	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/material"
	"github.com/notargets/framemodal/mesh"
	"github.com/notargets/framemodal/partitions"
	"github.com/notargets/framemodal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const (
	young = 1.0e8
	rho   = 2.714e3
	area  = 0.04
)

// cantilever is the 4-node, 5-bar planar truss fixed at node 0 and
// vertically supported at node 3
func cantilever(t *testing.T) (*mesh.Mesh, []ElementSpec, []mesh.Constraint) {
	t.Helper()
	coords := [][]float64{{0, 0}, {2, 0}, {2, 1.5}, {4, 0}}
	nodes := make([]*mesh.Node, len(coords))
	for i, c := range coords {
		n, err := mesh.NewNode(i, c...)
		require.NoError(t, err)
		nodes[i] = n
	}
	m, err := mesh.NewMesh(nodes...)
	require.NoError(t, err)

	steel, err := material.NewMaterial(0, "steel", young, rho)
	require.NoError(t, err)
	sec, err := material.NewSection(0, material.SquareShape{SideLen: 0.2})
	require.NoError(t, err)
	props := element.PropsFrom(steel, sec)

	pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {1, 3}}
	specs := make([]ElementSpec, len(pairs))
	for k, p := range pairs {
		specs[k] = ElementSpec{ID: k, Kind: element.Truss2D, Nodes: p, Props: props}
	}

	c0, err := mesh.ParseConstraint([]int{0, 1, 1})
	require.NoError(t, err)
	c3, err := mesh.ParseConstraint([]int{3, 0, 1})
	require.NoError(t, err)
	return m, specs, []mesh.Constraint{c0, c3}
}

func cantileverStructure(t *testing.T) *Structure {
	t.Helper()
	m, specs, cons := cantilever(t)
	elems, err := BuildElementsSerial(m, specs)
	require.NoError(t, err)
	s, err := NewStructure(m, elems, cons)
	require.NoError(t, err)
	return s
}

func assertSymmetric(t *testing.T, A mat.Matrix) {
	t.Helper()
	assert.True(t, mat.Equal(A, A.T()), "matrix is not symmetric:\n%v", mat.Formatted(A))
}

func TestAssemble_Cantilever(t *testing.T) {
	s := cantileverStructure(t)
	assert.Equal(t, 5, s.NumFree())
	assert.Equal(t, []int{-1, -1, 0, 1, 2, 3, 4, -1}, s.Dofs.Flags)
	assert.Equal(t, element.Truss2D, s.Kind)

	K, M, err := s.Assemble()
	require.NoError(t, err)
	r, c := K.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 5, c)

	assertSymmetric(t, K)
	assertSymmetric(t, M)

	// node 1 ux: two horizontal bars of length 2, the vertical bar adds nothing
	assert.InDelta(t, 2*young*area/2, K.At(0, 0), 1e-6)
	// node 1 uy: only the vertical bar of length 1.5
	assert.InDelta(t, young*area/1.5, K.At(1, 1), 1e-6)
	// node 3 ux couples to node 1 ux through the bottom chord
	assert.InDelta(t, -young*area/2, K.At(0, 4), 1e-6)

	// lumped mass: half of each connected bar on every dof of node 1
	m1 := rho * area / 2 * (2 + 1.5 + 2)
	assert.InDelta(t, m1, M.At(0, 0), 1e-9)
	assert.InDelta(t, m1, M.At(1, 1), 1e-9)
	assert.Equal(t, 0.0, M.At(0, 1))
}

func TestAssembleFull_MassConservation(t *testing.T) {
	s := cantileverStructure(t)
	K, M := s.AssembleFull()
	assertSymmetric(t, K)
	assertSymmetric(t, M)

	total := rho * area * (2 + 2.5 + 1.5 + 2.5 + 2)
	assert.InDelta(t, total, s.TotalMass(), 1e-9)

	// each direction carries the whole structural mass once
	var sumX, sumY float64
	n, _ := M.Dims()
	for i := 0; i < n; i += 2 {
		sumX += M.At(i, i)
		sumY += M.At(i+1, i+1)
	}
	assert.InDelta(t, total, sumX, 1e-9)
	assert.InDelta(t, total, sumY, 1e-9)
	assert.InDelta(t, 2*total, mat.Trace(M), 1e-9)

	// rigid body translation is stress free
	u := mat.NewVecDense(n, nil)
	for i := 0; i < n; i += 2 {
		u.SetVec(i, 1)
	}
	var f mat.VecDense
	f.MulVec(K, u)
	assert.InDelta(t, 0, mat.Norm(&f, 2), 1e-6)
}

func TestAssemble_ReducedMatchesFull(t *testing.T) {
	s := cantileverStructure(t)
	Kr, Mr, err := s.Assemble()
	require.NoError(t, err)
	Kf, Mf := s.AssembleFull()

	for i, fi := range s.Dofs.Flags {
		if fi < 0 {
			continue
		}
		for j, fj := range s.Dofs.Flags {
			if fj < 0 {
				continue
			}
			assert.Equal(t, Kf.At(i, j), Kr.At(fi, fj))
			assert.Equal(t, Mf.At(i, j), Mr.At(fi, fj))
		}
	}
}

func TestAssemblePartitioned(t *testing.T) {
	s := cantileverStructure(t)
	K, M, err := s.Assemble()
	require.NoError(t, err)

	for _, strategy := range []partitions.PartitionStrategy{partitions.BlockPartition, partitions.RoundRobin} {
		for _, np := range []int{1, 2, 3, 5} {
			pb := partitions.PartitionBuilder{NumElements: s.NumElements(), NumPartitions: np, Strategy: strategy}
			layout, err := pb.BuildPartitions()
			require.NoError(t, err)

			Kp, Mp, err := s.AssemblePartitioned(layout)
			require.NoError(t, err)
			assert.True(t, mat.EqualApprox(K, Kp, 1e-6), "%v/%d", strategy, np)
			assert.True(t, mat.EqualApprox(M, Mp, 1e-9), "%v/%d", strategy, np)

			Kq, Mq, err := s.AssemblePartitioned(layout)
			require.NoError(t, err)
			assert.True(t, mat.Equal(Kp, Kq))
			assert.True(t, mat.Equal(Mp, Mq))
		}
	}

	_, _, err = s.AssemblePartitioned(nil)
	assert.Error(t, err)
	short, err := (&partitions.PartitionBuilder{NumElements: 2}).BuildPartitions()
	require.NoError(t, err)
	_, _, err = s.AssemblePartitioned(short)
	assert.Error(t, err)
}

func TestBuildElements(t *testing.T) {
	m, specs, _ := cantilever(t)
	serial, err := BuildElementsSerial(m, specs)
	require.NoError(t, err)

	pb := partitions.PartitionBuilder{NumElements: len(specs), NumPartitions: 2, Strategy: partitions.RoundRobin}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)

	for _, limit := range []int{0, 1, 4} {
		par, err := BuildElements(m, specs, layout, limit)
		require.NoError(t, err)
		require.Len(t, par, len(serial))
		for k := range serial {
			assert.Equal(t, serial[k].ID, par[k].ID)
			assert.True(t, mat.Equal(serial[k].StiffnessMatrix(), par[k].StiffnessMatrix()))
			assert.True(t, mat.Equal(serial[k].MassMatrix(), par[k].MassMatrix()))
		}
	}

	nolayout, err := BuildElements(m, specs, nil, 0)
	require.NoError(t, err)
	assert.Len(t, nolayout, len(specs))

	bad := append([]ElementSpec(nil), specs...)
	bad[1].Nodes = [2]int{0, 9}
	bad[3].Nodes = [2]int{3, 3}
	_, err = BuildElements(m, bad, layout, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidTopology))
	assert.Contains(t, err.Error(), "element 1")

	_, err = BuildElements(m, specs[:2], layout, 0)
	assert.Error(t, err)
}

func TestNewStructure_Errors(t *testing.T) {
	m, specs, cons := cantilever(t)
	elems, err := BuildElementsSerial(m, specs)
	require.NoError(t, err)

	t.Run("constraint on unknown node", func(t *testing.T) {
		_, err := NewStructure(m, elems, append(cons, mesh.Fix(7, true)))
		assert.ErrorIs(t, err, utils.ErrInvalidTopology)
		assert.ErrorIs(t, err, utils.ErrConfiguration)
	})

	t.Run("too many constraint flags", func(t *testing.T) {
		_, err := NewStructure(m, elems, []mesh.Constraint{{NodeID: 1, Fixed: []int{1, 1, 1}}})
		assert.ErrorIs(t, err, utils.ErrInvalidTopology)
	})

	t.Run("node outside mesh", func(t *testing.T) {
		stray, err := mesh.NewNode(1, 5, 5)
		require.NoError(t, err)
		e, err := element.NewElement(9, element.Truss2D, m.Nodes[0], stray, specs[0].Props)
		require.NoError(t, err)
		_, err = NewStructure(m, []*element.Element{e}, nil)
		assert.ErrorIs(t, err, utils.ErrInvalidTopology)
	})

	t.Run("mixed kinds", func(t *testing.T) {
		p := specs[0].Props
		p.Inertia = 1e-4
		f, err := element.NewElement(9, element.Frame2D, m.Nodes[0], m.Nodes[1], p)
		require.NoError(t, err)
		_, err = NewStructure(m, append([]*element.Element{f}, elems...), nil)
		assert.ErrorIs(t, err, utils.ErrUnsupportedElement)
	})

	t.Run("nil mesh", func(t *testing.T) {
		_, err := NewStructure(nil, nil, nil)
		assert.ErrorIs(t, err, utils.ErrInvalidTopology)
	})
}

func TestAssemble_AllFixed(t *testing.T) {
	m, specs, _ := cantilever(t)
	elems, err := BuildElementsSerial(m, specs)
	require.NoError(t, err)
	var cons []mesh.Constraint
	for id := 0; id < 4; id++ {
		cons = append(cons, mesh.Fix(id, true, true))
	}
	s, err := NewStructure(m, elems, cons)
	require.NoError(t, err)

	K, M, err := s.Assemble()
	require.NoError(t, err)
	assert.True(t, K.IsEmpty())
	assert.True(t, M.IsEmpty())

	layout, err := (&partitions.PartitionBuilder{NumElements: 5, NumPartitions: 2}).BuildPartitions()
	require.NoError(t, err)
	K, _, err = s.AssemblePartitioned(layout)
	require.NoError(t, err)
	assert.True(t, K.IsEmpty())
}

func TestAssemble_NoElements(t *testing.T) {
	n, err := mesh.NewNode(0, 0, 0, 0)
	require.NoError(t, err)
	m, err := mesh.NewMesh(n)
	require.NoError(t, err)
	s, err := NewStructure(m, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, s.DofsPerNode)

	K, M, err := s.Assemble()
	require.NoError(t, err)
	r, _ := K.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 0.0, mat.Sum(M))
}

func TestElementDofs(t *testing.T) {
	s := cantileverStructure(t)
	eqs, err := s.ElementDofs(s.Elements[4]) // bar (1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, -1}, eqs)
	assert.Equal(t, [2]int{1, 3}, s.Connectivity(4))

	_, err = s.ElementDofs(&element.Element{ID: 42})
	assert.Error(t, err)
	assert.Contains(t, s.String(), "5 free of 8")
}

// strayLayout passes the element checks but names a partition 7 of 2
func strayLayout() *partitions.PartitionLayout {
	return &partitions.PartitionLayout{
		Partitions: []partitions.Partition{
			{ID: 0, Elements: []int{0, 1, 2, 3, 4}, NumElements: 5},
			{ID: 7, Elements: []int{}},
		},
		KpartMax:      5,
		TotalElements: 5,
		NumPartitions: 2,
		EToP:          []int{0, 0, 0, 0, 0},
	}
}

func TestAssemblePartitioned_BadLayout(t *testing.T) {
	s := cantileverStructure(t)

	_, _, err := s.AssemblePartitioned(strayLayout())
	assert.Error(t, err)

	outOfRange := &partitions.PartitionLayout{
		Partitions: []partitions.Partition{
			{ID: 0, Elements: []int{0, 1, 2}, NumElements: 3},
			{ID: 1, Elements: []int{3, 9}, NumElements: 2},
		},
		KpartMax:      3,
		TotalElements: 5,
		NumPartitions: 2,
		EToP:          []int{0, 0, 0, 1, 1},
	}
	_, _, err = s.AssemblePartitioned(outOfRange)
	assert.Error(t, err)

	// groups built for frames do not match a truss structure
	kinds := make([]element.Kind, 5)
	for i := range kinds {
		kinds[i] = element.Frame2D
	}
	frames, err := (&partitions.PartitionBuilder{NumElements: 5, ElementKinds: kinds, NumPartitions: 2}).BuildPartitions()
	require.NoError(t, err)
	_, _, err = s.AssemblePartitioned(frames)
	assert.ErrorIs(t, err, utils.ErrUnsupportedElement)

	// matching groups are accepted
	for i := range kinds {
		kinds[i] = element.Truss2D
	}
	trusses, err := (&partitions.PartitionBuilder{NumElements: 5, ElementKinds: kinds, NumPartitions: 2}).BuildPartitions()
	require.NoError(t, err)
	_, _, err = s.AssemblePartitioned(trusses)
	assert.NoError(t, err)
}

func TestBuildElements_BadLayout(t *testing.T) {
	m, specs, _ := cantilever(t)

	_, err := BuildElements(m, specs, strayLayout(), 0)
	assert.Error(t, err)

	member9 := &partitions.PartitionLayout{
		Partitions: []partitions.Partition{
			{ID: 0, Elements: []int{0, 1, 2, 3, 9}, NumElements: 5},
		},
		KpartMax:      5,
		TotalElements: 5,
		NumPartitions: 1,
		EToP:          []int{0, 0, 0, 0, 0},
	}
	_, err = BuildElements(m, specs, member9, 2)
	assert.Error(t, err)
}

func TestBuildElements_FirstFailurePerPartition(t *testing.T) {
	m, specs, _ := cantilever(t)
	bad := append([]ElementSpec(nil), specs...)
	bad[2].Nodes = [2]int{1, 1}
	bad[4].Nodes = [2]int{1, 8}

	layout, err := (&partitions.PartitionBuilder{NumElements: 5, NumPartitions: 1}).BuildPartitions()
	require.NoError(t, err)
	_, err = BuildElements(m, bad, layout, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrDegenerateGeometry)
	assert.Contains(t, err.Error(), "element 2")
}
