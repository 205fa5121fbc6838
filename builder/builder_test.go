package builder

import (
	"testing"

	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/material"
	"github.com/notargets/framemodal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cantilever() *Builder {
	b := New(element.Truss2D).
		Nodes([][]float64{{0, 0}, {2, 0}, {2, 1.5}, {4, 0}}).
		Material(0, "steel", 1e8, 2.714e3).
		SectionParams(0, "square", map[string]float64{"sideLen": 0.2})
	for k, p := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {1, 3}} {
		b.Bar(k, p[0], p[1], 0, 0)
	}
	return b.Constrain(0, 1, 1).Constrain(3, 0, 1)
}

func TestBuild_Cantilever(t *testing.T) {
	model, err := cantilever().Build()
	require.NoError(t, err)
	assert.Equal(t, 4, model.Mesh.NumNodes())
	require.Len(t, model.Specs, 5)
	assert.Equal(t, [2]int{1, 3}, model.Specs[4].Nodes)
	assert.InDelta(t, 0.04, model.Specs[0].Props.Area, 1e-15)
	assert.Equal(t, 1e8, model.Specs[0].Props.Young)
	assert.Equal(t, []element.Kind{element.Truss2D, element.Truss2D, element.Truss2D,
		element.Truss2D, element.Truss2D}, model.Kinds())

	s, err := model.Structure()
	require.NoError(t, err)
	assert.Equal(t, 5, s.NumFree())
	assert.InDelta(t, 2.5, s.Elements[1].Length(), 1e-15)
}

func TestBuild_Frame(t *testing.T) {
	model, err := New(element.Frame2D).
		Node(10, 0, 0).Node(20, 0, 3).Node(30, 4, 3).
		Material(1, "concrete", 3e10, 2400).
		Section(1, material.RectangleShape{SideLen: 0.4, Width: 0.3}).
		Bar(1, 10, 20, 1, 1).
		Bar(2, 20, 30, 1, 1).
		Fix(10, true, true, true).
		Build()
	require.NoError(t, err)

	s, err := model.Structure()
	require.NoError(t, err)
	assert.Equal(t, 3, s.DofsPerNode)
	assert.Equal(t, 6, s.NumFree())
	assert.InDelta(t, 0.3*0.4*0.4*0.4/12, s.Elements[0].Inertia, 1e-15)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want error
	}{
		{"unknown material", New(element.Truss2D).Node(0, 0, 0).Node(1, 1, 0).
			SectionParams(0, "circle", map[string]float64{"radius": 0.1}).
			Bar(0, 0, 1, 5, 0), utils.ErrInvalidTopology},
		{"unknown section", New(element.Truss2D).Node(0, 0, 0).Node(1, 1, 0).
			Material(0, "steel", 1, 1).Bar(0, 0, 1, 0, 3), utils.ErrInvalidTopology},
		{"unknown node", cantilever().Bar(9, 0, 7, 0, 0), utils.ErrInvalidTopology},
		{"duplicate element", cantilever().Bar(4, 0, 3, 0, 0), utils.ErrInvalidTopology},
		{"duplicate node", cantilever().Node(2, 5, 5), utils.ErrInvalidTopology},
		{"mixed arity", cantilever().Node(9, 1, 2, 3), utils.ErrArityMismatch},
		{"bad section", cantilever().SectionParams(1, "hexagon", nil), utils.ErrUnsupportedSection},
		{"missing parameter", cantilever().SectionParams(1, "ring", map[string]float64{"outRadius": 1}),
			utils.ErrInvalidSectionParameters},
		{"duplicate material", cantilever().Material(0, "steel", 1, 1), utils.ErrInvalidMaterial},
		{"bad constraint", cantilever().Constrain(1, 2), utils.ErrInvalidTopology},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.b.Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, utils.ErrConfiguration)
		})
	}
}

func TestBuild_ConstraintOutOfRange(t *testing.T) {
	model, err := cantilever().Fix(42, true).Build()
	require.NoError(t, err)
	_, err = model.Structure()
	assert.ErrorIs(t, err, utils.ErrInvalidTopology)
}
