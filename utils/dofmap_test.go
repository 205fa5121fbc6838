package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDofMap_Numbering(t *testing.T) {
	// 4 planar nodes, node 0 pinned, node 3 on a roller
	fixed := []NodeDof{{0, 0}, {0, 1}, {3, 1}}
	dm, err := NewDofMap(4, 2, fixed)
	require.NoError(t, err)

	assert.Equal(t, []int{-1, -1, 0, 1, 2, 3, 4, -1}, dm.Flags)
	assert.Equal(t, 5, dm.NumFree)
	assert.True(t, dm.IsFixed(3, 1))
	assert.False(t, dm.IsFixed(3, 0))
	assert.Equal(t, 4, dm.Global(3, 0))

	eqs, err := dm.Equations(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -1, 2, 3}, eqs)
}

func TestDofMap_AllFixed(t *testing.T) {
	dm, err := NewDofMap(1, 3, []NodeDof{{0, 0}, {0, 1}, {0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 0, dm.NumFree)
}

func TestDofMap_Errors(t *testing.T) {
	_, err := NewDofMap(2, 2, []NodeDof{{2, 0}})
	assert.True(t, errors.Is(err, ErrInvalidTopology))

	_, err = NewDofMap(2, 2, []NodeDof{{1, 2}})
	assert.ErrorIs(t, err, ErrInvalidTopology)

	_, err = NewDofMap(2, 0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	dm, err := NewDofMap(2, 2, nil)
	require.NoError(t, err)
	_, err = dm.Equations(0, 5)
	assert.ErrorIs(t, err, ErrInvalidTopology)
}

func TestErrorClasses(t *testing.T) {
	configErrs := []error{ErrInvalidSectionParameters, ErrUnsupportedSection, ErrInvalidMaterial,
		ErrInvalidTopology, ErrArityMismatch, ErrUnsupportedElement, ErrDegenerateGeometry, ErrInvalidOption}
	for _, e := range configErrs {
		assert.ErrorIs(t, e, ErrConfiguration, e.Error())
		assert.NotErrorIs(t, e, ErrNumerical, e.Error())
	}
	for _, e := range []error{ErrIllPosed, ErrNotConverged} {
		assert.ErrorIs(t, e, ErrNumerical, e.Error())
		assert.NotErrorIs(t, e, ErrConfiguration, e.Error())
	}
}
