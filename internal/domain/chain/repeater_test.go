package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyforge/polychain/pkg/errors"
)

func waterMonomer() *Chain {
	return &Chain{Atoms: []Atom{
		{Element: "O", Position: Vec3{X: 0.0, Y: 0.0, Z: 0.0}},
		{Element: "H", Position: Vec3{X: 0.7572, Y: 0.5865, Z: 0.0}},
		{Element: "H", Position: Vec3{X: -0.7572, Y: 0.5865, Z: 0.0}},
	}}
}

func TestRepeat_TranslationProperty(t *testing.T) {
	mono := waterMonomer()
	k := len(mono.Atoms)

	out, err := Repeat(mono, RepeatParams{Units: 3})
	require.NoError(t, err)
	require.Len(t, out.Atoms, 3*k)
	assert.Empty(t, out.Bonds)

	// Copy 2 is copy 0 shifted by twice the default offset: (0, 0, 6).
	for j := 0; j < k; j++ {
		base := out.Atoms[j]
		shifted := out.Atoms[j+2*k]
		assert.Equal(t, base.Element, shifted.Element)
		assert.InDelta(t, base.Position.X, shifted.Position.X, 1e-12)
		assert.InDelta(t, base.Position.Y, shifted.Position.Y, 1e-12)
		assert.InDelta(t, base.Position.Z+6.0, shifted.Position.Z, 1e-12)
	}
}

func TestRepeat_CustomOffset(t *testing.T) {
	mono := waterMonomer()
	out, err := Repeat(mono, RepeatParams{Units: 2, Offset: Vec3{X: 1, Y: -2, Z: 0.5}})
	require.NoError(t, err)
	require.Len(t, out.Atoms, 6)

	shifted := out.Atoms[3].Position
	assert.InDelta(t, 1.0, shifted.X, 1e-12)
	assert.InDelta(t, -2.0, shifted.Y, 1e-12)
	assert.InDelta(t, 0.5, shifted.Z, 1e-12)
}

func TestRepeat_SingleUnitIsIdentity(t *testing.T) {
	mono := waterMonomer()
	out, err := Repeat(mono, RepeatParams{Units: 1})
	require.NoError(t, err)
	assert.Equal(t, mono.Atoms, out.Atoms)
	// Monomer untouched.
	assert.InDelta(t, 0.0, mono.Atoms[0].Position.Z, 1e-12)
}

func TestRepeat_InternalGeometryPreserved(t *testing.T) {
	mono := waterMonomer()
	ohDistance := mono.Atoms[1].Position.Sub(mono.Atoms[0].Position).Norm()

	out, err := Repeat(mono, RepeatParams{Units: 4})
	require.NoError(t, err)

	for k := 0; k < 4; k++ {
		o := out.Atoms[k*3].Position
		h := out.Atoms[k*3+1].Position
		assert.InDelta(t, ohDistance, h.Sub(o).Norm(), 1e-12, "copy %d", k)
	}
}

func TestRepeat_Validation(t *testing.T) {
	_, err := Repeat(waterMonomer(), RepeatParams{Units: 0})
	assert.True(t, errors.IsCode(err, errors.CodeChainInvalidUnits))

	_, err = Repeat(&Chain{}, RepeatParams{Units: 2})
	assert.True(t, errors.IsCode(err, errors.CodeChainEmptyMonomer))

	_, err = Repeat(nil, RepeatParams{Units: 2})
	assert.True(t, errors.IsCode(err, errors.CodeChainEmptyMonomer))
}
