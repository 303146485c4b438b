package chain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Arithmetic(t *testing.T) {
	v := Vec3{X: 1, Y: 2, Z: 3}
	w := Vec3{X: -1, Y: 0.5, Z: 2}

	assert.Equal(t, Vec3{X: 0, Y: 2.5, Z: 5}, v.Add(w))
	assert.Equal(t, Vec3{X: 2, Y: 1.5, Z: 1}, v.Sub(w))
	assert.Equal(t, Vec3{X: 2, Y: 4, Z: 6}, v.Scale(2))
	assert.InDelta(t, math.Sqrt(14), v.Norm(), 1e-12)
}

func TestChain_Length(t *testing.T) {
	c := &Chain{
		Atoms: []Atom{
			{Element: "C", Position: Vec3{}},
			{Element: "C", Position: Vec3{X: 1.5}},
			{Element: "C", Position: Vec3{X: 1.5, Y: 2}},
		},
		Bonds: []Bond{{From: 0, To: 1}, {From: 1, To: 2}},
	}
	assert.InDelta(t, 3.5, c.Length(), 1e-12)

	// Out-of-range bond indices are skipped rather than panicking.
	c.Bonds = append(c.Bonds, Bond{From: 2, To: 99})
	assert.InDelta(t, 3.5, c.Length(), 1e-12)

	empty := &Chain{}
	assert.Zero(t, empty.Length())
}

func TestChain_BoundingBox(t *testing.T) {
	c := &Chain{
		Atoms: []Atom{
			{Element: "N", Position: Vec3{X: -1, Y: 2, Z: 0}},
			{Element: "N", Position: Vec3{X: 3, Y: -4, Z: 5}},
			{Element: "N", Position: Vec3{X: 0, Y: 0, Z: -2}},
		},
	}
	min, max := c.BoundingBox()
	assert.Equal(t, Vec3{X: -1, Y: -4, Z: -2}, min)
	assert.Equal(t, Vec3{X: 3, Y: 2, Z: 5}, max)

	empty := &Chain{}
	min, max = empty.BoundingBox()
	assert.Equal(t, Vec3{}, min)
	assert.Equal(t, Vec3{}, max)
}

func TestChain_Translate(t *testing.T) {
	c := &Chain{
		Atoms: []Atom{{Element: "O", Position: Vec3{X: 1}}},
		Bonds: []Bond{{From: 0, To: 0}},
	}
	moved := c.Translate(Vec3{X: 1, Y: 2, Z: 3})

	assert.Equal(t, Vec3{X: 2, Y: 2, Z: 3}, moved.Atoms[0].Position)
	assert.Equal(t, c.Bonds, moved.Bonds)
	// Original untouched.
	assert.Equal(t, Vec3{X: 1}, c.Atoms[0].Position)
}

func TestChain_ElementCounts(t *testing.T) {
	c := &Chain{Atoms: []Atom{
		{Element: "C"}, {Element: "C"}, {Element: "O"},
	}}
	assert.Equal(t, map[string]int{"C": 2, "O": 1}, c.ElementCounts())
}

func TestValidElement(t *testing.T) {
	valid := []string{"C", "O", "N", "H", "Cl", "Uue"}
	for _, s := range valid {
		assert.True(t, ValidElement(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "c", "CL", "Carbon", "C1", " C", "1H"}
	for _, s := range invalid {
		assert.False(t, ValidElement(s), "expected %q to be invalid", s)
	}
}
