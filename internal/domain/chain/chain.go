// Package chain provides the core domain model for polymer chain geometries:
// atoms positioned in 3-space, sequential bonds between them, the procedural
// builder that grows a chain from angle/length parameters, and the repeater
// that tiles a monomer along a translation axis.
//
// Coordinates are carried as float64 throughout; fixed-precision formatting
// happens only at the XYZ codec boundary.
package chain

import (
	"math"
	"regexp"
)

// Vec3 is a point or displacement in 3-space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Atom is a single element symbol placed at a position. Atoms are immutable
// once created and are identified by their index in the containing Chain.
type Atom struct {
	Element  string `json:"element"`
	Position Vec3   `json:"position"`
}

// Bond is a graph edge between two atom indices, used only for visualization
// downstream; it carries no chemical validation.
type Bond struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Chain is an ordered sequence of atoms with an optional bond list.
// Insertion order defines atom indices 0..n-1.
type Chain struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds,omitempty"`
}

// AtomCount returns the number of atoms in the chain.
func (c *Chain) AtomCount() int {
	return len(c.Atoms)
}

// Length returns the summed segment length over the bond list. Chains with
// no bonds (single atoms, repeater output) have length 0.
func (c *Chain) Length() float64 {
	var total float64
	for _, b := range c.Bonds {
		if b.From < 0 || b.To < 0 || b.From >= len(c.Atoms) || b.To >= len(c.Atoms) {
			continue
		}
		total += c.Atoms[b.To].Position.Sub(c.Atoms[b.From].Position).Norm()
	}
	return total
}

// BoundingBox returns the axis-aligned minimum and maximum corners enclosing
// all atoms. Both corners are the zero vector for an empty chain.
func (c *Chain) BoundingBox() (min, max Vec3) {
	if len(c.Atoms) == 0 {
		return Vec3{}, Vec3{}
	}
	min = c.Atoms[0].Position
	max = c.Atoms[0].Position
	for _, a := range c.Atoms[1:] {
		p := a.Position
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// Translate returns a copy of the chain with every atom shifted by offset.
// The receiver is not mutated; bond indices are preserved.
func (c *Chain) Translate(offset Vec3) *Chain {
	out := &Chain{
		Atoms: make([]Atom, len(c.Atoms)),
		Bonds: append([]Bond(nil), c.Bonds...),
	}
	for i, a := range c.Atoms {
		out.Atoms[i] = Atom{Element: a.Element, Position: a.Position.Add(offset)}
	}
	return out
}

// ElementCounts returns a histogram of element symbols in atom order-independent
// form, used by the inspect surfaces.
func (c *Chain) ElementCounts() map[string]int {
	counts := make(map[string]int, 4)
	for _, a := range c.Atoms {
		counts[a.Element]++
	}
	return counts
}

// elementPattern matches conventional element symbols: an uppercase letter
// followed by up to two lowercase letters (C, Cl, Uue).
var elementPattern = regexp.MustCompile(`^[A-Z][a-z]{0,2}$`)

// ValidElement reports whether s is an acceptable element symbol.
func ValidElement(s string) bool {
	return elementPattern.MatchString(s)
}
