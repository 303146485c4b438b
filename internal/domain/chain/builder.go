package chain

import (
	"math"

	"github.com/polyforge/polychain/pkg/errors"
)

// BuildParams are the inputs to the procedural chain builder. All fields are
// explicit; there are no hidden session defaults inside the domain layer.
type BuildParams struct {
	// Units is the number of monomer units; must be >= 1.
	Units int `json:"units"`

	// BondAngle is the in-plane rotation increment in degrees, applied after
	// each placed unit. Must lie in [0, 180].
	BondAngle float64 `json:"bond_angle"`

	// TorsionAngle is the out-of-plane rotation increment in degrees.
	// Must lie in [-180, 180].
	TorsionAngle float64 `json:"torsion_angle"`

	// BondLength is the step distance between consecutive units; must be
	// positive and no greater than MaxBondLength.
	BondLength float64 `json:"bond_length"`

	// Element is the symbol emitted for every atom in the chain.
	Element string `json:"element"`
}

// MaxBondLength is a sanity cap on the step distance. The interactive
// surfaces historically limited bond length to 5.0; anything an order of
// magnitude above that is a caller bug, not a chemistry choice.
const MaxBondLength = 50.0

// Validate checks all build parameters and returns a typed invalid-parameter
// error for the first violation found.
func (p BuildParams) Validate() error {
	if p.Units < 1 {
		return errors.New(errors.CodeChainInvalidUnits, "units must be >= 1").
			WithDetail("got %d", p.Units)
	}
	if p.BondAngle < 0 || p.BondAngle > 180 {
		return errors.New(errors.CodeChainInvalidAngle, "bond angle must be in [0, 180] degrees").
			WithDetail("got %g", p.BondAngle)
	}
	if p.TorsionAngle < -180 || p.TorsionAngle > 180 {
		return errors.New(errors.CodeChainInvalidAngle, "torsion angle must be in [-180, 180] degrees").
			WithDetail("got %g", p.TorsionAngle)
	}
	if p.BondLength <= 0 || p.BondLength > MaxBondLength {
		return errors.New(errors.CodeChainInvalidLength, "bond length must be in (0, 50]").
			WithDetail("got %g", p.BondLength)
	}
	if !ValidElement(p.Element) {
		return errors.New(errors.CodeChainInvalidElement, "element must be a symbol like C, O, N, or Cl").
			WithDetail("got %q", p.Element)
	}
	return nil
}

// Build grows a chain of p.Units atoms from the origin. Each step i places
// an atom at the running position, bonds it to its predecessor, then advances
// the position by the bond length rotated through the accumulated bond and
// torsion angles:
//
//	dx = L·cos(angle)·cos(torsion)
//	dy = L·sin(angle)·cos(torsion)
//	dz = L·sin(torsion)
//
// with both accumulators incremented by their per-step parameter afterwards.
// The result is a parametric helix, not energy-minimized geometry; there is
// no collision detection and no chemical validation.
func Build(p BuildParams) (*Chain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := &Chain{
		Atoms: make([]Atom, 0, p.Units),
		Bonds: make([]Bond, 0, max(p.Units-1, 0)),
	}

	var pos Vec3
	angle, torsion := 0.0, 0.0

	for i := 0; i < p.Units; i++ {
		out.Atoms = append(out.Atoms, Atom{Element: p.Element, Position: pos})
		if i > 0 {
			out.Bonds = append(out.Bonds, Bond{From: i - 1, To: i})
		}

		angleRad := angle * math.Pi / 180
		torsionRad := torsion * math.Pi / 180
		pos = pos.Add(Vec3{
			X: p.BondLength * math.Cos(angleRad) * math.Cos(torsionRad),
			Y: p.BondLength * math.Sin(angleRad) * math.Cos(torsionRad),
			Z: p.BondLength * math.Sin(torsionRad),
		})

		angle += p.BondAngle
		torsion += p.TorsionAngle
	}

	return out, nil
}
