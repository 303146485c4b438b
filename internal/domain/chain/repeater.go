package chain

import (
	"github.com/polyforge/polychain/pkg/errors"
)

// DefaultRepeatOffset is the per-copy translation applied by the repeater
// when the caller does not supply one: 3.0 length units along z.
var DefaultRepeatOffset = Vec3{Z: 3.0}

// RepeatParams are the inputs to the monomer repeater.
type RepeatParams struct {
	// Units is the number of monomer copies to emit; must be >= 1.
	Units int `json:"units"`

	// Offset is the cumulative translation between consecutive copies:
	// copy k is shifted by Offset scaled by k. The zero vector is replaced
	// by DefaultRepeatOffset.
	Offset Vec3 `json:"offset"`
}

// Validate checks repeat parameters against the supplied monomer.
func (p RepeatParams) Validate(monomer *Chain) error {
	if p.Units < 1 {
		return errors.New(errors.CodeChainInvalidUnits, "units must be >= 1").
			WithDetail("got %d", p.Units)
	}
	if monomer == nil || len(monomer.Atoms) == 0 {
		return errors.New(errors.CodeChainEmptyMonomer, "monomer has no atoms")
	}
	return nil
}

// Repeat tiles the monomer p.Units times, translating copy k (0-based) by
// the offset scaled by k. Monomer-internal relative geometry is unchanged
// and the monomer itself is never mutated. The result carries no bond list;
// downstream viewers infer connectivity or do without, matching the original
// repeater pipeline.
func Repeat(monomer *Chain, p RepeatParams) (*Chain, error) {
	if err := p.Validate(monomer); err != nil {
		return nil, err
	}

	offset := p.Offset
	if offset == (Vec3{}) {
		offset = DefaultRepeatOffset
	}

	out := &Chain{Atoms: make([]Atom, 0, len(monomer.Atoms)*p.Units)}
	for k := 0; k < p.Units; k++ {
		shift := offset.Scale(float64(k))
		for _, a := range monomer.Atoms {
			out.Atoms = append(out.Atoms, Atom{
				Element:  a.Element,
				Position: a.Position.Add(shift),
			})
		}
	}
	return out, nil
}
