// Package xyz implements the XYZ atomic-coordinate text format: one line
// with the atom count, one free-text comment line, then one line per atom
// with an element symbol and three Cartesian coordinates.
//
// This is the only durable format in the system, so the writer preserves the
// historical line structure byte-for-byte: single-space separated fields,
// coordinates printed with six decimal places, "\n" terminators.
//
// The reader supports two parse modes. Lenient mode reproduces the legacy
// behavior of silently dropping body lines that do not split into exactly
// four fields (the dropped line numbers are recorded on the Document so
// callers can surface them). Strict mode fails on the first malformed line
// or on a declared-count mismatch.
package xyz

import (
	"github.com/polyforge/polychain/internal/domain/chain"
)

// DefaultComment is the comment line emitted when a document has none.
const DefaultComment = "Generated polymer chain"

// Document is an in-memory XYZ file.
type Document struct {
	// Comment is the second line of the file. The reader never interprets it.
	Comment string

	// Atoms is the ordered atom sequence. The writer derives the count line
	// from its length.
	Atoms []chain.Atom

	// DeclaredCount is the count parsed from line 1 on read. In lenient mode
	// it may disagree with len(Atoms); the writer ignores it.
	DeclaredCount int

	// SkippedLines holds the 1-based file line numbers dropped by a lenient
	// read. Empty after strict reads and for writer-built documents.
	SkippedLines []int
}

// FromChain wraps a chain in a Document, applying DefaultComment when the
// comment is empty.
func FromChain(c *chain.Chain, comment string) *Document {
	if comment == "" {
		comment = DefaultComment
	}
	return &Document{Comment: comment, Atoms: c.Atoms, DeclaredCount: len(c.Atoms)}
}

// Chain converts the document back to a bond-less chain.
func (d *Document) Chain() *chain.Chain {
	return &chain.Chain{Atoms: d.Atoms}
}

// Mode selects the reader's handling of malformed input.
type Mode int

const (
	// Lenient drops malformed body lines silently and tolerates a
	// declared-count mismatch. This is the documented legacy behavior.
	Lenient Mode = iota

	// Strict fails on the first malformed body line and on any mismatch
	// between the declared count and the parsed atom count.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

type readerOptions struct {
	mode Mode
}

// Option configures a Read call.
type Option func(*readerOptions)

// WithMode sets the parse mode; the default is Lenient.
func WithMode(m Mode) Option {
	return func(o *readerOptions) { o.mode = m }
}

// WithStrict is shorthand for WithMode(Strict).
func WithStrict() Option {
	return WithMode(Strict)
}
