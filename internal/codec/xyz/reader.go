package xyz

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/pkg/errors"
)

// Read parses an XYZ document from r. Line 1 must hold the declared atom
// count, line 2 is kept verbatim as the comment, and every following line is
// split on whitespace and kept as an atom when it yields exactly four fields
// with numeric coordinates.
//
// In Lenient mode (the default) body lines that fail either test are dropped
// and their line numbers recorded in Document.SkippedLines; a declared-count
// mismatch is tolerated. In Strict mode the first malformed line or a count
// mismatch aborts the parse with a typed error naming the line.
func Read(r io.Reader, opts ...Option) (*Document, error) {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	// Line 1: declared atom count.
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeMalformedDocument, "read xyz input")
		}
		return nil, errors.MalformedDocument("empty input")
	}
	countText := strings.TrimSpace(sc.Text())
	declared, err := strconv.Atoi(countText)
	if err != nil || declared < 0 {
		return nil, errors.MalformedDocument("line 1 is not an atom count").
			WithDetail("got %q", countText)
	}

	doc := &Document{DeclaredCount: declared}

	// Line 2: comment, never interpreted. A document that ends here has no
	// atoms, which only strict mode complains about (against the count).
	if sc.Scan() {
		doc.Comment = sc.Text()
	}

	lineNo := 2
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			// Blank lines are dropped without being recorded as skips; files
			// commonly end with one.
			continue
		}

		atom, ok := parseAtomLine(fields)
		if !ok {
			if o.mode == Strict {
				return nil, errors.New(errors.CodeMalformedLine, "malformed atom line").
					WithDetail("line %d: %q", lineNo, sc.Text())
			}
			doc.SkippedLines = append(doc.SkippedLines, lineNo)
			continue
		}
		doc.Atoms = append(doc.Atoms, atom)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedDocument, "read xyz input")
	}

	if o.mode == Strict && declared != len(doc.Atoms) {
		return nil, errors.New(errors.CodeCountMismatch, "declared atom count does not match body").
			WithDetail("declared %d, parsed %d", declared, len(doc.Atoms))
	}

	return doc, nil
}

// Unmarshal parses an XYZ document from a byte slice.
func Unmarshal(data []byte, opts ...Option) (*Document, error) {
	return Read(bytes.NewReader(data), opts...)
}

// parseAtomLine converts a whitespace-split line into an atom. It requires
// exactly four fields and numeric coordinates.
func parseAtomLine(fields []string) (chain.Atom, bool) {
	if len(fields) != 4 {
		return chain.Atom{}, false
	}
	x, errX := strconv.ParseFloat(fields[1], 64)
	y, errY := strconv.ParseFloat(fields[2], 64)
	z, errZ := strconv.ParseFloat(fields[3], 64)
	if errX != nil || errY != nil || errZ != nil {
		return chain.Atom{}, false
	}
	return chain.Atom{
		Element:  fields[0],
		Position: chain.Vec3{X: x, Y: y, Z: z},
	}, true
}
