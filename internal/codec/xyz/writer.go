package xyz

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/polyforge/polychain/pkg/errors"
)

// Write serializes doc to w: the atom count, the comment line, then one
// "symbol x y z" line per atom with coordinates formatted to six decimal
// places. The count is always len(doc.Atoms), never DeclaredCount.
func Write(w io.Writer, doc *Document) error {
	if doc == nil {
		return errors.Internal("cannot write nil document")
	}

	bw := bufio.NewWriter(w)

	comment := doc.Comment
	if comment == "" {
		comment = DefaultComment
	}

	if _, err := fmt.Fprintf(bw, "%d\n%s\n", len(doc.Atoms), comment); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "write xyz header")
	}
	for _, a := range doc.Atoms {
		p := a.Position
		if _, err := fmt.Fprintf(bw, "%s %.6f %.6f %.6f\n", a.Element, p.X, p.Y, p.Z); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write xyz atom line")
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "flush xyz output")
	}
	return nil
}

// Marshal returns doc serialized as a byte slice.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
