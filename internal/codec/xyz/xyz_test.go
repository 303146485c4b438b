package xyz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/pkg/errors"
)

func sampleChain() *chain.Chain {
	return &chain.Chain{
		Atoms: []chain.Atom{
			{Element: "C", Position: chain.Vec3{X: 0, Y: 0, Z: 0}},
			{Element: "C", Position: chain.Vec3{X: 1.5, Y: 0, Z: 0}},
			{Element: "C", Position: chain.Vec3{X: 0.75, Y: 1.2990381057, Z: 0}},
		},
		Bonds: []chain.Bond{{From: 0, To: 1}, {From: 1, To: 2}},
	}
}

func TestWrite_LineStructure(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, FromChain(sampleChain(), ""))
	require.NoError(t, err)

	want := "3\n" +
		"Generated polymer chain\n" +
		"C 0.000000 0.000000 0.000000\n" +
		"C 1.500000 0.000000 0.000000\n" +
		"C 0.750000 1.299038 0.000000\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_CustomComment(t *testing.T) {
	doc := FromChain(sampleChain(), "benzene backbone, 3 units")
	data, err := Marshal(doc)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "benzene backbone, 3 units", lines[1])
}

func TestWrite_NilDocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil))
}

func TestRoundTrip(t *testing.T) {
	original := FromChain(sampleChain(), "round trip")
	data, err := Marshal(original)
	require.NoError(t, err)

	parsed, err := Unmarshal(data, WithStrict())
	require.NoError(t, err)

	require.Len(t, parsed.Atoms, len(original.Atoms))
	assert.Equal(t, "round trip", parsed.Comment)
	assert.Equal(t, 3, parsed.DeclaredCount)
	for i := range original.Atoms {
		assert.Equal(t, original.Atoms[i].Element, parsed.Atoms[i].Element)
		assert.InDelta(t, original.Atoms[i].Position.X, parsed.Atoms[i].Position.X, 1e-6)
		assert.InDelta(t, original.Atoms[i].Position.Y, parsed.Atoms[i].Position.Y, 1e-6)
		assert.InDelta(t, original.Atoms[i].Position.Z, parsed.Atoms[i].Position.Z, 1e-6)
	}
}

func TestRead_LenientDropsShortLines(t *testing.T) {
	input := "4\n" +
		"comment\n" +
		"C 0.0 0.0 0.0\n" +
		"C 1.0 2.0\n" + // 3 fields: dropped
		"O 1.0 2.0 3.0\n" +
		"N 1.0 2.0 3.0 4.0\n" // 5 fields: dropped

	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Atoms, 2)
	assert.Equal(t, "C", doc.Atoms[0].Element)
	assert.Equal(t, "O", doc.Atoms[1].Element)
	assert.Equal(t, []int{4, 6}, doc.SkippedLines)
	// Declared/actual mismatch is tolerated but visible.
	assert.Equal(t, 4, doc.DeclaredCount)
}

func TestRead_LenientDropsNonNumericCoordinates(t *testing.T) {
	input := "2\nc\nC 0.0 zero 0.0\nO 1.0 2.0 3.0\n"
	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Atoms, 1)
	assert.Equal(t, []int{3}, doc.SkippedLines)
}

func TestRead_LenientSkipsBlankLines(t *testing.T) {
	input := "1\ncomment\n\nC 0.0 0.0 0.0\n\n"
	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, doc.Atoms, 1)
	assert.Empty(t, doc.SkippedLines)
}

func TestRead_StrictFailsOnMalformedLine(t *testing.T) {
	input := "2\ncomment\nC 0.0 0.0 0.0\nC 1.0 2.0\n"
	_, err := Read(strings.NewReader(input), WithStrict())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedLine))
	assert.Contains(t, err.Error(), "line 4")
}

func TestRead_StrictFailsOnCountMismatch(t *testing.T) {
	input := "5\ncomment\nC 0.0 0.0 0.0\n"
	_, err := Read(strings.NewReader(input), WithStrict())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCountMismatch))
}

func TestRead_BadCountLine(t *testing.T) {
	for _, input := range []string{"", "not-a-number\ncomment\n", "-1\ncomment\n"} {
		_, err := Read(strings.NewReader(input))
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.IsCode(err, errors.CodeMalformedDocument))
	}
}

func TestRead_CountOnlyDocument(t *testing.T) {
	doc, err := Read(strings.NewReader("0\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Atoms)
	assert.Equal(t, 0, doc.DeclaredCount)

	// Strict agrees when the declared count is honest.
	_, err = Read(strings.NewReader("0\ncomment\n"), WithStrict())
	assert.NoError(t, err)
}

func TestRead_CountLineWithSurroundingSpace(t *testing.T) {
	doc, err := Read(strings.NewReader("  2 \nc\nC 0 0 0\nO 1 1 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.DeclaredCount)
	assert.Len(t, doc.Atoms, 2)
}

func TestDocument_Chain(t *testing.T) {
	doc, err := Read(strings.NewReader("1\nc\nC 1.0 2.0 3.0\n"))
	require.NoError(t, err)

	c := doc.Chain()
	require.Len(t, c.Atoms, 1)
	assert.Empty(t, c.Bonds)
	assert.Equal(t, chain.Vec3{X: 1, Y: 2, Z: 3}, c.Atoms[0].Position)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "lenient", Lenient.String())
	assert.Equal(t, "strict", Strict.String())
}
