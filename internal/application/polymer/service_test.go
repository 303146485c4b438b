package polymer

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyforge/polychain/internal/config"
	"github.com/polyforge/polychain/internal/domain/chain"
	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	"github.com/polyforge/polychain/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.NewDefaultConfig()
	store, err := fsstore.New(afero.NewMemMapFs(), "/out", nil)
	require.NoError(t, err)
	return NewService(cfg, store, nil, nil)
}

const waterXYZ = "3\nwater\n" +
	"O 0.000000 0.000000 0.000000\n" +
	"H 0.757200 0.586500 0.000000\n" +
	"H -0.757200 0.586500 0.000000\n"

func TestService_Generate_UsesConfiguredDefaults(t *testing.T) {
	s := newTestService(t)

	res, err := s.Generate(GenerateRequest{Units: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, res.AtomCount)
	assert.Equal(t, 2, res.BondCount)
	assert.Equal(t, "C", res.Chain.Atoms[0].Element)

	// Defaults: bond angle 120, length 1.5 — the zig-zag third atom.
	a2 := res.Chain.Atoms[2].Position
	assert.InDelta(t, 0.75, a2.X, 1e-6)
	assert.InDelta(t, 1.299038, a2.Y, 1e-6)

	assert.True(t, strings.HasPrefix(res.XYZ, "3\nGenerated polymer chain\n"))
}

func TestService_Generate_ExplicitOverrides(t *testing.T) {
	s := newTestService(t)

	angle, torsion, length := 0.0, 0.0, 2.0
	res, err := s.Generate(GenerateRequest{
		Units:        2,
		BondAngle:    &angle,
		TorsionAngle: &torsion,
		BondLength:   &length,
		Element:      "N",
		Comment:      "straight dimer",
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Chain.Atoms[1].Position.X, 1e-9)
	assert.Equal(t, "N", res.Chain.Atoms[1].Element)
	assert.Contains(t, res.XYZ, "straight dimer\n")
}

func TestService_Generate_SaveAs(t *testing.T) {
	s := newTestService(t)

	res, err := s.Generate(GenerateRequest{Units: 2, SaveAs: "dimer"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SavedPath)

	stored, err := s.Store().Get("dimer.xyz")
	require.NoError(t, err)
	assert.Equal(t, res.XYZ, string(stored))
}

func TestService_Generate_RejectsOverCap(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Generator.MaxUnits = 10
	s := NewService(cfg, nil, nil, nil)

	_, err := s.Generate(GenerateRequest{Units: 11})
	assert.True(t, errors.IsCode(err, errors.CodeChainInvalidUnits))
}

func TestService_Generate_PropagatesValidation(t *testing.T) {
	s := newTestService(t)
	_, err := s.Generate(GenerateRequest{Units: 0})
	assert.True(t, errors.IsInvalidParam(err))
}

func TestService_Repeat_DefaultOffset(t *testing.T) {
	s := newTestService(t)

	res, err := s.Repeat([]byte(waterXYZ), RepeatRequest{Units: 3})
	require.NoError(t, err)
	assert.Equal(t, 9, res.AtomCount)
	assert.Equal(t, 3, res.MonomerAtoms)
	assert.Empty(t, res.SkippedLines)

	// Copy 2 of the oxygen sits at z=6; the comment carries through.
	assert.Contains(t, res.XYZ, "O 0.000000 0.000000 6.000000\n")
	assert.Contains(t, res.XYZ, "water\n")
	assert.True(t, strings.HasPrefix(res.XYZ, "9\n"))
}

func TestService_Repeat_CustomOffsetAndComment(t *testing.T) {
	s := newTestService(t)

	res, err := s.Repeat([]byte(waterXYZ), RepeatRequest{
		Units:   2,
		Offset:  &chain.Vec3{X: 10},
		Comment: "x-tiled water",
	})
	require.NoError(t, err)
	assert.Contains(t, res.XYZ, "O 10.000000 0.000000 0.000000\n")
	assert.Contains(t, res.XYZ, "x-tiled water\n")
}

func TestService_Repeat_LenientReportsSkips(t *testing.T) {
	s := newTestService(t)
	damaged := waterXYZ + "H 1.0 2.0\n"

	res, err := s.Repeat([]byte(damaged), RepeatRequest{Units: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, res.AtomCount)
	assert.Equal(t, []int{6}, res.SkippedLines)
}

func TestService_Repeat_StrictFailsOnDamage(t *testing.T) {
	s := newTestService(t)
	damaged := waterXYZ + "H 1.0 2.0\n"

	_, err := s.Repeat([]byte(damaged), RepeatRequest{Units: 2, Strict: true})
	assert.True(t, errors.IsMalformed(err))
}

func TestService_Repeat_RejectsOverCap(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Repeater.MaxUnits = 5
	s := NewService(cfg, nil, nil, nil)

	_, err := s.Repeat([]byte(waterXYZ), RepeatRequest{Units: 6})
	assert.True(t, errors.IsCode(err, errors.CodeChainInvalidUnits))
}

func TestService_Inspect(t *testing.T) {
	s := newTestService(t)
	damaged := waterXYZ + "junk line\n"

	report, err := s.Inspect([]byte(damaged), false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.DeclaredCount)
	assert.Equal(t, 3, report.AtomCount)
	assert.Equal(t, map[string]int{"O": 1, "H": 2}, report.Elements)
	assert.Equal(t, []int{6}, report.SkippedLines)
	assert.Equal(t, "water", report.Comment)
	assert.InDelta(t, -0.7572, report.BoundsMin.X, 1e-9)
	assert.InDelta(t, 0.7572, report.BoundsMax.X, 1e-9)
}

func TestService_Inspect_Strict(t *testing.T) {
	s := newTestService(t)
	_, err := s.Inspect([]byte("2\nc\nC 0 0 0\n"), true)
	assert.True(t, errors.IsCode(err, errors.CodeCountMismatch))
}

func TestService_SaveWithoutStore(t *testing.T) {
	s := NewService(config.NewDefaultConfig(), nil, nil, nil)
	_, err := s.Generate(GenerateRequest{Units: 2, SaveAs: "x"})
	assert.Error(t, err)
}
