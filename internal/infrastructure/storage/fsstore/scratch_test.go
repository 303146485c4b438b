package fsstore

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyforge/polychain/pkg/errors"
)

func TestScratch_StageUniqueNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	sc, err := NewScratch(fs, "/scratch", false, nil)
	require.NoError(t, err)

	p1, c1, err := sc.Stage("upload", []byte("one"))
	require.NoError(t, err)
	defer c1()
	p2, c2, err := sc.Stage("upload", []byte("two"))
	require.NoError(t, err)
	defer c2()

	assert.NotEqual(t, p1, p2, "staged files must never share a path")

	data, err := sc.Read(p1)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestScratch_CleanupRemovesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	sc, err := NewScratch(fs, "/scratch", false, nil)
	require.NoError(t, err)

	path, cleanup, err := sc.Stage("x", []byte("data"))
	require.NoError(t, err)

	exists, _ := afero.Exists(fs, path)
	assert.True(t, exists)

	cleanup()
	exists, _ = afero.Exists(fs, path)
	assert.False(t, exists)

	// Second call is a no-op, not a warning storm.
	cleanup()
}

func TestScratch_KeepDisablesCleanup(t *testing.T) {
	fs := afero.NewMemMapFs()
	sc, err := NewScratch(fs, "/scratch", true, nil)
	require.NoError(t, err)

	path, cleanup, err := sc.Stage("x", []byte("data"))
	require.NoError(t, err)
	cleanup()

	exists, _ := afero.Exists(fs, path)
	assert.True(t, exists)
}

func TestScratch_ReadMissingIsSourceUnavailable(t *testing.T) {
	fs := afero.NewMemMapFs()
	sc, err := NewScratch(fs, "/scratch", false, nil)
	require.NoError(t, err)

	_, err = sc.Read("/scratch/never-staged.xyz")
	assert.True(t, errors.IsCode(err, errors.CodeSourceUnavailable))
}

func TestScratch_DefaultTempDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	sc, err := NewScratch(fs, "", false, nil)
	require.NoError(t, err)

	path, cleanup, err := sc.Stage("upload", []byte("d"))
	require.NoError(t, err)
	defer cleanup()
	assert.NotEmpty(t, path)
}
