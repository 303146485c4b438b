package fsstore

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/pkg/errors"
)

// Scratch stages uploaded content in uniquely named temporary files. Unique
// names replace the fixed scratch path the original pipeline used, so two
// concurrent uploads can never collide, and the returned cleanup func makes
// removal explicit on every exit path.
type Scratch struct {
	fs     afero.Fs
	dir    string
	keep   bool
	logger logging.Logger
}

// NewScratch creates a staging area under dir; an empty dir selects the
// filesystem's temp directory. keep disables cleanup, for debugging.
func NewScratch(fs afero.Fs, dir string, keep bool, logger logging.Logger) (*Scratch, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if dir == "" {
		dir = afero.GetTempDir(fs, "polychain")
	} else if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "create scratch directory")
	}
	return &Scratch{fs: fs, dir: dir, keep: keep, logger: logger.Named("scratch")}, nil
}

// Stage writes data to a fresh uniquely named file and returns its path plus
// a cleanup func. Callers defer the cleanup immediately; it is safe to call
// more than once.
func (s *Scratch) Stage(prefix string, data []byte) (string, func(), error) {
	if prefix == "" {
		prefix = "upload"
	}
	name := fmt.Sprintf("%s-%s.xyz", prefix, uuid.NewString())
	path := filepath.Join(s.dir, name)

	if err := afero.WriteFile(s.fs, path, data, 0o600); err != nil {
		return "", nil, errors.Wrap(err, errors.CodeStorageError, "stage scratch file")
	}

	removed := false
	cleanup := func() {
		if removed || s.keep {
			return
		}
		removed = true
		if err := s.fs.Remove(path); err != nil {
			s.logger.Warn("scratch cleanup failed",
				logging.String("path", path), logging.Err(err))
		}
	}
	return path, cleanup, nil
}

// Read returns the contents of a staged file; a missing file is a
// source-unavailable error.
func (s *Scratch) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.SourceUnavailable(path).WithCause(err)
	}
	return data, nil
}
