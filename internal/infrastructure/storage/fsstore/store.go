// Package fsstore is the filesystem document store for generated XYZ files
// and the staging area for uploads. It is built on afero so tests run
// against an in-memory filesystem and so path handling stays uniform across
// platforms.
package fsstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/pkg/errors"
)

// DocumentInfo describes a stored XYZ document.
type DocumentInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store persists XYZ documents under a single output directory.
type Store struct {
	fs        afero.Fs
	outputDir string
	logger    logging.Logger
}

// New creates a Store rooted at outputDir, creating the directory if absent.
func New(fs afero.Fs, outputDir string, logger logging.Logger) (*Store, error) {
	if outputDir == "" {
		return nil, errors.InvalidParam("output directory must not be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := fs.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "create output directory")
	}
	return &Store{fs: fs, outputDir: outputDir, logger: logger.Named("fsstore")}, nil
}

// SanitizeName reduces name to a safe file name within the store: path
// components are stripped, whitespace trimmed, and a ".xyz" extension
// enforced. An empty result is an invalid-parameter error.
func SanitizeName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, string(os.PathSeparator), "")
	if base == "" || base == "." || base == ".." {
		return "", errors.InvalidParam("document name is empty after sanitization").
			WithDetail("got %q", name)
	}
	if !strings.EqualFold(filepath.Ext(base), ".xyz") {
		base += ".xyz"
	}
	return base, nil
}

// Save writes data under the sanitized name and returns the path relative to
// the store root. Existing documents with the same name are overwritten.
func (s *Store) Save(name string, data []byte) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.outputDir, clean)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "write document").
			WithDetail("%s", path)
	}
	s.logger.Debug("document saved",
		logging.String("name", clean),
		logging.Int("bytes", len(data)))
	return path, nil
}

// Get returns the contents of a stored document.
func (s *Store) Get(name string) ([]byte, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.outputDir, clean)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("document not found").WithDetail("%s", clean)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError, "read document")
	}
	return data, nil
}

// List returns every stored document, sorted by name.
func (s *Store) List() ([]DocumentInfo, error) {
	entries, err := afero.ReadDir(s.fs, s.outputDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "list documents")
	}
	var docs []DocumentInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xyz") {
			continue
		}
		docs = append(docs, DocumentInfo{
			Name:     e.Name(),
			Size:     e.Size(),
			Modified: e.ModTime(),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Delete removes a stored document.
func (s *Store) Delete(name string) error {
	clean, err := SanitizeName(name)
	if err != nil {
		return err
	}
	path := filepath.Join(s.outputDir, clean)
	if exists, _ := afero.Exists(s.fs, path); !exists {
		return errors.NotFound("document not found").WithDetail("%s", clean)
	}
	if err := s.fs.Remove(path); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "delete document")
	}
	return nil
}
