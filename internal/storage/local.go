package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists uploaded files and serves back stable URIs.
type FileStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (string, error)
	Delete(ctx context.Context, uri string) error
}

// LocalStore writes files to a directory on local disk. Stored files are
// exposed under a public URL path by the HTTP layer; the returned URI is
// publicPath + "/" + generated name.
type LocalStore struct {
	dir        string
	publicPath string
}

// NewLocalStore creates the backing directory if needed.
func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{
		dir:        dir,
		publicPath: strings.TrimRight(publicPath, "/"),
	}, nil
}

// Dir returns the backing directory, for static file serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save stores the payload under a generated name, keeping the original
// extension, and returns the public URI.
func (s *LocalStore) Save(ctx context.Context, fileName string, r io.Reader) (string, error) {
	name := uuid.NewString() + sanitizeExt(fileName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return s.publicPath + "/" + name, nil
}

// Delete removes the file behind a URI previously returned by Save.
func (s *LocalStore) Delete(ctx context.Context, uri string) error {
	name, err := s.fileNameFromURI(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *LocalStore) fileNameFromURI(uri string) (string, error) {
	name, ok := strings.CutPrefix(uri, s.publicPath+"/")
	if !ok {
		return "", fmt.Errorf("uri %q outside store", uri)
	}
	// a stored name never contains separators; anything else is traversal
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid stored file name %q", name)
	}
	return name, nil
}

func sanitizeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
