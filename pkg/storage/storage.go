// Package storage keeps uploaded files (CVs, logos) and hands out stable references.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrNotFound is returned when a reference does not resolve to a stored file.
var ErrNotFound = errors.New("stored file not found")

// Store accepts binary uploads and returns a reference the caller persists.
type Store interface {
	Save(ctx context.Context, folder, ext string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// FileStore stores files under a base directory of an afero filesystem.
// References have the form "<folder>/<uuid><ext>".
type FileStore struct {
	fs      afero.Fs
	baseDir string
}

// NewFileStore creates a store rooted at baseDir.
func NewFileStore(fs afero.Fs, baseDir string) (*FileStore, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", baseDir, err)
	}
	return &FileStore{fs: fs, baseDir: baseDir}, nil
}

// NewOSFileStore creates a store on the local disk.
func NewOSFileStore(baseDir string) (*FileStore, error) {
	return NewFileStore(afero.NewOsFs(), baseDir)
}

func (s *FileStore) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validSegment(folder) {
		return "", fmt.Errorf("invalid storage folder %q", folder)
	}

	dir := filepath.Join(s.baseDir, folder)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
	}

	ref := path.Join(folder, uuid.NewString()+strings.ToLower(ext))
	f, err := s.fs.OpenFile(filepath.Join(s.baseDir, filepath.FromSlash(ref)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file for %s: %w", ref, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(filepath.Join(s.baseDir, filepath.FromSlash(ref)))
		return "", fmt.Errorf("failed to write %s: %w", ref, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(filepath.Join(s.baseDir, filepath.FromSlash(ref)))
		return "", fmt.Errorf("failed to close %s: %w", ref, err)
	}

	return ref, nil
}

func (s *FileStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", ref, err)
	}
	return f, nil
}

func (s *FileStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return nil
}

// resolve rejects references escaping the base directory.
func (s *FileStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if clean == "/" || strings.Contains(ref, "..") || strings.Contains(ref, "\\") {
		return "", ErrNotFound
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func validSegment(folder string) bool {
	if folder == "" || strings.ContainsAny(folder, `/\.`) {
		return false
	}
	return true
}
