package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge signals an upload above the configured limit.
	ErrTooLarge = errors.New("attachment: file too large")
	// ErrUnsupportedType signals an extension outside the allowed set.
	ErrUnsupportedType = errors.New("attachment: unsupported file type")
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".odt":  {},
	".txt":  {},
}

// DiskStore keeps uploads as files under one directory.
type DiskStore struct {
	dir         string
	maxBytes    int64
	idGenerator func() string
}

func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("attachment: create dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes, idGenerator: uuid.NewString}, nil
}

// MaxBytes is the largest upload Save accepts.
func (s *DiskStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save copies r into a new file and returns its storage reference. An empty
// upload stores nothing and returns nil.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (*string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref := s.idGenerator() + ext
	path := filepath.Join(s.dir, ref)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("attachment: create file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return nil, fmt.Errorf("attachment: write: %w", err)
	case closeErr != nil:
		_ = os.Remove(path)
		return nil, fmt.Errorf("attachment: close: %w", closeErr)
	case written > s.maxBytes:
		_ = os.Remove(path)
		return nil, ErrTooLarge
	case written == 0:
		_ = os.Remove(path)
		return nil, nil
	}
	return &ref, nil
}

// Remove deletes a stored upload. Removing a missing reference is not an error.
func (s *DiskStore) Remove(ref string) error {
	if ref == "" || ref != filepath.Base(ref) {
		return fmt.Errorf("attachment: invalid reference %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("attachment: remove: %w", err)
	}
	return nil
}
