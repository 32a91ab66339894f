package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes uploads into a single flat directory.
type LocalStore struct {
	root        string
	allowedExts string
}

func NewLocalStore(root, allowedExts string) *LocalStore {
	return &LocalStore{root: root, allowedExts: allowedExts}
}

func (s *LocalStore) Ready() error {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return ErrNotReady
	}
	return nil
}

func (s *LocalStore) Save(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	ext, ok := ExtensionAllowed(file.Filename, s.allowedExts)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	name := uuid.New().String() + ext
	dst, err := SecureJoin(s.root, name)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &StoredFile{
		Filename:    name,
		Destination: s.root,
		Path:        filepath.ToSlash(filepath.Join(s.root, name)),
		Size:        written,
	}, nil
}

func (s *LocalStore) Remove(ctx context.Context, filename string) error {
	if err := ValidateName(filename); err != nil {
		return err
	}
	target, err := SecureJoin(s.root, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		log.Printf("[LocalStore] remove %s failed: %v", target, err)
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
