// Package storage keeps the bytes of uploaded images. Metadata lives in the
// images collection; a FileStore only knows about names.
package storage

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrNotReady        = errors.New("storage is not ready")
	ErrInvalidName     = errors.New("invalid file name")
	ErrUnsupportedType = errors.New("unsupported file type")
)

type FileStore interface {
	// Save stores the upload under a freshly generated name.
	Save(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error)
	// Remove deletes the stored bytes. A missing file is not an error.
	Remove(ctx context.Context, filename string) error
	// Ready reports whether the store can currently accept operations.
	Ready() error
}

type StoredFile struct {
	Filename    string
	Destination string
	Path        string
	Size        int64
}

// ValidateName rejects anything that is not a plain file name.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	if filepath.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}

// ExtensionAllowed checks the lower-cased extension of name against a comma
// separated allow list. An empty list allows everything.
func ExtensionAllowed(name, allowList string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if strings.TrimSpace(allowList) == "" {
		return ext, true
	}
	if ext == "" {
		return "", false
	}
	for _, allowed := range strings.Split(allowList, ",") {
		if strings.TrimSpace(strings.ToLower(allowed)) == ext {
			return ext, true
		}
	}
	return ext, false
}
