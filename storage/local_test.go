package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snapgram/testutils"
)

func TestLocalStore_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, ".png,.jpg")

	fh := testutils.FileHeader(t, "cat.PNG", []byte("png-bytes"))
	stored, err := store.Save(context.Background(), fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(stored.Filename, ".png") {
		t.Fatalf("expected lower-cased extension, got %q", stored.Filename)
	}
	if stored.Size != int64(len("png-bytes")) || stored.Destination != root {
		t.Fatalf("unexpected stored file: %+v", stored)
	}

	data, err := os.ReadFile(filepath.Join(root, stored.Filename))
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("expected file on disk, got %q err=%v", data, err)
	}

	if err := store.Remove(context.Background(), stored.Filename); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, stored.Filename)); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err=%v", err)
	}

	// removing twice is fine
	if err := store.Remove(context.Background(), stored.Filename); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestLocalStore_RejectsUnsupportedExtension(t *testing.T) {
	store := NewLocalStore(t.TempDir(), ".png")

	_, err := store.Save(context.Background(), testutils.FileHeader(t, "run.sh", []byte("#!")))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestLocalStore_ReadyRequiresDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	store := NewLocalStore(missing, "")

	if err := store.Ready(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := store.Save(context.Background(), testutils.FileHeader(t, "a.png", []byte("x"))); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected Save to fail with ErrNotReady, got %v", err)
	}
}

func TestLocalStore_RemoveRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "uploads")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}
	victim := filepath.Join(base, "secret.txt")
	if err := os.WriteFile(victim, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewLocalStore(root, "")
	for _, name := range []string{"../secret.txt", "..", "", "a/b.png", `a\b.png`} {
		if err := store.Remove(context.Background(), name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Remove(%q): expected ErrInvalidName, got %v", name, err)
		}
	}
	if _, err := os.Stat(victim); err != nil {
		t.Fatalf("file outside the root must survive: %v", err)
	}
}

func TestExtensionAllowed(t *testing.T) {
	cases := []struct {
		name  string
		allow string
		ok    bool
	}{
		{"a.JPG", ".jpg,.png", true},
		{"a.gif", ".jpg, .png", false},
		{"noext", ".jpg", false},
		{"noext", "", true},
	}
	for _, tc := range cases {
		if _, ok := ExtensionAllowed(tc.name, tc.allow); ok != tc.ok {
			t.Fatalf("ExtensionAllowed(%q, %q) = %v, want %v", tc.name, tc.allow, ok, tc.ok)
		}
	}
}
