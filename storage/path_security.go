package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SecureJoin joins relativePath under basePath and returns the absolute
// result. Absolute inputs, ".." escapes and symlinks anywhere between base and
// target are rejected.
func SecureJoin(basePath, relativePath string) (string, error) {
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	cleanRel := filepath.Clean(relativePath)
	if cleanRel == "." {
		cleanRel = ""
	}
	if filepath.IsAbs(cleanRel) {
		return "", fmt.Errorf("%w: absolute path not allowed", ErrInvalidName)
	}

	targetAbs, err := filepath.Abs(filepath.Join(baseAbs, cleanRel))
	if err != nil {
		return "", fmt.Errorf("resolve target path: %w", err)
	}

	if err := ensureNoSymlinkBetween(baseAbs, targetAbs); err != nil {
		return "", err
	}
	return targetAbs, nil
}

// ensureNoSymlinkBetween walks from target up to base. Nodes that do not exist
// yet are allowed so the check can run before a file is created.
func ensureNoSymlinkBetween(baseAbs, targetAbs string) error {
	if err := ensureWithinBase(baseAbs, targetAbs); err != nil {
		return err
	}

	current := targetAbs
	for {
		info, err := os.Lstat(current)
		if err == nil {
			if info.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("%w: symlink in path %s", ErrInvalidName, current)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("inspect path: %w", err)
		}

		if samePath(current, baseAbs) {
			return nil
		}

		parent := filepath.Dir(current)
		if samePath(parent, current) {
			return fmt.Errorf("%w: base directory not reachable", ErrInvalidName)
		}
		current = parent
	}
}

func ensureWithinBase(baseAbs, targetAbs string) error {
	baseVol := filepath.VolumeName(baseAbs)
	targetVol := filepath.VolumeName(targetAbs)
	if (baseVol != "" || targetVol != "") && !strings.EqualFold(baseVol, targetVol) {
		return fmt.Errorf("%w: path crosses volumes", ErrInvalidName)
	}

	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrInvalidName)
	}
	return nil
}

func samePath(a, b string) bool {
	a = filepath.Clean(a)
	b = filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
