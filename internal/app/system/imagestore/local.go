package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores objects under a root directory and serves them under a URL
// prefix (see bootstrap routes).
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates the root directory if needed.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if root == "" {
		return nil, errors.New("imagestore: local root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: create root: %w", err)
	}
	return &Local{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Root is the directory objects are written to.
func (l *Local) Root() string { return l.root }

// URLPrefix is the path objects are served under.
func (l *Local) URLPrefix() string { return l.urlPrefix }

// FullPath maps an object path to a file inside root, rejecting traversal.
func (l *Local) FullPath(objectPath string) (string, error) {
	for _, seg := range strings.Split(objectPath, "/") {
		if seg == ".." {
			return "", fmt.Errorf("imagestore: invalid object path %q", objectPath)
		}
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" {
		return "", fmt.Errorf("imagestore: invalid object path %q", objectPath)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

// Put implements Store.
func (l *Local) Put(ctx context.Context, objectPath string, r io.Reader, _ *PutOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.FullPath(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("imagestore: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("imagestore: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("imagestore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("imagestore: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("imagestore: rename: %w", err)
	}
	return nil
}

// URL implements Store.
func (l *Local) URL(objectPath string) string {
	return l.urlPrefix + "/" + strings.TrimLeft(objectPath, "/")
}
