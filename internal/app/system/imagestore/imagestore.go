// Package imagestore saves uploaded article images and resolves their
// public URLs. Backends: local filesystem and S3 (or an S3-compatible
// endpoint such as MinIO).
package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 << 20

// Dir is the object prefix all article images live under.
const Dir = "article-images"

// PutOptions describes an object being stored.
type PutOptions struct {
	ContentType string
	Size        int64
}

// Store accepts a blob under a path and resolves the path to a public URL.
type Store interface {
	Put(ctx context.Context, objectPath string, r io.Reader, opts *PutOptions) error
	URL(objectPath string) string
}

// Validate checks the content type and size of an upload.
func Validate(contentType string, size int64) error {
	verr := &apperr.ValidationError{}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		verr.Add("file", "file must be an image")
	}
	if size <= 0 {
		verr.Add("file", "file is empty")
	} else if size > MaxImageSize {
		verr.Add("file", fmt.Sprintf("image must be %d MiB or smaller", MaxImageSize>>20))
	}
	return verr.OrNil()
}

// ObjectPath returns article-images/<unix-ms>-<uuid8>-<safe name>.
func ObjectPath(filename string, now time.Time) string {
	name := fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.New().String()[:8], SanitizeFilename(filename))
	return path.Join(Dir, name)
}

// SanitizeFilename keeps the base name and replaces characters outside
// [A-Za-z0-9._-] with '_'. Long names are truncated with the extension kept.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		filename = ""
	}

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "image"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

// Markdown returns the image reference inserted into article content.
func Markdown(name, url string) string {
	alt := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	alt = strings.NewReplacer("[", "", "]", "").Replace(alt)
	return fmt.Sprintf("![%s](%s)", alt, url)
}
