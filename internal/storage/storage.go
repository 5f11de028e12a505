// Package storage adapts the object store that holds material files.
package storage

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotConfigured = errors.New("object storage not configured")
	ErrObjectMissing = errors.New("object not found")
)

// Object describes a stored blob.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	PublicURL    string    `json:"public_url"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStore is the subset of an object storage service the materials flow
// depends on.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	PublicURL(key string) string
	List(ctx context.Context, prefix string) ([]Object, error)
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MaterialKey builds "<prefix>/<CODE>/<slug-of-title>.<ext>".
func MaterialKey(prefix, code, title, filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	name := Slugify(title)
	if ext != "" {
		name += "." + ext
	}
	return path.Join(strings.Trim(prefix, "/"), code, name)
}

// CodePrefix is the listing prefix for every file stored under code.
func CodePrefix(prefix, code string) string {
	return path.Join(strings.Trim(prefix, "/"), code) + "/"
}

// FileType is the label shown next to a material: its upper-cased extension,
// or FILE when there is none.
func FileType(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "FILE"
	}
	return strings.ToUpper(ext)
}

func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

// ContentType picks a MIME type from the extension, falling back to sniffing
// the first bytes.
func ContentType(filename string, head []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	if len(head) > 0 {
		return http.DetectContentType(head)
	}
	return "application/octet-stream"
}
