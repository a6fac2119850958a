// Package storage uploads deal images to an object store and maps the
// resulting public URLs back to object names.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ObjectStore interface {
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (publicURL string, err error)
	Delete(ctx context.Context, objectName string) error
	// ObjectName reverses a public URL produced by Upload.
	ObjectName(publicURL string) (string, error)
}

// DealImageObjectName builds a unique object name under deals/<id>/.
func DealImageObjectName(dealID uint, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("deals/%d/%d-%s%s", dealID, now.UTC().Unix(), uuid.New().String(), ext)
}

// ContentType prefers the client-declared type, then the extension.
func ContentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}
