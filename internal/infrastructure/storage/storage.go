package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Object describes a stored export
type Object struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	Driver    string    `json:"driver"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ArchiveStore keeps a copy of every generated export
type ArchiveStore interface {
	Driver() string
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
}

// sanitizeKey rejects keys that could escape the archive root
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	return path.Clean(key), nil
}

// ExportKey names an export file by kind and time, e.g.
// "ganancias/2024/03/ganancias-20240305-140700.xlsx"
func ExportKey(kind string, at time.Time, ext string) string {
	at = at.UTC()
	return fmt.Sprintf("%s/%s/%s-%s.%s", kind, at.Format("2006/01"), kind, at.Format("20060102-150405"), ext)
}
