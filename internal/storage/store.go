// Package storage saves generated penalty reports. The local store serves
// development; R2 serves production behind a public bucket URL.
package storage

import (
	"context"
	"io"
	"strings"
)

// FileInfo describes a stored file.
type FileInfo struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// Store persists files under slash-separated paths.
type Store interface {
	Save(ctx context.Context, path string, file io.Reader, contentType string) (*FileInfo, error)
	Delete(ctx context.Context, path string) error
	// List returns the paths of every file below prefix, in no set order.
	List(ctx context.Context, prefix string) ([]string, error)
	// URL returns where a client can fetch path.
	URL(path string) string
}

func baseName(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
