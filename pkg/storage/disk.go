// Package storage writes admin-console export artifacts to a configurable
// disk: the local filesystem by default, or any S3-compatible bucket.
package storage

import (
	"io"
	"time"
)

// Disk is a flat-file storage backend.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	Exists(path string) bool
	Delete(path string) error
	Files(directory string) ([]string, error)
	LastModified(path string) (time.Time, error)
	// URL returns where the written artifact can be retrieved.
	URL(path string) string
}
