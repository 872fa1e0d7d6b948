package filestorage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidPath is returned for keys that escape the storage root
var ErrInvalidPath = errors.New("invalid file path")

// StoredFile describes a file after it has been persisted
type StoredFile struct {
	Filename    string // Generated name, without directory
	Path        string // Storage key relative to the root, e.g. avatars/abc.png
	URL         string // Publicly reachable URL
	Size        int64
	ContentType string
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes r under subdir/filename
	Save(ctx context.Context, subdir, filename string, r io.Reader, size int64, contentType string) (*StoredFile, error)

	// Delete removes a file by the Path returned from Save.
	// Missing files are not an error.
	Delete(ctx context.Context, path string) error
}

func objectKey(subdir, filename string) string {
	if subdir == "" {
		return filename
	}
	return subdir + "/" + filename
}
