package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("image record not found")

// ImageRecord represents the metadata persisted for one stored image.
// StoredName is the server-generated filename in the content store;
// OriginalName is the client-supplied name, kept verbatim for display only
// and never used to build paths.
type ImageRecord struct {
	ID           int64
	StoredName   string
	OriginalName string
	SizeBytes    int64
	UploadedAt   time.Time
	FileType     string
}

type ImageRepository interface {
	// Insert persists a new record and returns the store-assigned id.
	Insert(ctx context.Context, storedName, originalName string, sizeBytes int64, fileType string) (int64, error)

	// List returns the total record count and one page of records ordered
	// by upload time descending.
	List(ctx context.Context, offset, limit int) (int, []*ImageRecord, error)

	// GetFilename returns the stored filename for a record, or ErrNotFound.
	GetFilename(ctx context.Context, id int64) (string, error)

	// Delete removes a record. Deleting an id that no longer exists is not
	// an error.
	Delete(ctx context.Context, id int64) error
}
