package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/imagehost/images/domain"
	"github.com/rs/zerolog/log"
)

// UploadService sequences the upload pipeline: extract the file field,
// validate it, write it to the content store, then persist metadata. A
// metadata failure after a successful write triggers a compensating removal
// of the file, so a record exists iff its backing file does.
type UploadService struct {
	repo    domain.ImageRepository
	storage *Storage
}

// NewUploadService creates a new UploadService
func NewUploadService(repo domain.ImageRepository, storage *Storage) *UploadService {
	return &UploadService{
		repo:    repo,
		storage: storage,
	}
}

// UploadResult holds the public fields of a committed upload.
type UploadResult struct {
	ID           int64
	StoredName   string
	URL          string
	OriginalName string
	SizeBytes    int64
	FileType     string
}

// Upload runs the pipeline over a fully buffered request body. Client-input
// failures come back as *RejectionError with no side effects; any other
// error is a server-side failure.
func (s *UploadService) Upload(ctx context.Context, rawBody, boundary []byte) (*UploadResult, error) {
	content, originalName, ok := ExtractFile(rawBody, boundary)
	if !ok {
		return nil, reject("no file found in request")
	}

	size := int64(len(content))
	if err := ValidateUpload(originalName, size); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	storedName, err := s.storage.Store(content, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	id, err := s.repo.Insert(ctx, storedName, originalName, size, strings.TrimPrefix(ext, "."))
	if err != nil {
		// Roll back the file write so no orphan remains on disk
		if rmErr := s.storage.Remove(storedName); rmErr != nil {
			log.Error().Err(rmErr).Str("filename", storedName).Msg("Failed to roll back file write")
		}
		return nil, fmt.Errorf("failed to persist upload metadata: %w", err)
	}

	log.Info().
		Str("original_name", originalName).
		Str("filename", storedName).
		Int64("id", id).
		Msg("Image uploaded")

	return &UploadResult{
		ID:           id,
		StoredName:   storedName,
		URL:          "/images/" + storedName,
		OriginalName: originalName,
		SizeBytes:    size,
		FileType:     strings.TrimPrefix(ext, "."),
	}, nil
}
