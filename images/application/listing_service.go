package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dfryer1193/imagehost/images/domain"
	"github.com/rs/zerolog/log"
)

// PageSize is the fixed listing page size.
const PageSize = 10

// ImageView is the listing representation of one record.
type ImageView struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	SizeKB       int64  `json:"size_kb"`
	UploadTime   string `json:"upload_time"`
	FileType     string `json:"file_type"`
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
	TotalPages int  `json:"total_pages"`
}

// Page is one page of the image listing.
type Page struct {
	Images     []ImageView `json:"images"`
	Pagination Pagination  `json:"pagination"`
}

// ListingService serves the paginated listing and delete-by-id operations.
type ListingService struct {
	repo    domain.ImageRepository
	storage *Storage
}

// NewListingService creates a new ListingService
func NewListingService(repo domain.ImageRepository, storage *Storage) *ListingService {
	return &ListingService{
		repo:    repo,
		storage: storage,
	}
}

// ListPage returns one page of the listing, most recent uploads first.
// Page numbers below 1 are clamped to 1.
func (s *ListingService) ListPage(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	total, records, err := s.repo.List(ctx, offset, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]ImageView, 0, len(records))
	for _, rec := range records {
		view := ImageView{
			ID:           rec.ID,
			Filename:     rec.StoredName,
			OriginalName: rec.OriginalName,
			Size:         rec.SizeBytes,
			SizeKB:       rec.SizeBytes / 1024,
			FileType:     rec.FileType,
		}
		if !rec.UploadedAt.IsZero() {
			view.UploadTime = rec.UploadedAt.Format(time.RFC3339)
		}
		images = append(images, view)
	}

	return &Page{
		Images: images,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PerPage:    PageSize,
			HasPrev:    page > 1,
			HasNext:    offset+PageSize < total,
			TotalPages: (total + PageSize - 1) / PageSize,
		},
	}, nil
}

// Delete removes a record and its backing file. A missing record returns
// domain.ErrNotFound with no filesystem mutation; a file already absent from
// disk is tolerated.
func (s *ListingService) Delete(ctx context.Context, id int64) error {
	storedName, err := s.repo.GetFilename(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, err)
	}

	if err := s.storage.Remove(storedName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("filename", storedName).Int64("id", id).Msg("File already missing on delete")
		} else {
			log.Error().Err(err).Str("filename", storedName).Int64("id", id).Msg("Failed to remove file on delete")
		}
		return nil
	}

	log.Info().Str("filename", storedName).Int64("id", id).Msg("Image deleted")
	return nil
}
