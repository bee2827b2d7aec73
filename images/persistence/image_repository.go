package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dfryer1193/imagehost/images/domain"
	"github.com/dfryer1193/imagehost/shared/db"
	"github.com/rs/zerolog/log"
)

var _ domain.ImageRepository = (*SQLImageRepository)(nil)

// SQLImageRepository implements domain.ImageRepository over database/sql
// (PostgreSQL in production, SQLite in tests).
type SQLImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLImageRepository {
	return &SQLImageRepository{
		db: sqlDB,
	}
}

const insertImageQuery = `
	INSERT INTO images (filename, original_name, size, file_type)
	VALUES ($1, $2, $3, $4)
	RETURNING id
`

// Insert persists a new image record and returns the generated id. The
// upload timestamp is assigned by the store.
func (r *SQLImageRepository) Insert(ctx context.Context, storedName, originalName string, sizeBytes int64, fileType string) (int64, error) {
	if storedName == "" {
		return 0, fmt.Errorf("stored name cannot be empty")
	}

	var id int64
	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		return executor.QueryRowContext(txCtx, insertImageQuery,
			storedName,
			originalName,
			sizeBytes,
			fileType,
		).Scan(&id)
	})

	if err != nil {
		return 0, fmt.Errorf("failed to insert image record: %w", err)
	}

	return id, nil
}

const countImagesQuery = `
	SELECT COUNT(*) FROM images
`

const listImagesQuery = `
	SELECT id, filename, original_name, size, upload_time, file_type
	FROM images
	ORDER BY upload_time DESC, id DESC
	LIMIT $1 OFFSET $2
`

// List returns the total record count and one page of records, most recent
// first. Ties on upload_time are broken by id so pages stay stable.
func (r *SQLImageRepository) List(ctx context.Context, offset, limit int) (int, []*domain.ImageRecord, error) {
	executor := db.GetExecutor(ctx, r.db)

	var total int
	if err := executor.QueryRowContext(ctx, countImagesQuery).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count image records: %w", err)
	}

	rows, err := executor.QueryContext(ctx, listImagesQuery, limit, offset)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list image records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.ImageRecord, 0, limit)
	for rows.Next() {
		var row imageRow
		if err := rows.Scan(
			&row.ID,
			&row.Filename,
			&row.OriginalName,
			&row.Size,
			&row.UploadTime,
			&row.FileType,
		); err != nil {
			return 0, nil, fmt.Errorf("failed to scan image record: %w", err)
		}
		records = append(records, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate image records: %w", err)
	}

	return total, records, nil
}

const getFilenameQuery = `
	SELECT filename FROM images WHERE id = $1
`

// GetFilename returns the stored filename for a record id.
func (r *SQLImageRepository) GetFilename(ctx context.Context, id int64) (string, error) {
	executor := db.GetExecutor(ctx, r.db)

	var filename string
	err := executor.QueryRowContext(ctx, getFilenameQuery, id).Scan(&filename)

	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get image filename: %w", err)
	}

	return filename, nil
}

const deleteImageQuery = `
	DELETE FROM images WHERE id = $1
`

// Delete removes an image record. An id that matched no rows is logged and
// treated as already deleted.
func (r *SQLImageRepository) Delete(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, deleteImageQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		log.Warn().Int64("id", id).Msg("Delete matched no image record")
	}

	return nil
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	ID           int64
	Filename     string
	OriginalName string
	Size         int64
	UploadTime   sql.NullTime
	FileType     string
}

// toDomain converts an imageRow to a domain.ImageRecord, handling the
// nullable timestamp
func (ir *imageRow) toDomain() *domain.ImageRecord {
	rec := &domain.ImageRecord{
		ID:           ir.ID,
		StoredName:   ir.Filename,
		OriginalName: ir.OriginalName,
		SizeBytes:    ir.Size,
		FileType:     ir.FileType,
	}

	if ir.UploadTime.Valid {
		rec.UploadedAt = ir.UploadTime.Time
	}

	return rec
}
