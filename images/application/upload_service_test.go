package application

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/dfryer1193/imagehost/images/domain"
)

// fakeRepo is an in-memory domain.ImageRepository for service tests.
type fakeRepo struct {
	records   []*domain.ImageRecord
	nextID    int64
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (f *fakeRepo) Insert(_ context.Context, storedName, originalName string, sizeBytes int64, fileType string) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	id := f.nextID
	f.nextID++
	f.records = append(f.records, &domain.ImageRecord{
		ID:           id,
		StoredName:   storedName,
		OriginalName: originalName,
		SizeBytes:    sizeBytes,
		UploadedAt:   time.Now().UTC(),
		FileType:     fileType,
	})
	return id, nil
}

func (f *fakeRepo) List(_ context.Context, offset, limit int) (int, []*domain.ImageRecord, error) {
	total := len(f.records)
	if offset >= total {
		return total, nil, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	// Most recent first
	page := make([]*domain.ImageRecord, 0, end-offset)
	for i := total - 1 - offset; i >= total-end; i-- {
		page = append(page, f.records[i])
	}
	return total, page, nil
}

func (f *fakeRepo) GetFilename(_ context.Context, id int64) (string, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec.StoredName, nil
		}
	}
	return "", domain.ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	for i, rec := range f.records {
		if rec.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	return len(entries)
}

func TestUploadService_Upload(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	repo := newFakeRepo()
	svc := NewUploadService(repo, storage)

	content := []byte("\x89PNG fake image bytes")
	body := buildBody(buildPart("file", "cat.png", content))

	result, err := svc.Upload(context.Background(), body, []byte(testBoundary))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if result.ID != 1 {
		t.Errorf("ID = %d, want 1", result.ID)
	}
	if result.OriginalName != "cat.png" {
		t.Errorf("OriginalName = %q, want %q", result.OriginalName, "cat.png")
	}
	if result.SizeBytes != int64(len(content)) {
		t.Errorf("SizeBytes = %d, want %d", result.SizeBytes, len(content))
	}
	if result.FileType != "png" {
		t.Errorf("FileType = %q, want %q", result.FileType, "png")
	}
	if result.URL != "/images/"+result.StoredName {
		t.Errorf("URL = %q, want %q", result.URL, "/images/"+result.StoredName)
	}

	if countFiles(t, storage.Dir()) != 1 {
		t.Error("Expected exactly one file in the content store")
	}
	if len(repo.records) != 1 {
		t.Error("Expected exactly one record in the repository")
	}
	if repo.records[0].StoredName != result.StoredName {
		t.Errorf("Record stored name = %q, want %q", repo.records[0].StoredName, result.StoredName)
	}
}

func TestUploadService_Upload_RollsBackFileOnInsertFailure(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	repo := newFakeRepo()
	repo.insertErr = errors.New("connection refused")
	svc := NewUploadService(repo, storage)

	body := buildBody(buildPart("file", "cat.png", []byte("image bytes")))

	_, err = svc.Upload(context.Background(), body, []byte(testBoundary))
	if err == nil {
		t.Fatal("Expected upload to fail")
	}

	var rejection *RejectionError
	if errors.As(err, &rejection) {
		t.Errorf("Insert failure must be a server error, got rejection: %v", err)
	}

	if countFiles(t, storage.Dir()) != 0 {
		t.Error("Expected the written file to be rolled back")
	}
	if len(repo.records) != 0 {
		t.Error("Expected no record in the repository")
	}
}

func TestUploadService_Upload_RejectsDisallowedExtension(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	repo := newFakeRepo()
	svc := NewUploadService(repo, storage)

	body := buildBody(buildPart("file", "notes.txt", []byte("plain text")))

	_, err = svc.Upload(context.Background(), body, []byte(testBoundary))

	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("Error = %v, want *RejectionError", err)
	}
	if rejection.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rejection.Status, http.StatusBadRequest)
	}

	// Rejection without mutation
	if countFiles(t, storage.Dir()) != 0 {
		t.Error("Expected the content store to stay empty")
	}
	if len(repo.records) != 0 {
		t.Error("Expected the repository to stay empty")
	}
}

func TestUploadService_Upload_RejectsMissingFile(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	svc := NewUploadService(newFakeRepo(), storage)

	var b bytes.Buffer
	b.WriteString("--" + testBoundary + "--\r\n")

	_, err = svc.Upload(context.Background(), b.Bytes(), []byte(testBoundary))

	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("Error = %v, want *RejectionError", err)
	}
	if rejection.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rejection.Status, http.StatusBadRequest)
	}
}
