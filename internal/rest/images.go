package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dfryer1193/imagehost/images/application"
	"github.com/dfryer1193/imagehost/images/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxBodySize caps the declared request size before any bytes are read.
const maxBodySize = 2 * application.MaxFileSize

// Upload handles POST /upload: buffer the body, run the upload pipeline, and
// answer with the committed record's public fields.
func (a *ImagesAPI) Upload(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		respondError(c, http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	_, boundary, found := strings.Cut(contentType, "boundary=")
	if !found || boundary == "" {
		respondError(c, http.StatusBadRequest, "boundary not found")
		return
	}

	length := c.Request.ContentLength
	if length <= 0 {
		respondError(c, http.StatusLengthRequired, "missing or invalid Content-Length")
		return
	}
	if length > maxBodySize {
		respondError(c, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	rawBody := make([]byte, length)
	if _, err := io.ReadFull(c.Request.Body, rawBody); err != nil {
		log.Error().Err(err).Msg("Failed to read request body")
		respondError(c, http.StatusInternalServerError, "failed to read request body")
		return
	}

	result, err := a.uploads.Upload(c.Request.Context(), rawBody, []byte(boundary))
	if err != nil {
		var rejection *application.RejectionError
		if errors.As(err, &rejection) {
			respondError(c, rejection.Status, rejection.Message)
			return
		}

		log.Error().Err(err).Msg("Upload failed")
		respondError(c, http.StatusInternalServerError, "failed to save upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "file uploaded successfully",
		"filename":      result.StoredName,
		"url":           result.URL,
		"id":            result.ID,
		"original_name": result.OriginalName,
		"size":          result.SizeBytes,
		"file_type":     result.FileType,
	})
}

// ImagesList handles GET /images-list?page=N.
func (a *ImagesAPI) ImagesList(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := a.listings.ListPage(c.Request.Context(), page)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list images")
		respondError(c, http.StatusInternalServerError, "failed to list images")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   result,
	})
}

// Delete handles GET /delete/:id and redirects back to the listing.
func (a *ImagesAPI) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "image not found")
		return
	}

	if err := a.listings.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}

		log.Error().Err(err).Int64("id", id).Msg("Failed to delete image")
		respondError(c, http.StatusInternalServerError, "failed to delete image")
		return
	}

	c.Redirect(http.StatusSeeOther, "/images-list")
}
