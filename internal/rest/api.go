package rest

import (
	"net/http"
	"path/filepath"

	"github.com/dfryer1193/imagehost/images/application"
	"github.com/gin-gonic/gin"
)

// ImagesAPI exposes the upload, listing, and delete operations over HTTP.
type ImagesAPI struct {
	uploads  *application.UploadService
	listings *application.ListingService
}

// NewImagesAPI creates a new ImagesAPI
func NewImagesAPI(uploads *application.UploadService, listings *application.ListingService) *ImagesAPI {
	return &ImagesAPI{
		uploads:  uploads,
		listings: listings,
	}
}

// Register wires the HTTP surface onto the router. Stored image bytes are
// served straight from the content store; in front of a reverse proxy the
// /images route would be handled there instead.
func (a *ImagesAPI) Register(router *gin.Engine, staticDir, uploadDir string) {
	router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	router.Static("/images", uploadDir)

	router.POST("/upload", a.Upload)
	router.GET("/images-list", a.ImagesList)
	router.GET("/delete/:id", a.Delete)

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not found")
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}
